package handlers

import (
	"game-night-service/logger"
	"game-night-service/services"

	"github.com/gofiber/fiber/v2"
)

type matchRequest struct {
	PlayerIDs []string `json:"player_ids"`
	GameID    string   `json:"game_id"`
}

type GameHandler struct {
	matches *services.MatchService
	log     *logger.Logger
}

func NewGameHandler(matches *services.MatchService, log *logger.Logger) *GameHandler {
	return &GameHandler{matches: matches, log: log}
}

func SetupGameRoutes(router fiber.Router, h *GameHandler) {
	router.Post("/games/match-score", h.MatchScore)
	router.Post("/games/rank", h.Rank)
}

// MatchScore scores game_id for the group, or the best game when it is empty.
func (h *GameHandler) MatchScore(c *fiber.Ctx) error {
	var req matchRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid JSON")
	}
	score, err := h.matches.MatchScore(c.UserContext(), req.PlayerIDs, req.GameID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(score)
}

func (h *GameHandler) Rank(c *fiber.Ctx) error {
	var req matchRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid JSON")
	}
	ranked, err := h.matches.Rank(c.UserContext(), req.PlayerIDs)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(ranked)
}
