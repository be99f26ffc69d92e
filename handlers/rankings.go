package handlers

import (
	"context"

	"game-night-service/logger"
	"game-night-service/services"

	"github.com/gofiber/fiber/v2"
)

type RankingHandler struct {
	rankings *services.RankingService
	log      *logger.Logger
}

func NewRankingHandler(rankings *services.RankingService, log *logger.Logger) *RankingHandler {
	return &RankingHandler{rankings: rankings, log: log}
}

func SetupRankingRoutes(router fiber.Router, h *RankingHandler) {
	router.Get("/rankings/champions", h.Champions)
	router.Get("/rankings/champions/:gameId", h.Champions)
	router.Get("/rankings/oracles", h.Oracles)
	router.Get("/rankings/oracles/:gameId", h.Oracles)
}

func (h *RankingHandler) Champions(c *fiber.Ctx) error {
	return h.board(c, h.rankings.Champions)
}

func (h *RankingHandler) Oracles(c *fiber.Ctx) error {
	return h.board(c, h.rankings.Oracles)
}

type boardFunc func(ctx context.Context, boardGameID *string, top int) ([]services.RankingEntry, error)

func (h *RankingHandler) board(c *fiber.Ctx, load boardFunc) error {
	var gameID *string
	if id := c.Params("gameId"); id != "" {
		gameID = &id
	}
	top := services.ClampRankingSize(c.QueryInt("top", services.DefaultRankingSize))
	entries, err := load(c.UserContext(), gameID, top)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(entries)
}
