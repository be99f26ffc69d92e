package handlers

import (
	"context"
	"strings"
	"time"

	"game-night-service/logger"
	"game-night-service/models"
	"game-night-service/services"

	"github.com/gofiber/fiber/v2"
)

type createSessionRequest struct {
	BoardGameID    string     `json:"board_game_id"`
	ParticipantIDs []string   `json:"participant_ids"`
	Date           *time.Time `json:"date"`
	Location       string     `json:"location"`
	Notes          string     `json:"notes"`
}

func (r createSessionRequest) input() services.CreateSessionInput {
	in := services.CreateSessionInput{
		BoardGameID:    r.BoardGameID,
		ParticipantIDs: r.ParticipantIDs,
		Metadata:       models.SessionMetadata{Location: r.Location, Notes: r.Notes},
	}
	if r.Date != nil {
		in.Metadata.Date = r.Date.UTC()
	}
	return in
}

type transitionRequest struct {
	Status string `json:"status"`
}

type placePredictionRequest struct {
	BettorID          string `json:"bettor_id"`
	PredictedWinnerID string `json:"predicted_winner_id"`
}

type completeSessionRequest struct {
	WinnerID string `json:"winner_id"`
}

type SessionHandler struct {
	sessions *services.SessionService
	ledger   *services.PredictionLedger
	log      *logger.Logger
}

func NewSessionHandler(sessions *services.SessionService, ledger *services.PredictionLedger, log *logger.Logger) *SessionHandler {
	return &SessionHandler{sessions: sessions, ledger: ledger, log: log}
}

func SetupSessionRoutes(router fiber.Router, h *SessionHandler) {
	// Staged flow: Created, then start-betting.
	router.Get("/sessions", h.List)
	router.Post("/sessions", h.CreateStaged)
	router.Get("/sessions/:id", h.Get)
	router.Post("/sessions/:id/start-betting", h.StartBetting)
	router.Post("/sessions/:id/transition", h.Transition)
	router.Post("/sessions/:id/predictions", h.PlacePrediction)
	router.Get("/sessions/:id/pending-bettors", h.PendingBettors)
	router.Get("/sessions/:id/predictions/summary", h.Summary)
	router.Post("/sessions/:id/complete", h.Complete)

	// Direct flow: straight into Betting.
	router.Post("/bet-sessions", h.CreateForBetting)
	router.Get("/bet-sessions/:id", h.Details)
	router.Post("/bet-sessions/:id/start-playing", h.StartPlaying)
}

// List supports ?status=Betting,Playing and ?limit=N.
func (h *SessionHandler) List(c *fiber.Ctx) error {
	var filter models.SessionFilter
	if raw := c.Query("status"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			status, err := models.ParseSessionStatus(part)
			if err != nil {
				return writeError(c, h.log, err)
			}
			filter.Statuses = append(filter.Statuses, status)
		}
	}
	filter.Limit = c.QueryInt("limit", 0)

	views, err := h.sessions.List(c.UserContext(), filter)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(views)
}

func (h *SessionHandler) Get(c *fiber.Ctx) error {
	view, err := h.sessions.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(view)
}

func (h *SessionHandler) CreateStaged(c *fiber.Ctx) error {
	return h.create(c, h.sessions.CreateStaged)
}

func (h *SessionHandler) CreateForBetting(c *fiber.Ctx) error {
	return h.create(c, h.sessions.CreateForBetting)
}

type createFunc func(ctx context.Context, in services.CreateSessionInput) (*models.GameSession, error)

func (h *SessionHandler) create(c *fiber.Ctx, create createFunc) error {
	var req createSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid JSON")
	}
	session, err := create(c.UserContext(), req.input())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(session)
}

func (h *SessionHandler) StartBetting(c *fiber.Ctx) error {
	if _, err := h.sessions.StartBetting(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *SessionHandler) Transition(c *fiber.Ctx) error {
	var req transitionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid JSON")
	}
	target, err := models.ParseSessionStatus(req.Status)
	if err != nil {
		return writeError(c, h.log, err)
	}
	if _, err := h.sessions.Transition(c.UserContext(), c.Params("id"), target); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *SessionHandler) StartPlaying(c *fiber.Ctx) error {
	allBet, err := h.sessions.StartPlaying(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(fiber.Map{
		"session_id":           c.Params("id"),
		"status":               models.SessionPlaying,
		"all_players_have_bet": allBet,
	})
}

func (h *SessionHandler) PlacePrediction(c *fiber.Ctx) error {
	var req placePredictionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid JSON")
	}
	if req.BettorID == "" || req.PredictedWinnerID == "" {
		return badRequest(c, "bettor_id and predicted_winner_id are required")
	}
	prediction, err := h.ledger.Place(c.UserContext(), c.Params("id"), req.BettorID, req.PredictedWinnerID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(prediction)
}

func (h *SessionHandler) PendingBettors(c *fiber.Ctx) error {
	pending, err := h.ledger.PendingBettors(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := make([]models.PlayerSummary, 0, len(pending))
	for _, p := range pending {
		out = append(out, p.Summary())
	}
	return c.JSON(out)
}

func (h *SessionHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.ledger.Summary(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(summary)
}

func (h *SessionHandler) Details(c *fiber.Ctx) error {
	details, err := h.sessions.Details(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(details)
}

func (h *SessionHandler) Complete(c *fiber.Ctx) error {
	var req completeSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid JSON")
	}
	if req.WinnerID == "" {
		return badRequest(c, "winner_id is required")
	}
	result, err := h.sessions.Complete(c.UserContext(), c.Params("id"), req.WinnerID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(result)
}
