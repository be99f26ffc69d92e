package handlers

import (
	"game-night-service/logger"
	"game-night-service/services"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	dashboard *services.DashboardService
	stats     *services.StatsAggregator
	log       *logger.Logger
}

func NewDashboardHandler(dashboard *services.DashboardService, stats *services.StatsAggregator, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, stats: stats, log: log}
}

func SetupDashboardRoutes(router fiber.Router, h *DashboardHandler) {
	router.Get("/dashboard", h.Overview)
	router.Get("/dashboard/active-session", h.ActiveSession)
	router.Get("/dashboard/recent", h.Recent)
	router.Get("/dashboard/quick-stats", h.QuickStats)

	router.Get("/players/available", h.AvailablePlayers)
	router.Get("/players/:id/stats", h.PlayerStats)
}

func (h *DashboardHandler) Overview(c *fiber.Ctx) error {
	overview, err := h.dashboard.Overview(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(overview)
}

// ActiveSession answers 204 when nothing is in progress.
func (h *DashboardHandler) ActiveSession(c *fiber.Ctx) error {
	active, err := h.dashboard.ActiveSession(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	if active == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.JSON(active)
}

func (h *DashboardHandler) Recent(c *fiber.Ctx) error {
	recent, err := h.dashboard.Recent(c.UserContext(), c.QueryInt("count", services.DefaultRecentSessions))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(recent)
}

func (h *DashboardHandler) QuickStats(c *fiber.Ctx) error {
	qs, err := h.dashboard.QuickStats(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(qs)
}

func (h *DashboardHandler) AvailablePlayers(c *fiber.Ctx) error {
	players, err := h.dashboard.AvailablePlayers(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(players)
}

func (h *DashboardHandler) PlayerStats(c *fiber.Ctx) error {
	stats, err := h.stats.PlayerStats(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(stats)
}
