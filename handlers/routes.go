package handlers

import (
	"game-night-service/logger"
	"game-night-service/services"

	"github.com/gofiber/fiber/v2"
)

// Services is everything the HTTP layer calls into.
type Services struct {
	Sessions  *services.SessionService
	Ledger    *services.PredictionLedger
	Stats     *services.StatsAggregator
	Matches   *services.MatchService
	Rankings  *services.RankingService
	Dashboard *services.DashboardService
}

// SetupRoutes mounts every API route on router.
func SetupRoutes(router fiber.Router, svc Services, log *logger.Logger) {
	log = log.With("component", "http")
	SetupSessionRoutes(router, NewSessionHandler(svc.Sessions, svc.Ledger, log))
	SetupGameRoutes(router, NewGameHandler(svc.Matches, log))
	SetupRankingRoutes(router, NewRankingHandler(svc.Rankings, log))
	SetupDashboardRoutes(router, NewDashboardHandler(svc.Dashboard, svc.Stats, log))
}
