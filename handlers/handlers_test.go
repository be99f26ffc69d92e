package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"game-night-service/logger"
	"game-night-service/models"
	"game-night-service/repository"
	"game-night-service/repository/repotest"
	"game-night-service/services"

	"github.com/gofiber/fiber/v2"
)

func newTestApp(t *testing.T) (*fiber.App, *repository.Store) {
	t.Helper()
	repo := repotest.Open(t)
	log := logger.Nop()

	ledger := services.NewPredictionLedger(repo, services.DefaultScoringPolicy, log)
	stats := services.NewStatsAggregator(repo, log)
	sessions := services.NewSessionService(repo, ledger, stats, log)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(log)})
	SetupHealthRoutes(app, repo, log)
	SetupRoutes(app, Services{
		Sessions:  sessions,
		Ledger:    ledger,
		Stats:     stats,
		Matches:   services.NewMatchService(repo, services.NewCompatibilityScorer(), log),
		Rankings:  services.NewRankingService(repo, services.DefaultRankingConfig, log),
		Dashboard: services.NewDashboardService(repo, sessions, log),
	}, log)
	return app, repo
}

// do sends a request and decodes a JSON response into out when out is non-nil.
func do(t *testing.T, app *fiber.App, method, path string, body any, out any) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decode response: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func expectError(t *testing.T, app *fiber.App, method, path string, body any, status int, code string) {
	t.Helper()
	var e errorBody
	if got := do(t, app, method, path, body, &e); got != status || e.Code != code {
		t.Fatalf("%s %s: want %d %s, got %d %s (%s)", method, path, status, code, got, e.Code, e.Error)
	}
}

func TestStagedSessionFlow(t *testing.T) {
	app, repo := newTestApp(t)
	players := repotest.SeedPlayers(t, repo, "Alice", "Bob", "Carol")
	alice, bob, carol := players[0], players[1], players[2]
	game := repotest.SeedGame(t, repo, "Catan", models.DefaultGameProfile())

	var session models.GameSession
	status := do(t, app, http.MethodPost, "/sessions", fiber.Map{
		"board_game_id":   game.ID,
		"participant_ids": []string{alice.ID, bob.ID, carol.ID},
		"location":        "Kitchen",
	}, &session)
	if status != fiber.StatusCreated || session.Status != models.SessionCreated {
		t.Fatalf("create: status=%d session=%+v", status, session)
	}
	base := "/sessions/" + session.ID

	expectError(t, app, http.MethodPost, base+"/predictions",
		fiber.Map{"bettor_id": alice.ID, "predicted_winner_id": bob.ID}, fiber.StatusBadRequest, "INVALID_OPERATION")

	if got := do(t, app, http.MethodPost, base+"/start-betting", nil, nil); got != fiber.StatusNoContent {
		t.Fatalf("start-betting: want=204 got=%d", got)
	}

	var p models.Prediction
	if got := do(t, app, http.MethodPost, base+"/predictions", fiber.Map{"bettor_id": alice.ID, "predicted_winner_id": bob.ID}, &p); got != fiber.StatusOK {
		t.Fatalf("place: want=200 got=%d", got)
	}
	if p.IsCorrect != nil || p.PointsEarned != 0 {
		t.Fatalf("new prediction should be unresolved: %+v", p)
	}
	do(t, app, http.MethodPost, base+"/predictions", fiber.Map{"bettor_id": bob.ID, "predicted_winner_id": alice.ID}, nil)
	expectError(t, app, http.MethodPost, base+"/predictions",
		fiber.Map{"bettor_id": alice.ID, "predicted_winner_id": carol.ID}, fiber.StatusBadRequest, "INVALID_OPERATION")

	var pending []models.PlayerSummary
	do(t, app, http.MethodGet, base+"/pending-bettors", nil, &pending)
	if len(pending) != 1 || pending[0].ID != carol.ID {
		t.Fatalf("pending: %+v", pending)
	}

	var summary models.BetsSummary
	if got := do(t, app, http.MethodGet, base+"/predictions/summary", nil, &summary); got != fiber.StatusOK {
		t.Fatalf("summary: want=200 got=%d", got)
	}
	if summary.TotalParticipants != 3 || summary.TotalBetsPlaced != 2 {
		t.Fatalf("summary: %+v", summary)
	}

	var details services.SessionDetails
	do(t, app, http.MethodGet, "/bet-sessions/"+session.ID, nil, &details)
	if details.AllPlayersHaveBet || details.CanStartPlaying || details.TotalPointsInPlay != 20 {
		t.Fatalf("details: %+v", details)
	}

	var result services.CompletionResult
	if got := do(t, app, http.MethodPost, base+"/complete", fiber.Map{"winner_id": bob.ID}, &result); got != fiber.StatusOK {
		t.Fatalf("complete: want=200 got=%d", got)
	}
	if result.Session.Status != models.SessionCompleted || result.Winner.Name != "Bob" {
		t.Fatalf("completion: %+v", result)
	}
	if result.TotalPointsAwarded != 10 || result.TotalPointsDeducted != 2 {
		t.Fatalf("points: awarded=%d deducted=%d", result.TotalPointsAwarded, result.TotalPointsDeducted)
	}

	expectError(t, app, http.MethodPost, base+"/complete", fiber.Map{"winner_id": bob.ID}, fiber.StatusBadRequest, "VALIDATION")

	var view services.SessionView
	do(t, app, http.MethodGet, base, nil, &view)
	if view.Winner == nil || view.Winner.ID != bob.ID || len(view.Predictions) != 2 {
		t.Fatalf("session view: %+v", view)
	}
}

func TestDirectSessionFlow(t *testing.T) {
	app, repo := newTestApp(t)
	players := repotest.SeedPlayers(t, repo, "Alice", "Bob")
	game := repotest.SeedGame(t, repo, "Azul", models.DefaultGameProfile())

	expectError(t, app, http.MethodPost, "/bet-sessions", fiber.Map{
		"board_game_id":   game.ID,
		"participant_ids": []string{players[0].ID},
	}, fiber.StatusBadRequest, "VALIDATION")

	var session models.GameSession
	if got := do(t, app, http.MethodPost, "/bet-sessions", fiber.Map{
		"board_game_id":   game.ID,
		"participant_ids": []string{players[0].ID, players[1].ID},
	}, &session); got != fiber.StatusCreated || session.Status != models.SessionBetting {
		t.Fatalf("create direct: status=%d session=%+v", got, session)
	}

	var playing struct {
		AllPlayersHaveBet bool `json:"all_players_have_bet"`
	}
	if got := do(t, app, http.MethodPost, "/bet-sessions/"+session.ID+"/start-playing", nil, &playing); got != fiber.StatusOK {
		t.Fatalf("start-playing: want=200 got=%d", got)
	}
	if playing.AllPlayersHaveBet {
		t.Fatalf("nobody bet yet")
	}

	var active services.SessionView
	if got := do(t, app, http.MethodGet, "/dashboard/active-session", nil, &active); got != fiber.StatusOK || active.ID != session.ID {
		t.Fatalf("active session: status=%d view=%+v", got, active)
	}
}

func TestSessionErrors(t *testing.T) {
	app, repo := newTestApp(t)
	players := repotest.SeedPlayers(t, repo, "Alice", "Bob")
	game := repotest.SeedGame(t, repo, "Azul", models.DefaultGameProfile())

	expectError(t, app, http.MethodGet, "/sessions/missing", nil, fiber.StatusNotFound, "NOT_FOUND")
	expectError(t, app, http.MethodPost, "/sessions", fiber.Map{"board_game_id": "missing"}, fiber.StatusNotFound, "NOT_FOUND")
	expectError(t, app, http.MethodPost, "/sessions", fiber.Map{
		"board_game_id":   game.ID,
		"participant_ids": []string{players[0].ID, players[0].ID},
	}, fiber.StatusBadRequest, "VALIDATION")

	var session models.GameSession
	do(t, app, http.MethodPost, "/sessions", fiber.Map{
		"board_game_id":   game.ID,
		"participant_ids": []string{players[0].ID, players[1].ID},
	}, &session)

	expectError(t, app, http.MethodPost, "/sessions/"+session.ID+"/transition", fiber.Map{"status": "Completed"}, fiber.StatusBadRequest, "INVALID_TRANSITION")
	expectError(t, app, http.MethodPost, "/sessions/"+session.ID+"/transition", fiber.Map{"status": "Paused"}, fiber.StatusBadRequest, "VALIDATION")
	if got := do(t, app, http.MethodPost, "/sessions/"+session.ID+"/transition", fiber.Map{"status": "Cancelled"}, nil); got != fiber.StatusNoContent {
		t.Fatalf("cancel: want=204 got=%d", got)
	}
	expectError(t, app, http.MethodPost, "/sessions/"+session.ID+"/start-betting", nil, fiber.StatusBadRequest, "INVALID_TRANSITION")

	var pending []models.PlayerSummary
	if got := do(t, app, http.MethodGet, "/sessions/missing/pending-bettors", nil, &pending); got != fiber.StatusOK || len(pending) != 0 {
		t.Fatalf("pending for unknown session: status=%d %v", got, pending)
	}
}

func TestMatchRoutes(t *testing.T) {
	app, repo := newTestApp(t)
	players := repotest.SeedPlayers(t, repo, "Alice", "Bob")
	body := fiber.Map{"player_ids": []string{players[0].ID, players[1].ID}}

	expectError(t, app, http.MethodPost, "/games/match-score", body, fiber.StatusNotFound, "NOT_FOUND")
	expectError(t, app, http.MethodPost, "/games/rank", body, fiber.StatusNotFound, "NOT_FOUND")
	expectError(t, app, http.MethodPost, "/games/match-score", fiber.Map{"player_ids": []string{"ghost"}}, fiber.StatusBadRequest, "VALIDATION")

	game := repotest.SeedGame(t, repo, "Azul", models.DefaultGameProfile())
	var score models.MatchScore
	if got := do(t, app, http.MethodPost, "/games/match-score", body, &score); got != fiber.StatusOK {
		t.Fatalf("match-score: want=200 got=%d", got)
	}
	if score.BoardGame.ID != game.ID || score.Quality != models.QualityPerfect {
		t.Fatalf("match-score: %+v", score)
	}

	var ranked []models.MatchScore
	if got := do(t, app, http.MethodPost, "/games/rank", body, &ranked); got != fiber.StatusOK || len(ranked) != 1 {
		t.Fatalf("rank: status=%d len=%d", got, len(ranked))
	}
}

func TestReadRoutes(t *testing.T) {
	app, _ := newTestApp(t)

	var health map[string]string
	if got := do(t, app, http.MethodGet, "/health/db", nil, &health); got != fiber.StatusOK || health["status"] != "ok" {
		t.Fatalf("health/db: status=%d body=%v", got, health)
	}
	if got := do(t, app, http.MethodGet, "/dashboard/active-session", nil, nil); got != fiber.StatusNoContent {
		t.Fatalf("active-session: want=204 got=%d", got)
	}

	var champions []services.RankingEntry
	if got := do(t, app, http.MethodGet, "/rankings/champions?top=500", nil, &champions); got != fiber.StatusOK || len(champions) != 0 {
		t.Fatalf("champions: status=%d len=%d", got, len(champions))
	}
	expectError(t, app, http.MethodGet, "/rankings/oracles/missing", nil, fiber.StatusNotFound, "NOT_FOUND")

	var qs services.QuickStats
	if got := do(t, app, http.MethodGet, "/dashboard/quick-stats", nil, &qs); got != fiber.StatusOK {
		t.Fatalf("quick-stats: want=200 got=%d", got)
	}

	expectError(t, app, http.MethodGet, "/players/missing/stats", nil, fiber.StatusNotFound, "NOT_FOUND")
	expectError(t, app, http.MethodGet, "/nowhere", nil, fiber.StatusNotFound, "NOT_FOUND")
}
