package services

import (
	"context"
	"testing"

	"game-night-service/logger"
	"game-night-service/models"
	"game-night-service/repository"
	"game-night-service/repository/repotest"
)

var _ Store = (*repository.Store)(nil)

type fixture struct {
	store    Store
	repo     *repository.Store
	ledger   *PredictionLedger
	stats    *StatsAggregator
	sessions *SessionService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := repotest.Open(t)
	return newFixtureWithStore(repo, repo)
}

func newFixtureWithStore(repo *repository.Store, store Store) *fixture {
	log := logger.Nop()
	ledger := NewPredictionLedger(store, DefaultScoringPolicy, log)
	stats := NewStatsAggregator(store, log)
	return &fixture{
		store:    store,
		repo:     repo,
		ledger:   ledger,
		stats:    stats,
		sessions: NewSessionService(store, ledger, stats, log),
	}
}

func ids(players []models.Player) []string {
	out := make([]string, len(players))
	for i, p := range players {
		out[i] = p.ID
	}
	return out
}

// bettingSession seeds players and a game and opens a session straight into Betting.
func (f *fixture) bettingSession(t *testing.T, names ...string) (*models.GameSession, []models.Player, models.BoardGame) {
	t.Helper()
	players := repotest.SeedPlayers(t, f.repo, names...)
	game := repotest.SeedGame(t, f.repo, "Catan", models.DefaultGameProfile())
	s, err := f.sessions.CreateForBetting(context.Background(), CreateSessionInput{
		BoardGameID:    game.ID,
		ParticipantIDs: ids(players),
	})
	if err != nil {
		t.Fatalf("CreateForBetting: %v", err)
	}
	return s, players, game
}

func mustPlace(t *testing.T, l *PredictionLedger, sessionID, bettorID, predictedID string) *models.Prediction {
	t.Helper()
	p, err := l.Place(context.Background(), sessionID, bettorID, predictedID)
	if err != nil {
		t.Fatalf("Place(%s -> %s): %v", bettorID, predictedID, err)
	}
	return p
}
