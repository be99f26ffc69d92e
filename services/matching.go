package services

import (
	"context"
	"strings"

	"game-night-service/apperr"
	"game-night-service/logger"
	"game-night-service/models"
)

// MatchService loads players and games from the store and feeds them to the
// compatibility scorer.
type MatchService struct {
	store  Store
	scorer *CompatibilityScorer
	log    *logger.Logger
}

func NewMatchService(store Store, scorer *CompatibilityScorer, baseLog *logger.Logger) *MatchService {
	return &MatchService{store: store, scorer: scorer, log: baseLog.With("service", "MatchService")}
}

// MatchScore scores one game when gameID is set, and picks the best game
// otherwise.
func (m *MatchService) MatchScore(ctx context.Context, playerIDs []string, gameID string) (*models.MatchScore, error) {
	players, err := m.loadPlayers(ctx, playerIDs)
	if err != nil {
		return nil, err
	}

	if gameID = strings.TrimSpace(gameID); gameID != "" {
		game, err := m.store.GetBoardGame(ctx, gameID)
		if err != nil {
			return nil, err
		}
		score, err := m.scorer.CalculateScore(players, *game)
		if err != nil {
			return nil, err
		}
		return &score, nil
	}

	games, err := m.store.ListBoardGames(ctx)
	if err != nil {
		return nil, err
	}
	best, err := m.scorer.FindBestMatch(players, games)
	if err != nil {
		return nil, err
	}
	if best == nil {
		return nil, apperr.NotFound("no board games available")
	}
	m.log.Debug("best match computed", "players", len(players), "game_id", best.BoardGame.ID, "score", best.Score)
	return best, nil
}

// Rank scores every known game for the group, best first.
func (m *MatchService) Rank(ctx context.Context, playerIDs []string) ([]models.MatchScore, error) {
	players, err := m.loadPlayers(ctx, playerIDs)
	if err != nil {
		return nil, err
	}
	games, err := m.store.ListBoardGames(ctx)
	if err != nil {
		return nil, err
	}
	if len(games) == 0 {
		return nil, apperr.NotFound("no board games available")
	}
	return m.scorer.RankAllGames(players, games)
}

// loadPlayers resolves ids; an empty, duplicated or unknown id is a
// validation error.
func (m *MatchService) loadPlayers(ctx context.Context, playerIDs []string) ([]models.Player, error) {
	if len(playerIDs) == 0 {
		return nil, apperr.Validation("at least one player is required")
	}
	seen := make(map[string]bool, len(playerIDs))
	for _, id := range playerIDs {
		if seen[id] {
			return nil, apperr.Validation("player %s is listed more than once", id)
		}
		seen[id] = true
	}
	players, err := m.store.GetPlayers(ctx, playerIDs)
	if err != nil {
		return nil, err
	}
	if len(players) != len(playerIDs) {
		found := playerIndex(players)
		var missing []string
		for _, id := range playerIDs {
			if _, ok := found[id]; !ok {
				missing = append(missing, id)
			}
		}
		return nil, apperr.Validation("some players do not exist: %s", strings.Join(missing, ", "))
	}
	return players, nil
}
