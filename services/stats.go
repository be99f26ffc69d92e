package services

import (
	"context"
	"sort"
	"time"

	"game-night-service/logger"
	"game-night-service/models"
)

// StatsAggregator folds completed sessions into per-player running statistics.
type StatsAggregator struct {
	store Store
	log   *logger.Logger
	now   func() time.Time
}

func NewStatsAggregator(store Store, baseLog *logger.Logger) *StatsAggregator {
	return &StatsAggregator{
		store: store,
		log:   baseLog.With("service", "StatsAggregator"),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Update applies one completed session to the global and per-game stats of
// every participant and bettor. Sessions without a winner are ignored.
func (a *StatsAggregator) Update(ctx context.Context, sessionID string) error {
	return a.store.RunInTx(ctx, func(ctx context.Context) error {
		session, err := a.store.GetSession(ctx, sessionID)
		if err != nil {
			return err
		}
		if session.WinnerID == nil {
			return nil
		}
		predictions, err := a.store.ListPredictions(ctx, sessionID)
		if err != nil {
			return err
		}

		deltas := sessionDeltas(session, predictions)

		// Rows are touched in player id order so concurrent completions lock
		// them in the same sequence.
		playerIDs := make([]string, 0, len(deltas))
		for id := range deltas {
			playerIDs = append(playerIDs, id)
		}
		sort.Strings(playerIDs)

		at := a.now()
		for _, id := range playerIDs {
			keys := []models.StatsKey{
				models.GlobalStatsKey(id),
				models.GameStatsKey(id, session.BoardGameID),
			}
			for _, key := range keys {
				if err := a.store.EnsurePlayerStats(ctx, key); err != nil {
					return err
				}
				if err := a.store.IncrementPlayerStats(ctx, key, deltas[id], at); err != nil {
					return err
				}
			}
		}
		a.log.Info("📊 stats updated", "session_id", sessionID, "players", len(playerIDs))
		return nil
	})
}

// sessionDeltas computes what each player's rows gain from the session.
func sessionDeltas(session *models.GameSession, predictions []models.Prediction) map[string]models.StatsDelta {
	deltas := make(map[string]models.StatsDelta)
	for _, id := range session.ParticipantIDs {
		d := models.StatsDelta{GamesPlayed: 1}
		if session.WinnerID != nil && *session.WinnerID == id {
			d.GamesWon = 1
		}
		deltas[id] = deltas[id].Add(d)
	}
	for _, p := range predictions {
		if !p.IsResolved() {
			continue
		}
		d := models.StatsDelta{BetsPlaced: 1, PredictionPoints: p.PointsEarned}
		if *p.IsCorrect {
			d.BetsCorrect = 1
		}
		deltas[p.BettorID] = deltas[p.BettorID].Add(d)
	}
	return deltas
}

// PlayerStats returns a player's global row, all zeros for a player that never
// played.
func (a *StatsAggregator) PlayerStats(ctx context.Context, playerID string) (*models.PlayerStats, error) {
	if _, err := a.store.GetPlayer(ctx, playerID); err != nil {
		return nil, err
	}
	stats, err := a.store.GetPlayerStats(ctx, models.GlobalStatsKey(playerID))
	if err != nil {
		if isNotFound(err) {
			return &models.PlayerStats{PlayerID: playerID}, nil
		}
		return nil, err
	}
	return stats, nil
}
