package repository

import (
	"context"
	"time"

	"game-night-service/apperr"
	"game-night-service/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EnsurePlayerStats creates the stats row for key if it does not exist yet.
// ON CONFLICT DO NOTHING makes concurrent calls for the same key safe.
func (s *Store) EnsurePlayerStats(ctx context.Context, key models.StatsKey) error {
	rec := PlayerStatsRecord{
		PlayerID:    key.PlayerID,
		BoardGameID: scopeOf(key),
		LastUpdated: time.Now().UTC(),
	}
	err := s.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "player_id"}, {Name: "board_game_id"}},
		DoNothing: true,
	}).Create(&rec).Error
	return translate(err, "player stats", key.PlayerID)
}

// IncrementPlayerStats adds delta onto an existing row using column
// arithmetic, so concurrent increments never lose updates.
func (s *Store) IncrementPlayerStats(ctx context.Context, key models.StatsKey, delta models.StatsDelta, at time.Time) error {
	res := s.conn(ctx).Model(&PlayerStatsRecord{}).
		Where("player_id = ? AND board_game_id = ?", key.PlayerID, scopeOf(key)).
		Updates(map[string]any{
			"games_played":      gorm.Expr("games_played + ?", delta.GamesPlayed),
			"games_won":         gorm.Expr("games_won + ?", delta.GamesWon),
			"bets_placed":       gorm.Expr("bets_placed + ?", delta.BetsPlaced),
			"bets_correct":      gorm.Expr("bets_correct + ?", delta.BetsCorrect),
			"prediction_points": gorm.Expr("prediction_points + ?", delta.PredictionPoints),
			"last_updated":      at,
		})
	if res.Error != nil {
		return translate(res.Error, "player stats", key.PlayerID)
	}
	if res.RowsAffected == 0 {
		return apperr.Internal(nil, "player stats row for %s missing", key.PlayerID)
	}
	return nil
}

func (s *Store) GetPlayerStats(ctx context.Context, key models.StatsKey) (*models.PlayerStats, error) {
	var rec PlayerStatsRecord
	err := s.conn(ctx).
		Where("player_id = ? AND board_game_id = ?", key.PlayerID, scopeOf(key)).
		First(&rec).Error
	if err != nil {
		return nil, translate(err, "player stats", key.PlayerID)
	}
	stats := toPlayerStats(rec)
	return &stats, nil
}

// ListPlayerStats returns every row of one scope: the global rows when
// boardGameID is nil, the rows of that game otherwise.
func (s *Store) ListPlayerStats(ctx context.Context, boardGameID *string) ([]models.PlayerStats, error) {
	scope := globalScope
	if boardGameID != nil {
		scope = *boardGameID
	}
	var recs []PlayerStatsRecord
	err := s.conn(ctx).
		Where("board_game_id = ?", scope).
		Order("player_id ASC").
		Find(&recs).Error
	if err != nil {
		return nil, translate(err, "player stats", scope)
	}
	out := make([]models.PlayerStats, 0, len(recs))
	for _, r := range recs {
		out = append(out, toPlayerStats(r))
	}
	return out, nil
}
