package repository

import (
	"context"
	"time"

	"game-night-service/models"

	"gorm.io/gorm/clause"
)

func (s *Store) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	var rec PlayerRecord
	if err := s.conn(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		return nil, translate(err, "player", id)
	}
	p := toPlayer(rec)
	return &p, nil
}

// GetPlayers returns the players found among ids, in the order of ids.
// Unknown ids are skipped; callers compare lengths to detect them.
func (s *Store) GetPlayers(ctx context.Context, ids []string) ([]models.Player, error) {
	if len(ids) == 0 {
		return []models.Player{}, nil
	}
	var recs []PlayerRecord
	if err := s.conn(ctx).Where("id IN ?", ids).Find(&recs).Error; err != nil {
		return nil, translate(err, "players", "")
	}
	byID := make(map[string]PlayerRecord, len(recs))
	for _, r := range recs {
		byID[r.ID] = r
	}
	out := make([]models.Player, 0, len(recs))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		r, ok := byID[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, toPlayer(r))
	}
	return out, nil
}

// ListPlayers returns every player ordered by name.
func (s *Store) ListPlayers(ctx context.Context) ([]models.Player, error) {
	var recs []PlayerRecord
	if err := s.conn(ctx).Order("name ASC").Order("id ASC").Find(&recs).Error; err != nil {
		return nil, translate(err, "players", "")
	}
	out := make([]models.Player, 0, len(recs))
	for _, r := range recs {
		out = append(out, toPlayer(r))
	}
	return out, nil
}

func (s *Store) CountPlayers(ctx context.Context) (int64, error) {
	var n int64
	if err := s.conn(ctx).Model(&PlayerRecord{}).Count(&n).Error; err != nil {
		return 0, translate(err, "players", "")
	}
	return n, nil
}

// UpsertPlayers inserts or refreshes players by id.
func (s *Store) UpsertPlayers(ctx context.Context, players []models.Player) error {
	if len(players) == 0 {
		return nil
	}
	now := time.Now().UTC()
	recs := make([]PlayerRecord, 0, len(players))
	for _, p := range players {
		rec := fromPlayer(p)
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = now
		}
		rec.UpdatedAt = now
		recs = append(recs, rec)
	}
	err := s.conn(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "photo_url", "aggressivity", "patience", "analysis", "bluff", "updated_at",
		}),
	}).Create(&recs).Error
	return translate(err, "players", "")
}

func (s *Store) GetBoardGame(ctx context.Context, id string) (*models.BoardGame, error) {
	var rec BoardGameRecord
	if err := s.conn(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		return nil, translate(err, "board game", id)
	}
	g := toBoardGame(rec)
	return &g, nil
}

// ListBoardGames returns every board game ordered by name.
func (s *Store) ListBoardGames(ctx context.Context) ([]models.BoardGame, error) {
	var recs []BoardGameRecord
	if err := s.conn(ctx).Order("name ASC").Order("id ASC").Find(&recs).Error; err != nil {
		return nil, translate(err, "board games", "")
	}
	out := make([]models.BoardGame, 0, len(recs))
	for _, r := range recs {
		out = append(out, toBoardGame(r))
	}
	return out, nil
}

func (s *Store) CountBoardGames(ctx context.Context) (int64, error) {
	var n int64
	if err := s.conn(ctx).Model(&BoardGameRecord{}).Count(&n).Error; err != nil {
		return 0, translate(err, "board games", "")
	}
	return n, nil
}

// UpsertBoardGames inserts or refreshes board games by id.
func (s *Store) UpsertBoardGames(ctx context.Context, games []models.BoardGame) error {
	if len(games) == 0 {
		return nil
	}
	now := time.Now().UTC()
	recs := make([]BoardGameRecord, 0, len(games))
	for _, g := range games {
		rec := fromBoardGame(g)
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = now
		}
		rec.UpdatedAt = now
		recs = append(recs, rec)
	}
	err := s.conn(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "description", "photo_url", "average_duration",
			"aggressivity", "patience", "analysis", "bluff",
			"min_players", "max_players", "updated_at",
		}),
	}).Create(&recs).Error
	return translate(err, "board games", "")
}
