package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"game-night-service/logger"
	"game-night-service/models"
	"game-night-service/utils"

	"github.com/google/uuid"
)

// ObjectUploader stores a blob under key and returns its public URL.
type ObjectUploader interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

// LeaderboardSnapshot is the exported form of the champion and oracle boards
// of one scope (global when BoardGame is nil).
type LeaderboardSnapshot struct {
	ID          string            `json:"id"`
	GeneratedAt time.Time         `json:"generated_at"`
	BoardGame   *models.BoardGame `json:"board_game,omitempty"`
	Champions   []RankingEntry    `json:"champions"`
	Oracles     []RankingEntry    `json:"oracles"`
}

// SnapshotExporter publishes leaderboards to object storage.
type SnapshotExporter struct {
	store    Store
	rankings *RankingService
	uploader ObjectUploader
	log      *logger.Logger
	now      func() time.Time
}

func NewSnapshotExporter(store Store, rankings *RankingService, uploader ObjectUploader, baseLog *logger.Logger) *SnapshotExporter {
	return &SnapshotExporter{
		store:    store,
		rankings: rankings,
		uploader: uploader,
		log:      baseLog.With("job", "SnapshotExporter"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SnapshotKey is the object key of a snapshot: leaderboards/<date>/<scope>.json.
func SnapshotKey(at time.Time, game *models.BoardGame) string {
	scope := "global"
	if game != nil {
		scope = utils.Slugify(game.Name) + "-" + game.ID
	}
	return fmt.Sprintf("leaderboards/%s/%s.json", at.UTC().Format("2006-01-02"), scope)
}

// Export uploads the global snapshot and one per board game, returning the
// URLs written.
func (e *SnapshotExporter) Export(ctx context.Context) ([]string, error) {
	games, err := e.store.ListBoardGames(ctx)
	if err != nil {
		return nil, err
	}
	at := e.now()

	scopes := make([]*models.BoardGame, 0, len(games)+1)
	scopes = append(scopes, nil)
	for i := range games {
		scopes = append(scopes, &games[i])
	}

	urls := make([]string, 0, len(scopes))
	for _, game := range scopes {
		snap, err := e.build(ctx, game, at)
		if err != nil {
			return urls, err
		}
		body, err := json.Marshal(snap)
		if err != nil {
			return urls, fmt.Errorf("encode snapshot: %w", err)
		}
		url, err := e.uploader.Upload(ctx, SnapshotKey(at, game), body, "application/json")
		if err != nil {
			return urls, fmt.Errorf("upload snapshot: %w", err)
		}
		urls = append(urls, url)
	}
	e.log.Info("📤 leaderboard snapshots exported", "count", len(urls))
	return urls, nil
}

func (e *SnapshotExporter) build(ctx context.Context, game *models.BoardGame, at time.Time) (*LeaderboardSnapshot, error) {
	var gameID *string
	if game != nil {
		gameID = &game.ID
	}
	champions, err := e.rankings.Champions(ctx, gameID, MaxRankingSize)
	if err != nil {
		return nil, err
	}
	oracles, err := e.rankings.Oracles(ctx, gameID, MaxRankingSize)
	if err != nil {
		return nil, err
	}
	return &LeaderboardSnapshot{
		ID:          uuid.NewString(),
		GeneratedAt: at,
		BoardGame:   game,
		Champions:   champions,
		Oracles:     oracles,
	}, nil
}
