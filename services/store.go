package services

import (
	"context"
	"time"

	"game-night-service/apperr"
	"game-night-service/models"
)

// TxRunner runs fn in one unit of work; store calls made with the ctx handed
// to fn join it.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type CatalogStore interface {
	GetPlayer(ctx context.Context, id string) (*models.Player, error)
	GetPlayers(ctx context.Context, ids []string) ([]models.Player, error)
	ListPlayers(ctx context.Context) ([]models.Player, error)
	CountPlayers(ctx context.Context) (int64, error)
	UpsertPlayers(ctx context.Context, players []models.Player) error
	GetBoardGame(ctx context.Context, id string) (*models.BoardGame, error)
	ListBoardGames(ctx context.Context) ([]models.BoardGame, error)
	CountBoardGames(ctx context.Context) (int64, error)
	UpsertBoardGames(ctx context.Context, games []models.BoardGame) error
}

type SessionStore interface {
	CreateSession(ctx context.Context, session *models.GameSession) error
	GetSession(ctx context.Context, id string) (*models.GameSession, error)
	ListSessions(ctx context.Context, filter models.SessionFilter) ([]models.GameSession, error)
	LatestSession(ctx context.Context, statuses ...models.SessionStatus) (*models.GameSession, error)
	CountSessions(ctx context.Context, statuses ...models.SessionStatus) (int64, error)
	CompareAndSetStatus(ctx context.Context, id string, from []models.SessionStatus, to models.SessionStatus) (bool, error)
	FinalizeSession(ctx context.Context, id, winnerID string, completedAt time.Time, from []models.SessionStatus) (bool, error)
	CloseSession(ctx context.Context, id string, completedAt time.Time, from []models.SessionStatus) (bool, error)
}

type PredictionStore interface {
	CreatePrediction(ctx context.Context, p *models.Prediction) error
	ListPredictions(ctx context.Context, sessionID string) ([]models.Prediction, error)
	HasPrediction(ctx context.Context, sessionID, bettorID string) (bool, error)
	SavePredictionResults(ctx context.Context, predictions []models.Prediction) error
	PredictionTotals(ctx context.Context) (placed, resolved, correct int64, err error)
}

type StatsStore interface {
	EnsurePlayerStats(ctx context.Context, key models.StatsKey) error
	IncrementPlayerStats(ctx context.Context, key models.StatsKey, delta models.StatsDelta, at time.Time) error
	GetPlayerStats(ctx context.Context, key models.StatsKey) (*models.PlayerStats, error)
	ListPlayerStats(ctx context.Context, boardGameID *string) ([]models.PlayerStats, error)
}

// Store is everything the services need from persistence.
type Store interface {
	TxRunner
	CatalogStore
	SessionStore
	PredictionStore
	StatsStore
	Ping(ctx context.Context) error
}

// playerIndex maps player id to player for name lookups.
func playerIndex(players []models.Player) map[string]models.Player {
	idx := make(map[string]models.Player, len(players))
	for _, p := range players {
		idx[p.ID] = p
	}
	return idx
}

func isNotFound(err error) bool {
	return apperr.KindOf(err) == apperr.KindNotFound
}
