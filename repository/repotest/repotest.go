// Package repotest opens throwaway sqlite-backed stores for tests.
package repotest

import (
	"context"
	"fmt"
	"testing"

	"game-night-service/logger"
	"game-night-service/models"
	"game-night-service/repository"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// Open returns a migrated store on a private in-memory database that is closed
// when the test ends.
func Open(tb testing.TB) *repository.Store {
	tb.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         repository.NewGormLogger(logger.Nop(), gormLogger.Silent, repository.DefaultSlowQuery),
	})
	if err != nil {
		tb.Fatalf("failed to open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("failed to get sql.DB: %v", err)
	}
	// The in-memory database lives as long as its single connection does.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := repository.Migrate(db); err != nil {
		tb.Fatalf("failed to migrate test db: %v", err)
	}
	return repository.NewStore(db, logger.Nop())
}

// SeedPlayer stores a player with the given axis profile.
func SeedPlayer(tb testing.TB, store *repository.Store, name string, profile models.AxisProfile) models.Player {
	tb.Helper()
	p := models.Player{ID: uuid.NewString(), Name: name, Profile: profile}
	if err := store.UpsertPlayers(context.Background(), []models.Player{p}); err != nil {
		tb.Fatalf("seed player %s: %v", name, err)
	}
	return p
}

// SeedPlayers stores one default-profile player per name.
func SeedPlayers(tb testing.TB, store *repository.Store, names ...string) []models.Player {
	tb.Helper()
	out := make([]models.Player, 0, len(names))
	for _, n := range names {
		out = append(out, SeedPlayer(tb, store, n, models.DefaultAxisProfile()))
	}
	return out
}

// SeedGame stores a board game with the given profile.
func SeedGame(tb testing.TB, store *repository.Store, name string, profile models.GameProfile) models.BoardGame {
	tb.Helper()
	g := models.BoardGame{ID: uuid.NewString(), Name: name, AverageDuration: 45, Profile: profile}
	if err := store.UpsertBoardGames(context.Background(), []models.BoardGame{g}); err != nil {
		tb.Fatalf("seed board game %s: %v", name, err)
	}
	return g
}
