package services

import (
	"context"
	"errors"
	"testing"

	"game-night-service/apperr"
	"game-night-service/logger"
	"game-night-service/models"
	"game-night-service/repository/repotest"
)

func newMatchService(f *fixture) *MatchService {
	return NewMatchService(f.store, NewCompatibilityScorer(), logger.Nop())
}

func TestMatchScoreBestGame(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	aggressive := models.AxisProfile{Aggressivity: 5, Patience: 1, Analysis: 2, Bluff: 5}
	a := repotest.SeedPlayer(t, f.repo, "Alice", aggressive)
	b := repotest.SeedPlayer(t, f.repo, "Bob", aggressive)
	repotest.SeedGame(t, f.repo, "Chess", models.GameProfile{
		AxisProfile: models.AxisProfile{Aggressivity: 2, Patience: 5, Analysis: 5, Bluff: 1},
		MinPlayers:  2,
		MaxPlayers:  2,
	})
	poker := repotest.SeedGame(t, f.repo, "Poker", models.GameProfile{
		AxisProfile: aggressive,
		MinPlayers:  2,
		MaxPlayers:  8,
	})
	m := newMatchService(f)

	best, err := m.MatchScore(ctx, []string{a.ID, b.ID}, "")
	if err != nil {
		t.Fatalf("MatchScore: %v", err)
	}
	if best.BoardGame.ID != poker.ID || best.Score != 100 {
		t.Fatalf("best match: %+v", best)
	}

	ranked, err := m.Rank(ctx, []string{b.ID, a.ID})
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if len(ranked) != 2 || ranked[0].BoardGame.ID != poker.ID {
		t.Fatalf("rank: %+v", ranked)
	}
}

func TestMatchScoreErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	players := repotest.SeedPlayers(t, f.repo, "Alice")
	m := newMatchService(f)

	if _, err := m.MatchScore(ctx, ids(players), ""); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("no games: want NotFound, got %v", err)
	}
	if ranked, err := m.Rank(ctx, ids(players)); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("rank with no games: want NotFound, got ranked=%v err=%v", ranked, err)
	}
	if _, err := m.MatchScore(ctx, ids(players), "missing"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("unknown game: want NotFound, got %v", err)
	}
	if _, err := m.MatchScore(ctx, nil, ""); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("no players: want Validation, got %v", err)
	}
	if _, err := m.MatchScore(ctx, []string{players[0].ID, players[0].ID}, ""); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("duplicate player: want Validation, got %v", err)
	}
	if _, err := m.Rank(ctx, []string{players[0].ID, "ghost"}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("unknown player: want Validation, got %v", err)
	}
}
