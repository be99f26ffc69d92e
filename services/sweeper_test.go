package services

import (
	"context"
	"testing"
	"time"

	"game-night-service/logger"
	"game-night-service/models"
)

func TestSweepCancelsOnlyStaleOpenSessions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	betting, players, game := f.bettingSession(t, "Alice", "Bob")
	staged, err := f.sessions.CreateStaged(ctx, CreateSessionInput{BoardGameID: game.ID})
	if err != nil {
		t.Fatalf("CreateStaged: %v", err)
	}
	playing, err := f.sessions.CreateForBetting(ctx, CreateSessionInput{BoardGameID: game.ID, ParticipantIDs: ids(players)})
	if err != nil {
		t.Fatalf("CreateForBetting: %v", err)
	}
	if _, err := f.sessions.StartPlaying(ctx, playing.ID); err != nil {
		t.Fatalf("StartPlaying: %v", err)
	}

	sweeper := NewSessionSweeper(f.store, f.sessions, 72*time.Hour, logger.Nop())

	n, err := sweeper.Sweep(ctx)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if n != 0 {
		t.Fatalf("fresh sessions swept: %d", n)
	}

	sweeper.now = func() time.Time { return time.Now().UTC().Add(100 * time.Hour) }
	n, err = sweeper.Sweep(ctx)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if n != 2 {
		t.Fatalf("swept: want=2 got=%d", n)
	}

	for id, want := range map[string]models.SessionStatus{
		betting.ID: models.SessionCancelled,
		staged.ID:  models.SessionCancelled,
		playing.ID: models.SessionPlaying,
	} {
		s, err := f.repo.GetSession(ctx, id)
		if err != nil {
			t.Fatalf("GetSession: %v", err)
		}
		if s.Status != want {
			t.Fatalf("session %s: want=%s got=%s", id, want, s.Status)
		}
	}

	// nothing left to sweep
	if n, err := sweeper.Sweep(ctx); err != nil || n != 0 {
		t.Fatalf("second sweep: n=%d err=%v", n, err)
	}
}

func TestSweepDisabled(t *testing.T) {
	f := newFixture(t)
	sweeper := NewSessionSweeper(f.store, f.sessions, 0, logger.Nop())
	if n, err := sweeper.Sweep(context.Background()); err != nil || n != 0 {
		t.Fatalf("disabled sweep: n=%d err=%v", n, err)
	}
}
