package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"game-night-service/logger"
	"game-night-service/models"
	"game-night-service/repository/repotest"
	"game-night-service/utils"
)

var _ ObjectUploader = (*utils.R2Client)(nil)

type memoryUploader struct {
	objects map[string][]byte
	fail    error
}

func (u *memoryUploader) Upload(_ context.Context, key string, body []byte, contentType string) (string, error) {
	if u.fail != nil {
		return "", u.fail
	}
	if contentType != "application/json" {
		return "", errors.New("unexpected content type " + contentType)
	}
	if u.objects == nil {
		u.objects = map[string][]byte{}
	}
	u.objects[key] = body
	return "https://cdn.example.com/" + key, nil
}

func TestSnapshotKey(t *testing.T) {
	at := time.Date(2026, 3, 9, 23, 30, 0, 0, time.UTC)
	if got := SnapshotKey(at, nil); got != "leaderboards/2026-03-09/global.json" {
		t.Fatalf("global key: %s", got)
	}
	g := &models.BoardGame{ID: "g1", Name: "Les Aventuriers du Rail"}
	if got := SnapshotKey(at, g); got != "leaderboards/2026-03-09/les-aventuriers-du-rail-g1.json" {
		t.Fatalf("game key: %s", got)
	}
}

func TestExportUploadsOneSnapshotPerScope(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s, players, game := f.bettingSession(t, "Alice", "Bob")
	repotest.SeedGame(t, f.repo, "Azul", models.DefaultGameProfile())
	if _, err := f.sessions.Complete(ctx, s.ID, players[0].ID); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	rankings := NewRankingService(f.store, RankingConfig{ChampionMinGames: 1, OracleMinBets: 1}, logger.Nop())
	uploader := &memoryUploader{}
	exporter := NewSnapshotExporter(f.store, rankings, uploader, logger.Nop())
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	exporter.now = func() time.Time { return at }

	urls, err := exporter.Export(ctx)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(urls) != 3 || len(uploader.objects) != 3 {
		t.Fatalf("want 3 snapshots, got urls=%d objects=%d", len(urls), len(uploader.objects))
	}
	for _, u := range urls {
		if !strings.HasPrefix(u, "https://cdn.example.com/leaderboards/2026-01-02/") {
			t.Fatalf("unexpected url %s", u)
		}
	}

	var snap LeaderboardSnapshot
	if err := json.Unmarshal(uploader.objects[SnapshotKey(at, &game)], &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.BoardGame == nil || snap.BoardGame.ID != game.ID {
		t.Fatalf("snapshot scope: %+v", snap.BoardGame)
	}
	if len(snap.Champions) != 2 || snap.Champions[0].Player.ID != players[0].ID {
		t.Fatalf("snapshot champions: %+v", snap.Champions)
	}
	if !snap.GeneratedAt.Equal(at) {
		t.Fatalf("generated at: %v", snap.GeneratedAt)
	}
}

func TestExportStopsOnUploadFailure(t *testing.T) {
	f := newFixture(t)
	rankings := NewRankingService(f.store, DefaultRankingConfig, logger.Nop())
	boom := errors.New("bucket unavailable")
	exporter := NewSnapshotExporter(f.store, rankings, &memoryUploader{fail: boom}, logger.Nop())

	urls, err := exporter.Export(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("Export: want upload error, got %v", err)
	}
	if len(urls) != 0 {
		t.Fatalf("urls after failure: %v", urls)
	}
}
