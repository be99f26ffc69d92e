package workers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"game-night-service/logger"
	"game-night-service/repository/repotest"
)

type rosterServer struct {
	mu     sync.Mutex
	since  map[string]string
	tokens []string
}

func (s *rosterServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(playersPath, func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"players": [
			{"id": "p1", "name": "Alice", "profile": {"aggressivity": 4, "patience": 2, "analysis": 3, "bluff": 5}, "updated_at": "2026-01-02T10:00:00Z"},
			{"id": "p2", "name": "Bob", "profile": {"aggressivity": 3, "patience": 3, "analysis": 3, "bluff": 3}, "updated_at": "2026-01-03T10:00:00Z"},
			{"id": "p3", "name": "Broken", "profile": {"aggressivity": 9, "patience": 3, "analysis": 3, "bluff": 3}, "updated_at": "2026-02-01T10:00:00Z"}
		]}`)
	})
	mux.HandleFunc(boardGamesPath, func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"board_games": [
			{"id": "g1", "name": "Catan", "average_duration": 90, "profile": {"aggressivity": 3, "patience": 3, "analysis": 4, "bluff": 2}, "min_players": 3, "max_players": 4, "updated_at": "2026-01-05T10:00:00Z"},
			{"id": "g2", "name": "Upside Down", "profile": {"aggressivity": 3, "patience": 3, "analysis": 3, "bluff": 3}, "min_players": 5, "max_players": 2, "updated_at": "2026-01-06T10:00:00Z"}
		]}`)
	})
	return mux
}

func (s *rosterServer) record(r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.since == nil {
		s.since = map[string]string{}
	}
	s.since[r.URL.Path] = r.URL.Query().Get("since")
	s.tokens = append(s.tokens, r.Header.Get("X-Service-Token"))
}

func (s *rosterServer) sinceFor(path string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.since[path]
}

func (s *rosterServer) seenTokens() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.tokens...)
}

func TestSyncOnceUpsertsValidEntries(t *testing.T) {
	store := repotest.Open(t)
	remote := &rosterServer{}
	srv := httptest.NewServer(remote.handler())
	defer srv.Close()

	w := NewRosterSyncWorker(store, srv.URL, "svc-token", time.Minute, srv.Client(), logger.Nop())
	ctx := context.Background()

	result, err := w.SyncOnce(ctx)
	if err != nil {
		t.Fatalf("SyncOnce: %v", err)
	}
	want := SyncResult{Players: 2, BoardGames: 1, Skipped: 2}
	if result != want {
		t.Fatalf("result: want %+v got %+v", want, result)
	}

	alice, err := store.GetPlayer(ctx, "p1")
	if err != nil {
		t.Fatalf("GetPlayer: %v", err)
	}
	if alice.Name != "Alice" || alice.Profile.Bluff != 5 {
		t.Fatalf("alice: %+v", alice)
	}
	catan, err := store.GetBoardGame(ctx, "g1")
	if err != nil {
		t.Fatalf("GetBoardGame: %v", err)
	}
	if catan.Profile.MinPlayers != 3 || catan.Profile.Analysis != 4 || catan.AverageDuration != 90 {
		t.Fatalf("catan: %+v", catan)
	}
	if _, err := store.GetPlayer(ctx, "p3"); err == nil {
		t.Fatalf("invalid player should not be stored")
	}

	for _, tok := range remote.seenTokens() {
		if tok != "svc-token" {
			t.Fatalf("service token: got %q", tok)
		}
	}
	if remote.sinceFor(playersPath) != "" {
		t.Fatalf("first pass should not send since, got %q", remote.sinceFor(playersPath))
	}

	// The second pass asks for changes after the newest valid entry.
	if _, err := w.SyncOnce(ctx); err != nil {
		t.Fatalf("SyncOnce (second): %v", err)
	}
	if got := remote.sinceFor(playersPath); got != "2026-01-03T10:00:00Z" {
		t.Fatalf("players since: got %q", got)
	}
	if got := remote.sinceFor(boardGamesPath); got != "2026-01-05T10:00:00Z" {
		t.Fatalf("board games since: got %q", got)
	}
}

func TestSyncOnceFailsOnBadStatus(t *testing.T) {
	store := repotest.Open(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	w := NewRosterSyncWorker(store, srv.URL, "bad", time.Minute, srv.Client(), logger.Nop())
	if _, err := w.SyncOnce(context.Background()); err == nil {
		t.Fatalf("SyncOnce: want error on 401")
	}
}

func TestRunWithoutIntervalSyncsOnceAndReturns(t *testing.T) {
	store := repotest.Open(t)
	remote := &rosterServer{}
	srv := httptest.NewServer(remote.handler())
	defer srv.Close()

	w := NewRosterSyncWorker(store, srv.URL, "svc-token", 0, srv.Client(), logger.Nop())

	done := make(chan struct{})
	go func() {
		defer close(done)
		w.run(context.Background())
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("run did not return with a zero interval")
	}

	if n := len(remote.seenTokens()); n != 2 {
		t.Fatalf("requests: want one players and one board games fetch, got %d", n)
	}
	if _, err := store.GetPlayer(context.Background(), "p1"); err != nil {
		t.Fatalf("initial sync should have stored p1: %v", err)
	}
}
