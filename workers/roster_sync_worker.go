package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"game-night-service/logger"
	"game-night-service/models"
)

const (
	playersPath    = "/api/v1/public/players"
	boardGamesPath = "/api/v1/public/board-games"
)

// RosterStore is the part of the store the worker writes to.
type RosterStore interface {
	UpsertPlayers(ctx context.Context, players []models.Player) error
	UpsertBoardGames(ctx context.Context, games []models.BoardGame) error
}

type remoteProfile struct {
	Aggressivity int `json:"aggressivity"`
	Patience     int `json:"patience"`
	Analysis     int `json:"analysis"`
	Bluff        int `json:"bluff"`
}

func (p remoteProfile) axes() models.AxisProfile {
	return models.AxisProfile{Aggressivity: p.Aggressivity, Patience: p.Patience, Analysis: p.Analysis, Bluff: p.Bluff}
}

// RemotePlayer is a player as served by the roster service.
type RemotePlayer struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	PhotoURL  *string       `json:"photo_url,omitempty"`
	Profile   remoteProfile `json:"profile"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// RemoteBoardGame is a catalog entry as served by the roster service.
type RemoteBoardGame struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Description     *string       `json:"description,omitempty"`
	PhotoURL        *string       `json:"photo_url,omitempty"`
	AverageDuration int           `json:"average_duration"`
	Profile         remoteProfile `json:"profile"`
	MinPlayers      int           `json:"min_players"`
	MaxPlayers      int           `json:"max_players"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

type playersResponse struct {
	Players []RemotePlayer `json:"players"`
}

type boardGamesResponse struct {
	BoardGames []RemoteBoardGame `json:"board_games"`
}

// SyncResult counts what one sync pass did.
type SyncResult struct {
	Players    int
	BoardGames int
	Skipped    int
}

// RosterSyncWorker mirrors players and board games from the roster service.
// Each pass asks only for changes since the newest updated_at seen so far.
type RosterSyncWorker struct {
	store        RosterStore
	interval     time.Duration
	baseURL      string
	serviceToken string
	httpClient   *http.Client
	log          *logger.Logger

	playersSince time.Time
	gamesSince   time.Time
}

func NewRosterSyncWorker(store RosterStore, baseURL, serviceToken string, interval time.Duration, httpClient *http.Client, baseLog *logger.Logger) *RosterSyncWorker {
	return &RosterSyncWorker{
		store:        store,
		interval:     interval,
		baseURL:      baseURL,
		serviceToken: serviceToken,
		httpClient:   httpClient,
		log:          baseLog.With("worker", "RosterSyncWorker"),
	}
}

func (w *RosterSyncWorker) Start(ctx context.Context) {
	w.log.Info("🔁 starting roster sync worker", "base_url", w.baseURL, "interval", w.interval)
	go w.run(ctx)
}

func (w *RosterSyncWorker) run(ctx context.Context) {
	if _, err := w.SyncOnce(ctx); err != nil {
		w.log.Warn("⚠️ initial roster sync failed", "error", err)
	}
	if w.interval <= 0 {
		w.log.Warn("⚠️ roster sync interval not positive, periodic sync disabled", "interval", w.interval)
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := w.SyncOnce(ctx); err != nil {
				w.log.Error("❌ roster sync failed", "error", err)
			}
		case <-ctx.Done():
			w.log.Info("⏹️ roster sync worker stopped")
			return
		}
	}
}

// SyncOnce runs one pass. Entries with an invalid profile are skipped and
// counted; a transport or storage failure aborts the pass. Sync marks only
// move forward after a successful upsert.
func (w *RosterSyncWorker) SyncOnce(ctx context.Context) (SyncResult, error) {
	var result SyncResult

	var pr playersResponse
	if err := w.fetch(ctx, playersPath, w.playersSince, &pr); err != nil {
		return result, err
	}
	players := make([]models.Player, 0, len(pr.Players))
	latestPlayer := w.playersSince
	for _, rp := range pr.Players {
		p, err := rp.toPlayer()
		if err != nil {
			result.Skipped++
			w.log.Warn("⚠️ skipping roster player", "id", rp.ID, "name", rp.Name, "error", err)
			continue
		}
		players = append(players, p)
		if rp.UpdatedAt.After(latestPlayer) {
			latestPlayer = rp.UpdatedAt
		}
	}
	if err := w.store.UpsertPlayers(ctx, players); err != nil {
		return result, fmt.Errorf("upsert players: %w", err)
	}
	w.playersSince = latestPlayer
	result.Players = len(players)

	var gr boardGamesResponse
	if err := w.fetch(ctx, boardGamesPath, w.gamesSince, &gr); err != nil {
		return result, err
	}
	games := make([]models.BoardGame, 0, len(gr.BoardGames))
	latestGame := w.gamesSince
	for _, rg := range gr.BoardGames {
		g, err := rg.toBoardGame()
		if err != nil {
			result.Skipped++
			w.log.Warn("⚠️ skipping roster board game", "id", rg.ID, "name", rg.Name, "error", err)
			continue
		}
		games = append(games, g)
		if rg.UpdatedAt.After(latestGame) {
			latestGame = rg.UpdatedAt
		}
	}
	if err := w.store.UpsertBoardGames(ctx, games); err != nil {
		return result, fmt.Errorf("upsert board games: %w", err)
	}
	w.gamesSince = latestGame
	result.BoardGames = len(games)

	w.log.Info("✅ roster synced", "players", result.Players, "board_games", result.BoardGames, "skipped", result.Skipped)
	return result, nil
}

func (w *RosterSyncWorker) fetch(ctx context.Context, path string, since time.Time, out any) error {
	base, err := url.Parse(w.baseURL)
	if err != nil {
		return fmt.Errorf("invalid roster service URL %q: %w", w.baseURL, err)
	}
	endpoint := base.JoinPath(path)
	if !since.IsZero() {
		q := endpoint.Query()
		q.Set("since", since.UTC().Format(time.RFC3339))
		endpoint.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-Service-Token", w.serviceToken)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", endpoint, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("GET %s: status %d: %s", endpoint, resp.StatusCode, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return nil
}

func (rp RemotePlayer) toPlayer() (models.Player, error) {
	if rp.ID == "" || rp.Name == "" {
		return models.Player{}, fmt.Errorf("id and name are required")
	}
	profile := rp.Profile.axes()
	if err := profile.Validate(); err != nil {
		return models.Player{}, err
	}
	p := models.Player{ID: rp.ID, Name: rp.Name, Profile: profile}
	if rp.PhotoURL != nil {
		p.PhotoURL = *rp.PhotoURL
	}
	return p, nil
}

func (rg RemoteBoardGame) toBoardGame() (models.BoardGame, error) {
	if rg.ID == "" || rg.Name == "" {
		return models.BoardGame{}, fmt.Errorf("id and name are required")
	}
	profile := models.GameProfile{
		AxisProfile: rg.Profile.axes(),
		MinPlayers:  rg.MinPlayers,
		MaxPlayers:  rg.MaxPlayers,
	}
	if err := profile.Validate(); err != nil {
		return models.BoardGame{}, err
	}
	g := models.BoardGame{ID: rg.ID, Name: rg.Name, AverageDuration: rg.AverageDuration, Profile: profile}
	if rg.Description != nil {
		g.Description = *rg.Description
	}
	if rg.PhotoURL != nil {
		g.PhotoURL = *rg.PhotoURL
	}
	return g, nil
}
