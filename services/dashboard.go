package services

import (
	"context"

	"game-night-service/logger"
	"game-night-service/models"
)

const (
	DefaultRecentSessions = 5
	MaxRecentSessions     = 20
)

// activeStatuses are the statuses of a session in progress.
var activeStatuses = []models.SessionStatus{models.SessionBetting, models.SessionPlaying}

type Dashboard struct {
	ActiveSession  *SessionView  `json:"active_session"`
	TotalPlayers   int64         `json:"total_players"`
	TotalGames     int64         `json:"total_games"`
	RecentSessions []SessionView `json:"recent_sessions"`
}

type QuickStats struct {
	TotalPlayers      int64   `json:"total_players"`
	TotalGames        int64   `json:"total_games"`
	TotalSessions     int64   `json:"total_sessions"`
	CompletedSessions int64   `json:"completed_sessions"`
	TotalBets         int64   `json:"total_bets"`
	ResolvedBets      int64   `json:"resolved_bets"`
	CorrectBets       int64   `json:"correct_bets"`
	GlobalAccuracy    float64 `json:"global_accuracy"`
}

// DashboardService assembles the home screen.
type DashboardService struct {
	store    Store
	sessions *SessionService
	log      *logger.Logger
}

func NewDashboardService(store Store, sessions *SessionService, baseLog *logger.Logger) *DashboardService {
	return &DashboardService{store: store, sessions: sessions, log: baseLog.With("service", "DashboardService")}
}

// ClampRecentCount maps a requested count onto [1, MaxRecentSessions], using
// the default for anything below 1.
func ClampRecentCount(n int) int {
	switch {
	case n < 1:
		return DefaultRecentSessions
	case n > MaxRecentSessions:
		return MaxRecentSessions
	}
	return n
}

func (d *DashboardService) Overview(ctx context.Context) (*Dashboard, error) {
	active, err := d.ActiveSession(ctx)
	if err != nil {
		return nil, err
	}
	players, err := d.store.CountPlayers(ctx)
	if err != nil {
		return nil, err
	}
	games, err := d.store.CountBoardGames(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := d.Recent(ctx, DefaultRecentSessions)
	if err != nil {
		return nil, err
	}
	d.log.Debug("dashboard loaded", "has_active", active != nil, "players", players, "games", games)
	return &Dashboard{
		ActiveSession:  active,
		TotalPlayers:   players,
		TotalGames:     games,
		RecentSessions: recent,
	}, nil
}

// ActiveSession returns the newest session still in Betting or Playing, or
// nil when there is none.
func (d *DashboardService) ActiveSession(ctx context.Context) (*SessionView, error) {
	session, err := d.store.LatestSession(ctx, activeStatuses...)
	if err != nil || session == nil {
		return nil, err
	}
	views, err := d.sessions.views(ctx, []models.GameSession{*session})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Recent returns the latest sessions by date; count is clamped.
func (d *DashboardService) Recent(ctx context.Context, count int) ([]SessionView, error) {
	return d.sessions.List(ctx, models.SessionFilter{Limit: ClampRecentCount(count)})
}

func (d *DashboardService) QuickStats(ctx context.Context) (*QuickStats, error) {
	var qs QuickStats
	var err error
	if qs.TotalPlayers, err = d.store.CountPlayers(ctx); err != nil {
		return nil, err
	}
	if qs.TotalGames, err = d.store.CountBoardGames(ctx); err != nil {
		return nil, err
	}
	if qs.TotalSessions, err = d.store.CountSessions(ctx); err != nil {
		return nil, err
	}
	if qs.CompletedSessions, err = d.store.CountSessions(ctx, models.SessionCompleted); err != nil {
		return nil, err
	}
	if qs.TotalBets, qs.ResolvedBets, qs.CorrectBets, err = d.store.PredictionTotals(ctx); err != nil {
		return nil, err
	}
	if qs.ResolvedBets > 0 {
		qs.GlobalAccuracy = percent(float64(qs.CorrectBets) / float64(qs.ResolvedBets))
	}
	return &qs, nil
}

// AvailablePlayer is a roster entry with lifetime totals.
type AvailablePlayer struct {
	models.PlayerSummary
	TotalSessions int `json:"total_sessions"`
	TotalWins     int `json:"total_wins"`
}

// AvailablePlayers lists every player by name with their global totals.
func (d *DashboardService) AvailablePlayers(ctx context.Context) ([]AvailablePlayer, error) {
	players, err := d.store.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	stats, err := d.store.ListPlayerStats(ctx, nil)
	if err != nil {
		return nil, err
	}
	byPlayer := make(map[string]models.PlayerStats, len(stats))
	for _, s := range stats {
		byPlayer[s.PlayerID] = s
	}
	out := make([]AvailablePlayer, 0, len(players))
	for _, p := range players {
		s := byPlayer[p.ID]
		out = append(out, AvailablePlayer{
			PlayerSummary: p.Summary(),
			TotalSessions: s.GamesPlayed,
			TotalWins:     s.GamesWon,
		})
	}
	return out, nil
}
