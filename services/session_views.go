package services

import (
	"context"
	"time"

	"game-night-service/models"
)

// SessionView is a session with its references resolved for display.
type SessionView struct {
	models.GameSession
	BoardGame    *models.BoardGame      `json:"board_game,omitempty"`
	Participants []models.PlayerSummary `json:"participants"`
	Winner       *models.PlayerSummary  `json:"winner,omitempty"`
	Predictions  []models.Prediction    `json:"predictions,omitempty"`
}

// Get returns one session with participants, winner and predictions.
func (s *SessionService) Get(ctx context.Context, sessionID string) (*SessionView, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	views, err := s.views(ctx, []models.GameSession{*session})
	if err != nil {
		return nil, err
	}
	view := views[0]
	predictions, err := s.store.ListPredictions(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	view.Predictions = predictions
	return &view, nil
}

// List returns sessions newest first.
func (s *SessionService) List(ctx context.Context, filter models.SessionFilter) ([]SessionView, error) {
	sessions, err := s.store.ListSessions(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, sessions)
}

// views resolves players and board games with one lookup per distinct id set.
func (s *SessionService) views(ctx context.Context, sessions []models.GameSession) ([]SessionView, error) {
	var playerIDs []string
	seen := map[string]bool{}
	for _, session := range sessions {
		for _, id := range session.ParticipantIDs {
			if !seen[id] {
				seen[id] = true
				playerIDs = append(playerIDs, id)
			}
		}
	}
	players, err := s.store.GetPlayers(ctx, playerIDs)
	if err != nil {
		return nil, err
	}
	byID := playerIndex(players)

	games := map[string]*models.BoardGame{}
	out := make([]SessionView, 0, len(sessions))
	for _, session := range sessions {
		game, ok := games[session.BoardGameID]
		if !ok {
			g, err := s.store.GetBoardGame(ctx, session.BoardGameID)
			if err != nil && !isNotFound(err) {
				return nil, err
			}
			game = g
			games[session.BoardGameID] = g
		}

		view := SessionView{
			GameSession:  session,
			BoardGame:    game,
			Participants: make([]models.PlayerSummary, 0, len(session.ParticipantIDs)),
		}
		for _, id := range session.ParticipantIDs {
			if p, ok := byID[id]; ok {
				view.Participants = append(view.Participants, p.Summary())
			}
		}
		if session.WinnerID != nil {
			if p, ok := byID[*session.WinnerID]; ok {
				w := p.Summary()
				view.Winner = &w
			}
		}
		out = append(out, view)
	}
	return out, nil
}

// ParticipantBetInfo pairs a participant with the bet they placed, if any.
type ParticipantBetInfo struct {
	Player              models.PlayerSummary `json:"player"`
	HasBet              bool                 `json:"has_bet"`
	PredictedWinnerID   *string              `json:"predicted_winner_id,omitempty"`
	PredictedWinnerName *string              `json:"predicted_winner_name,omitempty"`
	PlacedAt            *time.Time           `json:"placed_at,omitempty"`
}

// SessionDetails is the betting-screen view of a session.
type SessionDetails struct {
	Session           models.GameSession    `json:"session"`
	BoardGame         *models.BoardGame     `json:"board_game,omitempty"`
	Participants      []ParticipantBetInfo  `json:"participants"`
	Bets              []models.BetDetail    `json:"bets"`
	Winner            *models.PlayerSummary `json:"winner,omitempty"`
	TotalPointsInPlay int                   `json:"total_points_in_play"`
	AllPlayersHaveBet bool                  `json:"all_players_have_bet"`
	CanStartPlaying   bool                  `json:"can_start_playing"`
}

func (s *SessionService) Details(ctx context.Context, sessionID string) (*SessionDetails, error) {
	view, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	summary, err := s.ledger.Summary(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	betsByBettor := make(map[string]models.BetDetail, len(summary.Bets))
	for _, b := range summary.Bets {
		betsByBettor[b.BettorID] = b
	}

	details := &SessionDetails{
		Session:           view.GameSession,
		BoardGame:         view.BoardGame,
		Participants:      make([]ParticipantBetInfo, 0, len(view.Participants)),
		Bets:              summary.Bets,
		Winner:            view.Winner,
		TotalPointsInPlay: len(summary.Bets) * s.ledger.Policy().CorrectPoints,
		AllPlayersHaveBet: len(summary.PendingBettors) == 0,
	}
	details.CanStartPlaying = details.AllPlayersHaveBet && view.Status == models.SessionBetting

	for _, p := range view.Participants {
		info := ParticipantBetInfo{Player: p}
		if b, ok := betsByBettor[p.ID]; ok {
			info.HasBet = true
			info.PredictedWinnerID = &b.PredictedWinnerID
			info.PredictedWinnerName = &b.PredictedWinnerName
			info.PlacedAt = &b.PlacedAt
		}
		details.Participants = append(details.Participants, info)
	}
	return details, nil
}
