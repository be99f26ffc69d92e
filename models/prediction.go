package models

import "time"

// Prediction is a participant's bet on who will win a session.
// IsCorrect stays nil until the session is resolved.
type Prediction struct {
	ID                string    `json:"id"`
	SessionID         string    `json:"session_id"`
	BettorID          string    `json:"bettor_id"`
	PredictedWinnerID string    `json:"predicted_winner_id"`
	PlacedAt          time.Time `json:"placed_at"`
	IsCorrect         *bool     `json:"is_correct"`
	PointsEarned      int       `json:"points_earned"`
}

func (p Prediction) IsResolved() bool {
	return p.IsCorrect != nil
}

// BetDetail is one prediction with the names of the players involved.
type BetDetail struct {
	BetID               string    `json:"bet_id"`
	BettorID            string    `json:"bettor_id"`
	BettorName          string    `json:"bettor_name"`
	PredictedWinnerID   string    `json:"predicted_winner_id"`
	PredictedWinnerName string    `json:"predicted_winner_name"`
	PlacedAt            time.Time `json:"placed_at"`
	IsCorrect           *bool     `json:"is_correct"`
	PointsEarned        int       `json:"points_earned"`
}

type BetsSummary struct {
	SessionID         string          `json:"session_id"`
	SessionStatus     SessionStatus   `json:"session_status"`
	TotalParticipants int             `json:"total_participants"`
	TotalBetsPlaced   int             `json:"total_bets_placed"`
	Bets              []BetDetail     `json:"bets"`
	PendingBettors    []PlayerSummary `json:"pending_bettors"`
}
