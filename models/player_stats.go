package models

import "time"

// StatsKey identifies one PlayerStats row. A nil BoardGameID is the player's
// global row.
type StatsKey struct {
	PlayerID    string
	BoardGameID *string
}

func GlobalStatsKey(playerID string) StatsKey {
	return StatsKey{PlayerID: playerID}
}

func GameStatsKey(playerID, boardGameID string) StatsKey {
	return StatsKey{PlayerID: playerID, BoardGameID: &boardGameID}
}

func (k StatsKey) IsGlobal() bool { return k.BoardGameID == nil }

// StatsDelta is added onto a PlayerStats row.
type StatsDelta struct {
	GamesPlayed      int
	GamesWon         int
	BetsPlaced       int
	BetsCorrect      int
	PredictionPoints int
}

func (d StatsDelta) IsZero() bool {
	return d == StatsDelta{}
}

func (d StatsDelta) Add(o StatsDelta) StatsDelta {
	return StatsDelta{
		GamesPlayed:      d.GamesPlayed + o.GamesPlayed,
		GamesWon:         d.GamesWon + o.GamesWon,
		BetsPlaced:       d.BetsPlaced + o.BetsPlaced,
		BetsCorrect:      d.BetsCorrect + o.BetsCorrect,
		PredictionPoints: d.PredictionPoints + o.PredictionPoints,
	}
}

type PlayerStats struct {
	PlayerID         string    `json:"player_id"`
	BoardGameID      *string   `json:"board_game_id,omitempty"`
	GamesPlayed      int       `json:"games_played"`
	GamesWon         int       `json:"games_won"`
	BetsPlaced       int       `json:"bets_placed"`
	BetsCorrect      int       `json:"bets_correct"`
	PredictionPoints int       `json:"prediction_points"`
	LastUpdated      time.Time `json:"last_updated"`
}

// WinRate is gamesWon/gamesPlayed, 0 when no games were played.
func (s PlayerStats) WinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.GamesWon) / float64(s.GamesPlayed)
}

// PredictionAccuracy is betsCorrect/betsPlaced, 0 when no bets were placed.
func (s PlayerStats) PredictionAccuracy() float64 {
	if s.BetsPlaced == 0 {
		return 0
	}
	return float64(s.BetsCorrect) / float64(s.BetsPlaced)
}
