package repository

import (
	"time"
)

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

type PlayerRecord struct {
	ID       string `gorm:"primaryKey;size:64"`
	Name     string `gorm:"not null;index"`
	PhotoURL string `gorm:"size:512"`

	Aggressivity int `gorm:"not null;default:3"`
	Patience     int `gorm:"not null;default:3"`
	Analysis     int `gorm:"not null;default:3"`
	Bluff        int `gorm:"not null;default:3"`

	Timestamps
}

func (PlayerRecord) TableName() string { return "players" }

type BoardGameRecord struct {
	ID              string `gorm:"primaryKey;size:64"`
	Name            string `gorm:"not null;index"`
	Description     string `gorm:"type:text"`
	PhotoURL        string `gorm:"size:512"`
	AverageDuration int    `gorm:"not null;default:0"`

	Aggressivity int `gorm:"not null;default:3"`
	Patience     int `gorm:"not null;default:3"`
	Analysis     int `gorm:"not null;default:3"`
	Bluff        int `gorm:"not null;default:3"`
	MinPlayers   int `gorm:"not null;default:2"`
	MaxPlayers   int `gorm:"not null;default:4"`

	Timestamps
}

func (BoardGameRecord) TableName() string { return "board_games" }

type SessionRecord struct {
	ID          string     `gorm:"primaryKey;size:36"`
	Date        time.Time  `gorm:"not null;index"`
	Location    string     `gorm:"size:255"`
	Notes       string     `gorm:"type:text"`
	Status      string     `gorm:"size:16;not null;index"`
	BoardGameID string     `gorm:"size:64;not null;index"`
	WinnerID    *string    `gorm:"size:64"`
	CompletedAt *time.Time `gorm:"index"`

	BoardGame    BoardGameRecord            `gorm:"foreignKey:BoardGameID;constraint:OnDelete:RESTRICT"`
	Participants []SessionParticipantRecord `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
	Predictions  []PredictionRecord         `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`

	Timestamps
}

func (SessionRecord) TableName() string { return "game_sessions" }

// SessionParticipantRecord is the session/player membership row. Position keeps
// the participant order given at creation.
type SessionParticipantRecord struct {
	SessionID string `gorm:"primaryKey;size:36"`
	PlayerID  string `gorm:"primaryKey;size:64;index"`
	Position  int    `gorm:"not null;default:0"`

	Player PlayerRecord `gorm:"foreignKey:PlayerID;constraint:OnDelete:CASCADE"`
}

func (SessionParticipantRecord) TableName() string { return "session_participants" }

type PredictionRecord struct {
	ID                string    `gorm:"primaryKey;size:36"`
	SessionID         string    `gorm:"size:36;not null;uniqueIndex:idx_predictions_session_bettor"`
	BettorID          string    `gorm:"size:64;not null;uniqueIndex:idx_predictions_session_bettor;index"`
	PredictedWinnerID string    `gorm:"size:64;not null;index"`
	PlacedAt          time.Time `gorm:"not null"`
	IsCorrect         *bool     `gorm:"index"`
	PointsEarned      int       `gorm:"not null;default:0"`

	Bettor          PlayerRecord `gorm:"foreignKey:BettorID;constraint:OnDelete:RESTRICT"`
	PredictedWinner PlayerRecord `gorm:"foreignKey:PredictedWinnerID;constraint:OnDelete:RESTRICT"`
}

func (PredictionRecord) TableName() string { return "predictions" }

// PlayerStatsRecord stores one (player, scope) aggregate. Scope is the board game
// id, or globalScope for the player's overall row; NULL is avoided so the
// composite key stays unique.
type PlayerStatsRecord struct {
	PlayerID    string `gorm:"primaryKey;size:64"`
	BoardGameID string `gorm:"primaryKey;size:64"`

	GamesPlayed      int       `gorm:"not null;default:0"`
	GamesWon         int       `gorm:"not null;default:0"`
	BetsPlaced       int       `gorm:"not null;default:0"`
	BetsCorrect      int       `gorm:"not null;default:0"`
	PredictionPoints int       `gorm:"not null;default:0"`
	LastUpdated      time.Time `gorm:"not null"`
}

func (PlayerStatsRecord) TableName() string { return "player_stats" }

const globalScope = ""

// AllRecords lists every table in migration order.
func AllRecords() []any {
	return []any{
		&PlayerRecord{},
		&BoardGameRecord{},
		&SessionRecord{},
		&SessionParticipantRecord{},
		&PredictionRecord{},
		&PlayerStatsRecord{},
	}
}
