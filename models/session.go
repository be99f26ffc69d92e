package models

import (
	"strings"
	"time"

	"game-night-service/apperr"
)

type SessionStatus string

const (
	SessionCreated   SessionStatus = "Created"
	SessionBetting   SessionStatus = "Betting"
	SessionPlaying   SessionStatus = "Playing"
	SessionCompleted SessionStatus = "Completed"
	SessionCancelled SessionStatus = "Cancelled"
)

var SessionStatuses = []SessionStatus{
	SessionCreated, SessionBetting, SessionPlaying, SessionCompleted, SessionCancelled,
}

// IsTerminal reports whether no further transition can leave s.
func (s SessionStatus) IsTerminal() bool {
	return s == SessionCompleted || s == SessionCancelled
}

// ParseSessionStatus accepts a status name in any letter case.
func ParseSessionStatus(raw string) (SessionStatus, error) {
	for _, s := range SessionStatuses {
		if strings.EqualFold(string(s), strings.TrimSpace(raw)) {
			return s, nil
		}
	}
	return "", apperr.Validation("unknown session status %q", raw)
}

// SessionMetadata is the scheduling information supplied at creation.
type SessionMetadata struct {
	Date     time.Time `json:"date"`
	Location string    `json:"location,omitempty"`
	Notes    string    `json:"notes,omitempty"`
}

type GameSession struct {
	ID             string        `json:"id"`
	Date           time.Time     `json:"date"`
	Location       string        `json:"location,omitempty"`
	Notes          string        `json:"notes,omitempty"`
	Status         SessionStatus `json:"status"`
	BoardGameID    string        `json:"board_game_id"`
	ParticipantIDs []string      `json:"participant_ids"`
	WinnerID       *string       `json:"winner_id,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	CompletedAt    *time.Time    `json:"completed_at,omitempty"`
}

func (s *GameSession) HasParticipant(playerID string) bool {
	for _, id := range s.ParticipantIDs {
		if id == playerID {
			return true
		}
	}
	return false
}

// SessionFilter narrows session listings. Zero values mean "no constraint".
type SessionFilter struct {
	Statuses      []SessionStatus
	CreatedBefore time.Time
	Limit         int
}
