package models

import (
	"time"

	"game-night-service/apperr"
)

const (
	DefaultMinPlayers = 2
	DefaultMaxPlayers = 4
)

// GameProfile is the axis profile a game demands plus its supported player range.
type GameProfile struct {
	AxisProfile
	MinPlayers int `json:"min_players"`
	MaxPlayers int `json:"max_players"`
}

func DefaultGameProfile() GameProfile {
	return GameProfile{
		AxisProfile: DefaultAxisProfile(),
		MinPlayers:  DefaultMinPlayers,
		MaxPlayers:  DefaultMaxPlayers,
	}
}

// FitsPlayerCount reports whether n is within [MinPlayers, MaxPlayers].
func (g GameProfile) FitsPlayerCount(n int) bool {
	return n >= g.MinPlayers && n <= g.MaxPlayers
}

func (g GameProfile) Validate() error {
	if err := g.AxisProfile.Validate(); err != nil {
		return err
	}
	if g.MinPlayers < 1 {
		return apperr.Validation("min_players must be at least 1, got %d", g.MinPlayers)
	}
	if g.MinPlayers > g.MaxPlayers {
		return apperr.Validation("min_players (%d) must not exceed max_players (%d)", g.MinPlayers, g.MaxPlayers)
	}
	return nil
}

type BoardGame struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Description     string      `json:"description,omitempty"`
	PhotoURL        string      `json:"photo_url,omitempty"`
	AverageDuration int         `json:"average_duration"` // minutes
	Profile         GameProfile `json:"profile"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}
