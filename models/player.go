package models

import "time"

// Player is referenced by sessions and predictions but owned elsewhere
// (synced from the roster service).
type Player struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	PhotoURL  string      `json:"photo_url,omitempty"`
	Profile   AxisProfile `json:"profile"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// PlayerSummary is the lightweight form embedded in session views.
type PlayerSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	PhotoURL string `json:"photo_url,omitempty"`
}

func (p Player) Summary() PlayerSummary {
	return PlayerSummary{ID: p.ID, Name: p.Name, PhotoURL: p.PhotoURL}
}
