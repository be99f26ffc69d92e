package models

import "game-night-service/apperr"

const (
	MinAxisValue = 1
	MaxAxisValue = 5
	// DefaultAxisValue is the neutral value new profiles start at.
	DefaultAxisValue = 3
)

// Axis names one dimension of a play-style profile.
type Axis string

const (
	AxisAggressivity Axis = "aggressivity"
	AxisPatience     Axis = "patience"
	AxisAnalysis     Axis = "analysis"
	AxisBluff        Axis = "bluff"
)

// Axes lists every profile axis in canonical order.
var Axes = []Axis{AxisAggressivity, AxisPatience, AxisAnalysis, AxisBluff}

// AxisProfile describes a player's play style or a game's demands.
type AxisProfile struct {
	Aggressivity int `json:"aggressivity"`
	Patience     int `json:"patience"`
	Analysis     int `json:"analysis"`
	Bluff        int `json:"bluff"`
}

func DefaultAxisProfile() AxisProfile {
	return AxisProfile{
		Aggressivity: DefaultAxisValue,
		Patience:     DefaultAxisValue,
		Analysis:     DefaultAxisValue,
		Bluff:        DefaultAxisValue,
	}
}

// Value returns the profile's value on axis a, 0 for an unknown axis.
func (p AxisProfile) Value(a Axis) int {
	switch a {
	case AxisAggressivity:
		return p.Aggressivity
	case AxisPatience:
		return p.Patience
	case AxisAnalysis:
		return p.Analysis
	case AxisBluff:
		return p.Bluff
	}
	return 0
}

func (p AxisProfile) Validate() error {
	for _, a := range Axes {
		if v := p.Value(a); v < MinAxisValue || v > MaxAxisValue {
			return apperr.Validation("%s must be between %d and %d, got %d", a, MinAxisValue, MaxAxisValue, v)
		}
	}
	return nil
}
