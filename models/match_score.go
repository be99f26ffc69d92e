package models

type MatchQuality string

const (
	QualityAvoid   MatchQuality = "Avoid"
	QualityPoor    MatchQuality = "Poor"
	QualityAverage MatchQuality = "Average"
	QualityGood    MatchQuality = "Good"
	QualityGreat   MatchQuality = "Great"
	QualityPerfect MatchQuality = "Perfect"
)

// QualityFor classifies a 0-100 score. Each band includes its lower bound.
func QualityFor(score float64) MatchQuality {
	switch {
	case score >= 90:
		return QualityPerfect
	case score >= 75:
		return QualityGreat
	case score >= 60:
		return QualityGood
	case score >= 40:
		return QualityAverage
	case score >= 25:
		return QualityPoor
	default:
		return QualityAvoid
	}
}

// Recommendation is the human readable advice shown next to a score.
func (q MatchQuality) Recommendation() string {
	switch q {
	case QualityPerfect:
		return "Perfect match! This game fits your group's style."
	case QualityGreat:
		return "Great choice, your group should enjoy this one."
	case QualityGood:
		return "Good fit, worth a try."
	case QualityAverage:
		return "Average fit, could be fun with the right mood."
	case QualityPoor:
		return "Poor fit, expect some friction."
	default:
		return "Better to avoid this game with this group."
	}
}

type MatchScore struct {
	BoardGame      BoardGame        `json:"board_game"`
	Score          float64          `json:"score"`
	Quality        MatchQuality     `json:"quality"`
	AxisScores     map[Axis]float64 `json:"axis_scores"`
	Recommendation string           `json:"recommendation"`
}
