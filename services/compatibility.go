package services

import (
	"math"
	"sort"

	"game-night-service/apperr"
	"game-night-service/models"
	"game-night-service/utils"
)

const (
	profileWeight     = 0.7
	playerCountWeight = 0.3

	// distanceNormalizer is 4 axes times the largest per-axis gap of 4.
	distanceNormalizer = 16.0
	maxAxisGap         = 4.0

	outOfRangeCountScore = 0.5
)

// CompatibilityScorer rates how well a group's averaged profile fits a game.
// It is pure: no store, no clock.
type CompatibilityScorer struct{}

func NewCompatibilityScorer() *CompatibilityScorer {
	return &CompatibilityScorer{}
}

// CalculateScore scores one game for the group.
func (CompatibilityScorer) CalculateScore(players []models.Player, game models.BoardGame) (models.MatchScore, error) {
	if len(players) == 0 {
		return models.MatchScore{}, apperr.Validation("at least one player is required")
	}

	means := make(map[models.Axis]float64, len(models.Axes))
	for _, a := range models.Axes {
		var sum float64
		for _, p := range players {
			sum += float64(p.Profile.Value(a))
		}
		means[a] = sum / float64(len(players))
	}

	var squares float64
	axisScores := make(map[models.Axis]float64, len(models.Axes))
	for _, a := range models.Axes {
		gap := means[a] - float64(game.Profile.Value(a))
		squares += gap * gap
		axisScores[a] = math.Max(0, 1-math.Abs(gap)/maxAxisGap) * 100
	}
	distance := math.Min(math.Sqrt(squares)/distanceNormalizer, 1)
	profileScore := 1 - distance

	countScore := 1.0
	if !game.Profile.FitsPlayerCount(len(players)) {
		countScore = outOfRangeCountScore
	}

	score := roundTenth((profileScore*profileWeight + countScore*playerCountWeight) * 100)
	quality := models.QualityFor(score)
	return models.MatchScore{
		BoardGame:      game,
		Score:          score,
		Quality:        quality,
		AxisScores:     axisScores,
		Recommendation: quality.Recommendation(),
	}, nil
}

// RankAllGames scores every game, best first. Equal scores are ordered by
// folded game name, then raw name, then id.
func (c CompatibilityScorer) RankAllGames(players []models.Player, games []models.BoardGame) ([]models.MatchScore, error) {
	if len(players) == 0 {
		return nil, apperr.Validation("at least one player is required")
	}
	ranked := make([]models.MatchScore, 0, len(games))
	for _, g := range games {
		ms, err := c.CalculateScore(players, g)
		if err != nil {
			return nil, err
		}
		ranked = append(ranked, ms)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return rankBefore(ranked[i], ranked[j])
	})
	return ranked, nil
}

// FindBestMatch returns the top ranked game, or nil when there are no games.
func (c CompatibilityScorer) FindBestMatch(players []models.Player, games []models.BoardGame) (*models.MatchScore, error) {
	ranked, err := c.RankAllGames(players, games)
	if err != nil {
		return nil, err
	}
	if len(ranked) == 0 {
		return nil, nil
	}
	best := ranked[0]
	return &best, nil
}

func rankBefore(a, b models.MatchScore) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if fa, fb := utils.FoldName(a.BoardGame.Name), utils.FoldName(b.BoardGame.Name); fa != fb {
		return fa < fb
	}
	if a.BoardGame.Name != b.BoardGame.Name {
		return a.BoardGame.Name < b.BoardGame.Name
	}
	return a.BoardGame.ID < b.BoardGame.ID
}

// roundTenth rounds to one decimal, halves to even.
func roundTenth(v float64) float64 {
	return math.RoundToEven(v*10) / 10
}
