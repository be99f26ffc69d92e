package services

import (
	"context"
	"math"
	"sort"

	"game-night-service/logger"
	"game-night-service/models"
	"game-night-service/utils"
)

const (
	DefaultRankingSize = 10
	MaxRankingSize     = 100
)

type RankingConfig struct {
	ChampionMinGames int
	OracleMinBets    int
}

var DefaultRankingConfig = RankingConfig{ChampionMinGames: 3, OracleMinBets: 5}

// RankingEntry is one leaderboard line. Rates are percentages with one decimal.
type RankingEntry struct {
	Rank               int                  `json:"rank"`
	Player             models.PlayerSummary `json:"player"`
	GamesPlayed        int                  `json:"games_played"`
	GamesWon           int                  `json:"games_won"`
	WinRate            float64              `json:"win_rate"`
	BetsPlaced         int                  `json:"bets_placed"`
	BetsCorrect        int                  `json:"bets_correct"`
	PredictionAccuracy float64              `json:"prediction_accuracy"`
	PredictionPoints   int                  `json:"prediction_points"`
}

// RankingService builds champion (win rate) and oracle (prediction accuracy)
// leaderboards from the aggregated stats.
type RankingService struct {
	store Store
	cfg   RankingConfig
	log   *logger.Logger
}

func NewRankingService(store Store, cfg RankingConfig, baseLog *logger.Logger) *RankingService {
	return &RankingService{store: store, cfg: cfg, log: baseLog.With("service", "RankingService")}
}

// ClampRankingSize maps a requested leaderboard size onto [1, MaxRankingSize],
// using the default for anything below 1.
func ClampRankingSize(top int) int {
	switch {
	case top < 1:
		return DefaultRankingSize
	case top > MaxRankingSize:
		return MaxRankingSize
	}
	return top
}

// Champions ranks players with at least ChampionMinGames games by win rate,
// then games played. A nil boardGameID ranks global stats.
func (r *RankingService) Champions(ctx context.Context, boardGameID *string, top int) ([]RankingEntry, error) {
	return r.rank(ctx, boardGameID, top,
		func(s models.PlayerStats) bool { return s.GamesPlayed >= r.cfg.ChampionMinGames && s.GamesPlayed > 0 },
		func(a, b models.PlayerStats) int {
			if c := compareFloat(a.WinRate(), b.WinRate()); c != 0 {
				return c
			}
			return b.GamesPlayed - a.GamesPlayed
		})
}

// Oracles ranks players with at least OracleMinBets resolved bets by
// prediction accuracy, then bets placed.
func (r *RankingService) Oracles(ctx context.Context, boardGameID *string, top int) ([]RankingEntry, error) {
	return r.rank(ctx, boardGameID, top,
		func(s models.PlayerStats) bool { return s.BetsPlaced >= r.cfg.OracleMinBets && s.BetsPlaced > 0 },
		func(a, b models.PlayerStats) int {
			if c := compareFloat(a.PredictionAccuracy(), b.PredictionAccuracy()); c != 0 {
				return c
			}
			return b.BetsPlaced - a.BetsPlaced
		})
}

// compareFloat orders higher values first.
func compareFloat(a, b float64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	}
	return 0
}

func (r *RankingService) rank(
	ctx context.Context,
	boardGameID *string,
	top int,
	eligible func(models.PlayerStats) bool,
	compare func(a, b models.PlayerStats) int,
) ([]RankingEntry, error) {
	if boardGameID != nil {
		if _, err := r.store.GetBoardGame(ctx, *boardGameID); err != nil {
			return nil, err
		}
	}
	rows, err := r.store.ListPlayerStats(ctx, boardGameID)
	if err != nil {
		return nil, err
	}

	var kept []models.PlayerStats
	var ids []string
	for _, row := range rows {
		if eligible(row) {
			kept = append(kept, row)
			ids = append(ids, row.PlayerID)
		}
	}
	players, err := r.store.GetPlayers(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := playerIndex(players)

	sort.SliceStable(kept, func(i, j int) bool {
		if c := compare(kept[i], kept[j]); c != 0 {
			return c < 0
		}
		ni, nj := utils.FoldName(byID[kept[i].PlayerID].Name), utils.FoldName(byID[kept[j].PlayerID].Name)
		if ni != nj {
			return ni < nj
		}
		return kept[i].PlayerID < kept[j].PlayerID
	})

	top = ClampRankingSize(top)
	if len(kept) > top {
		kept = kept[:top]
	}
	out := make([]RankingEntry, 0, len(kept))
	for i, s := range kept {
		out = append(out, RankingEntry{
			Rank:               i + 1,
			Player:             byID[s.PlayerID].Summary(),
			GamesPlayed:        s.GamesPlayed,
			GamesWon:           s.GamesWon,
			WinRate:            percent(s.WinRate()),
			BetsPlaced:         s.BetsPlaced,
			BetsCorrect:        s.BetsCorrect,
			PredictionAccuracy: percent(s.PredictionAccuracy()),
			PredictionPoints:   s.PredictionPoints,
		})
	}
	return out, nil
}

func percent(ratio float64) float64 {
	return math.Round(ratio*1000) / 10
}
