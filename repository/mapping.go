package repository

import (
	"game-night-service/models"
)

func toPlayer(r PlayerRecord) models.Player {
	return models.Player{
		ID:       r.ID,
		Name:     r.Name,
		PhotoURL: r.PhotoURL,
		Profile: models.AxisProfile{
			Aggressivity: r.Aggressivity,
			Patience:     r.Patience,
			Analysis:     r.Analysis,
			Bluff:        r.Bluff,
		},
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func fromPlayer(p models.Player) PlayerRecord {
	return PlayerRecord{
		ID:           p.ID,
		Name:         p.Name,
		PhotoURL:     p.PhotoURL,
		Aggressivity: p.Profile.Aggressivity,
		Patience:     p.Profile.Patience,
		Analysis:     p.Profile.Analysis,
		Bluff:        p.Profile.Bluff,
		Timestamps:   Timestamps{CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt},
	}
}

func toBoardGame(r BoardGameRecord) models.BoardGame {
	return models.BoardGame{
		ID:              r.ID,
		Name:            r.Name,
		Description:     r.Description,
		PhotoURL:        r.PhotoURL,
		AverageDuration: r.AverageDuration,
		Profile: models.GameProfile{
			AxisProfile: models.AxisProfile{
				Aggressivity: r.Aggressivity,
				Patience:     r.Patience,
				Analysis:     r.Analysis,
				Bluff:        r.Bluff,
			},
			MinPlayers: r.MinPlayers,
			MaxPlayers: r.MaxPlayers,
		},
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func fromBoardGame(g models.BoardGame) BoardGameRecord {
	return BoardGameRecord{
		ID:              g.ID,
		Name:            g.Name,
		Description:     g.Description,
		PhotoURL:        g.PhotoURL,
		AverageDuration: g.AverageDuration,
		Aggressivity:    g.Profile.Aggressivity,
		Patience:        g.Profile.Patience,
		Analysis:        g.Profile.Analysis,
		Bluff:           g.Profile.Bluff,
		MinPlayers:      g.Profile.MinPlayers,
		MaxPlayers:      g.Profile.MaxPlayers,
		Timestamps:      Timestamps{CreatedAt: g.CreatedAt, UpdatedAt: g.UpdatedAt},
	}
}

func toSession(r SessionRecord) models.GameSession {
	s := models.GameSession{
		ID:             r.ID,
		Date:           r.Date,
		Location:       r.Location,
		Notes:          r.Notes,
		Status:         models.SessionStatus(r.Status),
		BoardGameID:    r.BoardGameID,
		ParticipantIDs: make([]string, 0, len(r.Participants)),
		WinnerID:       r.WinnerID,
		CreatedAt:      r.CreatedAt,
		CompletedAt:    r.CompletedAt,
	}
	for _, p := range r.Participants {
		s.ParticipantIDs = append(s.ParticipantIDs, p.PlayerID)
	}
	return s
}

func fromSession(s models.GameSession) SessionRecord {
	rec := SessionRecord{
		ID:          s.ID,
		Date:        s.Date,
		Location:    s.Location,
		Notes:       s.Notes,
		Status:      string(s.Status),
		BoardGameID: s.BoardGameID,
		WinnerID:    s.WinnerID,
		CompletedAt: s.CompletedAt,
		Timestamps:  Timestamps{CreatedAt: s.CreatedAt},
	}
	for i, id := range s.ParticipantIDs {
		rec.Participants = append(rec.Participants, SessionParticipantRecord{
			SessionID: s.ID,
			PlayerID:  id,
			Position:  i,
		})
	}
	return rec
}

func toPrediction(r PredictionRecord) models.Prediction {
	return models.Prediction{
		ID:                r.ID,
		SessionID:         r.SessionID,
		BettorID:          r.BettorID,
		PredictedWinnerID: r.PredictedWinnerID,
		PlacedAt:          r.PlacedAt,
		IsCorrect:         r.IsCorrect,
		PointsEarned:      r.PointsEarned,
	}
}

func fromPrediction(p models.Prediction) PredictionRecord {
	return PredictionRecord{
		ID:                p.ID,
		SessionID:         p.SessionID,
		BettorID:          p.BettorID,
		PredictedWinnerID: p.PredictedWinnerID,
		PlacedAt:          p.PlacedAt,
		IsCorrect:         p.IsCorrect,
		PointsEarned:      p.PointsEarned,
	}
}

func toPlayerStats(r PlayerStatsRecord) models.PlayerStats {
	s := models.PlayerStats{
		PlayerID:         r.PlayerID,
		GamesPlayed:      r.GamesPlayed,
		GamesWon:         r.GamesWon,
		BetsPlaced:       r.BetsPlaced,
		BetsCorrect:      r.BetsCorrect,
		PredictionPoints: r.PredictionPoints,
		LastUpdated:      r.LastUpdated,
	}
	if r.BoardGameID != globalScope {
		id := r.BoardGameID
		s.BoardGameID = &id
	}
	return s
}

func scopeOf(key models.StatsKey) string {
	if key.BoardGameID == nil {
		return globalScope
	}
	return *key.BoardGameID
}
