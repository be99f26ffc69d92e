package services

import (
	"context"
	"time"

	"game-night-service/apperr"
	"game-night-service/logger"
	"game-night-service/models"

	"github.com/google/uuid"
)

// ScoringPolicy holds the points a resolved prediction earns. Self-predictions
// are never accepted, so they need no separate award.
type ScoringPolicy struct {
	CorrectPoints   int
	IncorrectPoints int
}

var DefaultScoringPolicy = ScoringPolicy{
	CorrectPoints:   10,
	IncorrectPoints: -2,
}

func (p ScoringPolicy) Points(correct bool) int {
	if correct {
		return p.CorrectPoints
	}
	return p.IncorrectPoints
}

// PredictionLedger validates, places and resolves predictions.
type PredictionLedger struct {
	store  Store
	policy ScoringPolicy
	log    *logger.Logger
	now    func() time.Time
}

func NewPredictionLedger(store Store, policy ScoringPolicy, baseLog *logger.Logger) *PredictionLedger {
	return &PredictionLedger{
		store:  store,
		policy: policy,
		log:    baseLog.With("service", "PredictionLedger"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (l *PredictionLedger) Policy() ScoringPolicy { return l.policy }

// check returns nil when the prediction may be placed, an InvalidOperation
// naming the broken rule otherwise. Storage failures come back as they are.
func (l *PredictionLedger) check(ctx context.Context, sessionID, bettorID, predictedWinnerID string) error {
	session, err := l.store.GetSession(ctx, sessionID)
	if err != nil {
		if isNotFound(err) {
			return apperr.InvalidOperation("session %s not found", sessionID)
		}
		return err
	}
	if session.Status != models.SessionBetting {
		return apperr.InvalidOperation("session %s is %s, bets are only taken while Betting", sessionID, session.Status)
	}
	if !session.HasParticipant(bettorID) {
		return apperr.InvalidOperation("player %s is not a participant of session %s", bettorID, sessionID)
	}
	if !session.HasParticipant(predictedWinnerID) {
		return apperr.InvalidOperation("predicted winner %s is not a participant of session %s", predictedWinnerID, sessionID)
	}
	if bettorID == predictedWinnerID {
		return apperr.InvalidOperation("players cannot bet on themselves")
	}
	placed, err := l.store.HasPrediction(ctx, sessionID, bettorID)
	if err != nil {
		return err
	}
	if placed {
		return apperr.InvalidOperation("player %s already placed a bet on session %s", bettorID, sessionID)
	}
	return nil
}

// Validate reports whether bettorID may predict predictedWinnerID on the session.
func (l *PredictionLedger) Validate(ctx context.Context, sessionID, bettorID, predictedWinnerID string) (bool, error) {
	err := l.check(ctx, sessionID, bettorID, predictedWinnerID)
	switch {
	case err == nil:
		return true, nil
	case apperr.KindOf(err) == apperr.KindValidation:
		return false, nil
	default:
		return false, err
	}
}

// Place records a new unresolved prediction. A concurrent duplicate that slips
// past validation is rejected by the store as a Conflict.
func (l *PredictionLedger) Place(ctx context.Context, sessionID, bettorID, predictedWinnerID string) (*models.Prediction, error) {
	var placed *models.Prediction
	err := l.store.RunInTx(ctx, func(ctx context.Context) error {
		if err := l.check(ctx, sessionID, bettorID, predictedWinnerID); err != nil {
			return err
		}
		p := &models.Prediction{
			ID:                uuid.NewString(),
			SessionID:         sessionID,
			BettorID:          bettorID,
			PredictedWinnerID: predictedWinnerID,
			PlacedAt:          l.now(),
		}
		if err := l.store.CreatePrediction(ctx, p); err != nil {
			return err
		}
		placed = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	l.log.Info("🎲 bet placed", "session_id", sessionID, "bettor_id", bettorID, "predicted_winner_id", predictedWinnerID)
	return placed, nil
}

// Resolve scores every prediction of the session against the actual winner.
// It does not check the session status; callers guard against resolving twice.
func (l *PredictionLedger) Resolve(ctx context.Context, sessionID, actualWinnerID string) ([]models.Prediction, error) {
	var resolved []models.Prediction
	err := l.store.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := l.store.GetSession(ctx, sessionID); err != nil {
			if isNotFound(err) {
				return apperr.InvalidOperation("session %s not found", sessionID)
			}
			return err
		}
		predictions, err := l.store.ListPredictions(ctx, sessionID)
		if err != nil {
			return err
		}
		for i := range predictions {
			correct := predictions[i].PredictedWinnerID == actualWinnerID
			predictions[i].IsCorrect = &correct
			predictions[i].PointsEarned = l.policy.Points(correct)
		}
		if err := l.store.SavePredictionResults(ctx, predictions); err != nil {
			return err
		}
		resolved = predictions
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resolved, nil
}

// PendingBettors returns the participants that have not bet yet, in
// participant order. An unknown session yields an empty list.
func (l *PredictionLedger) PendingBettors(ctx context.Context, sessionID string) ([]models.Player, error) {
	session, err := l.store.GetSession(ctx, sessionID)
	if err != nil {
		if isNotFound(err) {
			return []models.Player{}, nil
		}
		return nil, err
	}
	predictions, err := l.store.ListPredictions(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	pendingIDs := pendingParticipantIDs(session, predictions)
	return l.store.GetPlayers(ctx, pendingIDs)
}

// AllPlayersHaveBet reports whether every participant has a prediction.
func (l *PredictionLedger) AllPlayersHaveBet(ctx context.Context, sessionID string) (bool, error) {
	session, err := l.store.GetSession(ctx, sessionID)
	if err != nil {
		return false, err
	}
	predictions, err := l.store.ListPredictions(ctx, sessionID)
	if err != nil {
		return false, err
	}
	return len(pendingParticipantIDs(session, predictions)) == 0, nil
}

// Summary builds the bets overview of a session.
func (l *PredictionLedger) Summary(ctx context.Context, sessionID string) (*models.BetsSummary, error) {
	session, err := l.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	predictions, err := l.store.ListPredictions(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	players, err := l.store.GetPlayers(ctx, session.ParticipantIDs)
	if err != nil {
		return nil, err
	}
	byID := playerIndex(players)

	summary := &models.BetsSummary{
		SessionID:         session.ID,
		SessionStatus:     session.Status,
		TotalParticipants: len(session.ParticipantIDs),
		TotalBetsPlaced:   len(predictions),
		Bets:              make([]models.BetDetail, 0, len(predictions)),
		PendingBettors:    []models.PlayerSummary{},
	}
	for _, p := range predictions {
		summary.Bets = append(summary.Bets, models.BetDetail{
			BetID:               p.ID,
			BettorID:            p.BettorID,
			BettorName:          byID[p.BettorID].Name,
			PredictedWinnerID:   p.PredictedWinnerID,
			PredictedWinnerName: byID[p.PredictedWinnerID].Name,
			PlacedAt:            p.PlacedAt,
			IsCorrect:           p.IsCorrect,
			PointsEarned:        p.PointsEarned,
		})
	}
	for _, id := range pendingParticipantIDs(session, predictions) {
		if p, ok := byID[id]; ok {
			summary.PendingBettors = append(summary.PendingBettors, p.Summary())
		}
	}
	return summary, nil
}

func pendingParticipantIDs(session *models.GameSession, predictions []models.Prediction) []string {
	bettors := make(map[string]bool, len(predictions))
	for _, p := range predictions {
		bettors[p.BettorID] = true
	}
	pending := make([]string, 0, len(session.ParticipantIDs))
	for _, id := range session.ParticipantIDs {
		if !bettors[id] {
			pending = append(pending, id)
		}
	}
	return pending
}
