package repository

import (
	"context"

	"game-night-service/apperr"
	"game-night-service/models"

	"gorm.io/gorm/clause"
)

// CreatePrediction inserts a new prediction. A second prediction by the same
// bettor on the same session violates idx_predictions_session_bettor and comes
// back as a Conflict.
func (s *Store) CreatePrediction(ctx context.Context, p *models.Prediction) error {
	rec := fromPrediction(*p)
	if err := s.conn(ctx).Omit(clause.Associations).Create(&rec).Error; err != nil {
		return translate(err, "prediction", p.ID)
	}
	return nil
}

// ListPredictions returns a session's predictions in placement order.
func (s *Store) ListPredictions(ctx context.Context, sessionID string) ([]models.Prediction, error) {
	var recs []PredictionRecord
	err := s.conn(ctx).
		Where("session_id = ?", sessionID).
		Order("placed_at ASC").Order("id ASC").
		Find(&recs).Error
	if err != nil {
		return nil, translate(err, "predictions", sessionID)
	}
	out := make([]models.Prediction, 0, len(recs))
	for _, r := range recs {
		out = append(out, toPrediction(r))
	}
	return out, nil
}

func (s *Store) HasPrediction(ctx context.Context, sessionID, bettorID string) (bool, error) {
	var n int64
	err := s.conn(ctx).Model(&PredictionRecord{}).
		Where("session_id = ? AND bettor_id = ?", sessionID, bettorID).
		Count(&n).Error
	if err != nil {
		return false, translate(err, "prediction", sessionID)
	}
	return n > 0, nil
}

// SavePredictionResults writes the correctness and points of resolved predictions.
func (s *Store) SavePredictionResults(ctx context.Context, predictions []models.Prediction) error {
	db := s.conn(ctx)
	for _, p := range predictions {
		if p.IsCorrect == nil {
			return apperr.Internal(nil, "prediction %s is not resolved", p.ID)
		}
		res := db.Model(&PredictionRecord{}).
			Where("id = ?", p.ID).
			Updates(map[string]any{
				"is_correct":    *p.IsCorrect,
				"points_earned": p.PointsEarned,
			})
		if res.Error != nil {
			return translate(res.Error, "prediction", p.ID)
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("prediction %s not found", p.ID)
		}
	}
	return nil
}

// PredictionTotals counts all placed predictions, resolved predictions and
// correct ones.
func (s *Store) PredictionTotals(ctx context.Context) (placed, resolved, correct int64, err error) {
	db := s.conn(ctx)
	if err = db.Model(&PredictionRecord{}).Count(&placed).Error; err != nil {
		return 0, 0, 0, translate(err, "predictions", "")
	}
	if err = db.Model(&PredictionRecord{}).Where("is_correct IS NOT NULL").Count(&resolved).Error; err != nil {
		return 0, 0, 0, translate(err, "predictions", "")
	}
	if err = db.Model(&PredictionRecord{}).Where("is_correct = ?", true).Count(&correct).Error; err != nil {
		return 0, 0, 0, translate(err, "predictions", "")
	}
	return placed, resolved, correct, nil
}
