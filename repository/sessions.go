package repository

import (
	"context"
	"time"

	"game-night-service/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func preloadParticipants(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// CreateSession inserts the session and its participant rows.
func (s *Store) CreateSession(ctx context.Context, session *models.GameSession) error {
	rec := fromSession(*session)
	participants := rec.Participants
	rec.Participants = nil

	return s.RunInTx(ctx, func(ctx context.Context) error {
		db := s.conn(ctx)
		if err := db.Omit(clause.Associations).Create(&rec).Error; err != nil {
			return translate(err, "session", session.ID)
		}
		if len(participants) > 0 {
			if err := db.Omit(clause.Associations).Create(&participants).Error; err != nil {
				return translate(err, "session participants", session.ID)
			}
		}
		session.CreatedAt = rec.CreatedAt
		return nil
	})
}

func (s *Store) GetSession(ctx context.Context, id string) (*models.GameSession, error) {
	var rec SessionRecord
	err := s.conn(ctx).
		Preload("Participants", preloadParticipants).
		Where("id = ?", id).
		First(&rec).Error
	if err != nil {
		return nil, translate(err, "session", id)
	}
	session := toSession(rec)
	return &session, nil
}

// ListSessions returns sessions newest first (by date, then creation time).
func (s *Store) ListSessions(ctx context.Context, filter models.SessionFilter) ([]models.GameSession, error) {
	q := s.conn(ctx).Preload("Participants", preloadParticipants)
	if len(filter.Statuses) > 0 {
		q = q.Where("status IN ?", statusStrings(filter.Statuses))
	}
	if !filter.CreatedBefore.IsZero() {
		q = q.Where("created_at < ?", filter.CreatedBefore)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var recs []SessionRecord
	if err := q.Order("date DESC").Order("created_at DESC").Find(&recs).Error; err != nil {
		return nil, translate(err, "sessions", "")
	}
	out := make([]models.GameSession, 0, len(recs))
	for _, r := range recs {
		out = append(out, toSession(r))
	}
	return out, nil
}

// LatestSession returns the most recently created session in one of statuses,
// or nil when there is none.
func (s *Store) LatestSession(ctx context.Context, statuses ...models.SessionStatus) (*models.GameSession, error) {
	var recs []SessionRecord
	err := s.conn(ctx).
		Preload("Participants", preloadParticipants).
		Where("status IN ?", statusStrings(statuses)).
		Order("created_at DESC").
		Limit(1).
		Find(&recs).Error
	if err != nil {
		return nil, translate(err, "sessions", "")
	}
	if len(recs) == 0 {
		return nil, nil
	}
	session := toSession(recs[0])
	return &session, nil
}

// CountSessions counts sessions in any of statuses, or all sessions when none
// are given.
func (s *Store) CountSessions(ctx context.Context, statuses ...models.SessionStatus) (int64, error) {
	q := s.conn(ctx).Model(&SessionRecord{})
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statusStrings(statuses))
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, translate(err, "sessions", "")
	}
	return n, nil
}

// CompareAndSetStatus moves the session to `to` only if its current status is
// one of `from`. It reports whether the row was updated.
func (s *Store) CompareAndSetStatus(ctx context.Context, id string, from []models.SessionStatus, to models.SessionStatus) (bool, error) {
	res := s.conn(ctx).Model(&SessionRecord{}).
		Where("id = ? AND status IN ?", id, statusStrings(from)).
		Updates(map[string]any{
			"status":     string(to),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, translate(res.Error, "session", id)
	}
	return res.RowsAffected == 1, nil
}

// FinalizeSession records the winner and marks the session Completed, guarded
// by the same compare-and-set on status.
func (s *Store) FinalizeSession(ctx context.Context, id, winnerID string, completedAt time.Time, from []models.SessionStatus) (bool, error) {
	res := s.conn(ctx).Model(&SessionRecord{}).
		Where("id = ? AND status IN ?", id, statusStrings(from)).
		Updates(map[string]any{
			"status":       string(models.SessionCompleted),
			"winner_id":    winnerID,
			"completed_at": completedAt,
			"updated_at":   completedAt,
		})
	if res.Error != nil {
		return false, translate(res.Error, "session", id)
	}
	return res.RowsAffected == 1, nil
}

// CloseSession marks the session Completed without a winner, guarded by the
// same compare-and-set on status.
func (s *Store) CloseSession(ctx context.Context, id string, completedAt time.Time, from []models.SessionStatus) (bool, error) {
	res := s.conn(ctx).Model(&SessionRecord{}).
		Where("id = ? AND status IN ?", id, statusStrings(from)).
		Updates(map[string]any{
			"status":       string(models.SessionCompleted),
			"completed_at": completedAt,
			"updated_at":   completedAt,
		})
	if res.Error != nil {
		return false, translate(res.Error, "session", id)
	}
	return res.RowsAffected == 1, nil
}

func statusStrings(statuses []models.SessionStatus) []string {
	out := make([]string, len(statuses))
	for i, st := range statuses {
		out[i] = string(st)
	}
	return out
}
