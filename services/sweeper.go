package services

import (
	"context"
	"time"

	"game-night-service/apperr"
	"game-night-service/logger"
	"game-night-service/models"
)

// SessionSweeper cancels sessions that never got past betting.
type SessionSweeper struct {
	store      Store
	sessions   *SessionService
	staleAfter time.Duration
	log        *logger.Logger
	now        func() time.Time
}

func NewSessionSweeper(store Store, sessions *SessionService, staleAfter time.Duration, baseLog *logger.Logger) *SessionSweeper {
	return &SessionSweeper{
		store:      store,
		sessions:   sessions,
		staleAfter: staleAfter,
		log:        baseLog.With("job", "SessionSweeper"),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Sweep cancels every Created or Betting session created more than staleAfter
// ago and returns how many were cancelled. Sessions that moved on in the
// meantime are skipped.
func (w *SessionSweeper) Sweep(ctx context.Context) (int, error) {
	if w.staleAfter <= 0 {
		return 0, nil
	}
	stale, err := w.store.ListSessions(ctx, models.SessionFilter{
		Statuses:      []models.SessionStatus{models.SessionCreated, models.SessionBetting},
		CreatedBefore: w.now().Add(-w.staleAfter),
	})
	if err != nil {
		return 0, err
	}

	cancelled := 0
	for _, s := range stale {
		if _, err := w.sessions.Cancel(ctx, s.ID); err != nil {
			switch apperr.KindOf(err) {
			case apperr.KindValidation, apperr.KindConflict, apperr.KindNotFound:
				w.log.Debug("stale session skipped", "session_id", s.ID, "error", err)
				continue
			}
			return cancelled, err
		}
		cancelled++
		w.log.Info("🧹 stale session cancelled", "session_id", s.ID, "status", s.Status, "created_at", s.CreatedAt)
	}
	return cancelled, nil
}
