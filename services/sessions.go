package services

import (
	"context"
	"strings"
	"time"

	"game-night-service/apperr"
	"game-night-service/logger"
	"game-night-service/models"

	"github.com/google/uuid"
)

// CreateSessionInput is the payload shared by both creation paths.
type CreateSessionInput struct {
	BoardGameID    string
	ParticipantIDs []string
	Metadata       models.SessionMetadata
}

// SessionService owns the session state machine. Completion drives the
// prediction ledger and the stats aggregator inside one transaction.
type SessionService struct {
	store  Store
	ledger *PredictionLedger
	stats  *StatsAggregator
	log    *logger.Logger
	now    func() time.Time
}

func NewSessionService(store Store, ledger *PredictionLedger, stats *StatsAggregator, baseLog *logger.Logger) *SessionService {
	return &SessionService{
		store:  store,
		ledger: ledger,
		stats:  stats,
		log:    baseLog.With("service", "SessionService"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// CreateStaged creates a session in Created; betting starts with StartBetting.
func (s *SessionService) CreateStaged(ctx context.Context, in CreateSessionInput) (*models.GameSession, error) {
	return s.create(ctx, in, models.SessionCreated, 0)
}

// CreateForBetting creates a session that is already taking bets. The
// participant set is final.
func (s *SessionService) CreateForBetting(ctx context.Context, in CreateSessionInput) (*models.GameSession, error) {
	return s.create(ctx, in, models.SessionBetting, MinBettingParticipants)
}

func (s *SessionService) create(ctx context.Context, in CreateSessionInput, status models.SessionStatus, minParticipants int) (*models.GameSession, error) {
	in.BoardGameID = strings.TrimSpace(in.BoardGameID)
	if in.BoardGameID == "" {
		return nil, apperr.Validation("board_game_id is required")
	}

	var session *models.GameSession
	err := s.store.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.store.GetBoardGame(ctx, in.BoardGameID); err != nil {
			return err
		}

		seen := make(map[string]bool, len(in.ParticipantIDs))
		for _, id := range in.ParticipantIDs {
			if seen[id] {
				return apperr.Validation("participant %s is listed more than once", id)
			}
			seen[id] = true
		}
		if len(in.ParticipantIDs) < minParticipants {
			return apperr.Validation("at least %d participants are required, got %d", minParticipants, len(in.ParticipantIDs))
		}

		players, err := s.store.GetPlayers(ctx, in.ParticipantIDs)
		if err != nil {
			return err
		}
		if len(players) != len(in.ParticipantIDs) {
			found := playerIndex(players)
			for _, id := range in.ParticipantIDs {
				if _, ok := found[id]; !ok {
					return apperr.NotFound("player %s not found", id)
				}
			}
		}

		date := in.Metadata.Date
		if date.IsZero() {
			date = s.now()
		}
		session = &models.GameSession{
			ID:             uuid.NewString(),
			Date:           date,
			Location:       strings.TrimSpace(in.Metadata.Location),
			Notes:          strings.TrimSpace(in.Metadata.Notes),
			Status:         status,
			BoardGameID:    in.BoardGameID,
			ParticipantIDs: append([]string{}, in.ParticipantIDs...),
			CreatedAt:      s.now(),
		}
		return s.store.CreateSession(ctx, session)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("🆕 session created", "session_id", session.ID, "status", session.Status, "participants", len(session.ParticipantIDs))
	return session, nil
}

// Transition moves a session along the status table. Completing a Playing
// session here records no winner; Complete is the path that declares one.
func (s *SessionService) Transition(ctx context.Context, sessionID string, target models.SessionStatus) (*models.GameSession, error) {
	var updated *models.GameSession
	err := s.store.RunInTx(ctx, func(ctx context.Context) error {
		session, err := s.store.GetSession(ctx, sessionID)
		if err != nil {
			return err
		}
		if !CanTransition(session.Status, target) {
			return apperr.InvalidTransition("session %s cannot move from %s to %s", sessionID, session.Status, target)
		}
		if target == models.SessionBetting && len(session.ParticipantIDs) < MinBettingParticipants {
			return apperr.InvalidTransition("session %s needs at least %d participants to start betting, has %d",
				sessionID, MinBettingParticipants, len(session.ParticipantIDs))
		}

		from := []models.SessionStatus{session.Status}
		if target == models.SessionCompleted {
			completedAt := s.now()
			ok, err := s.store.CloseSession(ctx, sessionID, completedAt, from)
			if err != nil {
				return err
			}
			if !ok {
				return apperr.Conflict("session %s changed status concurrently", sessionID)
			}
			session.Status = target
			session.CompletedAt = &completedAt
			updated = session
			// no winner, so this leaves stats untouched
			return s.stats.Update(ctx, sessionID)
		}

		ok, err := s.store.CompareAndSetStatus(ctx, sessionID, from, target)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.Conflict("session %s changed status concurrently", sessionID)
		}
		session.Status = target
		updated = session
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("🔀 session transitioned", "session_id", sessionID, "status", target)
	return updated, nil
}

func (s *SessionService) StartBetting(ctx context.Context, sessionID string) (*models.GameSession, error) {
	return s.Transition(ctx, sessionID, models.SessionBetting)
}

// StartPlaying closes betting. It reports whether every participant had bet.
func (s *SessionService) StartPlaying(ctx context.Context, sessionID string) (bool, error) {
	if _, err := s.Transition(ctx, sessionID, models.SessionPlaying); err != nil {
		return false, err
	}
	return s.ledger.AllPlayersHaveBet(ctx, sessionID)
}

func (s *SessionService) Cancel(ctx context.Context, sessionID string) (*models.GameSession, error) {
	return s.Transition(ctx, sessionID, models.SessionCancelled)
}

// BetResolution is one scored prediction in a completion result.
type BetResolution struct {
	BetID               string `json:"bet_id"`
	BettorID            string `json:"bettor_id"`
	BettorName          string `json:"bettor_name"`
	PredictedWinnerID   string `json:"predicted_winner_id"`
	PredictedWinnerName string `json:"predicted_winner_name"`
	IsCorrect           bool   `json:"is_correct"`
	PointsEarned        int    `json:"points_earned"`
}

type CompletionResult struct {
	Session             models.GameSession   `json:"session"`
	Winner              models.PlayerSummary `json:"winner"`
	Predictions         []models.Prediction  `json:"predictions"`
	BetResolutions      []BetResolution      `json:"bet_resolutions"`
	TotalPointsAwarded  int                  `json:"total_points_awarded"`
	TotalPointsDeducted int                  `json:"total_points_deducted"`
}

// Complete declares the winner: predictions are resolved, the session is
// finalized and stats are aggregated, all or nothing.
func (s *SessionService) Complete(ctx context.Context, sessionID, winnerID string) (*CompletionResult, error) {
	var result *CompletionResult
	err := s.store.RunInTx(ctx, func(ctx context.Context) error {
		session, err := s.store.GetSession(ctx, sessionID)
		if err != nil {
			return err
		}
		if !isCompletable(session.Status) {
			return apperr.Validation("session %s is %s; only Betting or Playing sessions can be completed", sessionID, session.Status)
		}
		if !session.HasParticipant(winnerID) {
			return apperr.Validation("winner %s is not a participant of session %s", winnerID, sessionID)
		}

		resolved, err := s.ledger.Resolve(ctx, sessionID, winnerID)
		if err != nil {
			return err
		}

		completedAt := s.now()
		ok, err := s.store.FinalizeSession(ctx, sessionID, winnerID, completedAt, completableStatuses)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.Conflict("session %s was completed concurrently", sessionID)
		}
		session.Status = models.SessionCompleted
		session.WinnerID = &winnerID
		session.CompletedAt = &completedAt

		if err := s.stats.Update(ctx, sessionID); err != nil {
			return err
		}

		players, err := s.store.GetPlayers(ctx, session.ParticipantIDs)
		if err != nil {
			return err
		}
		result = buildCompletionResult(session, resolved, playerIndex(players))
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("🏆 session completed", "session_id", sessionID, "winner_id", winnerID,
		"bets", len(result.BetResolutions), "awarded", result.TotalPointsAwarded, "deducted", result.TotalPointsDeducted)
	return result, nil
}

func buildCompletionResult(session *models.GameSession, resolved []models.Prediction, players map[string]models.Player) *CompletionResult {
	result := &CompletionResult{
		Session:        *session,
		Winner:         players[*session.WinnerID].Summary(),
		Predictions:    resolved,
		BetResolutions: make([]BetResolution, 0, len(resolved)),
	}
	for _, p := range resolved {
		result.BetResolutions = append(result.BetResolutions, BetResolution{
			BetID:               p.ID,
			BettorID:            p.BettorID,
			BettorName:          players[p.BettorID].Name,
			PredictedWinnerID:   p.PredictedWinnerID,
			PredictedWinnerName: players[p.PredictedWinnerID].Name,
			IsCorrect:           p.IsCorrect != nil && *p.IsCorrect,
			PointsEarned:        p.PointsEarned,
		})
		if p.PointsEarned > 0 {
			result.TotalPointsAwarded += p.PointsEarned
		} else if p.PointsEarned < 0 {
			result.TotalPointsDeducted += -p.PointsEarned
		}
	}
	return result
}
