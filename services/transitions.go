package services

import "game-night-service/models"

// MinBettingParticipants is the smallest group that may enter Betting.
const MinBettingParticipants = 2

// sessionTransitions lists every allowed (from, to) status pair.
// Completed and Cancelled have no outgoing edges.
var sessionTransitions = map[models.SessionStatus][]models.SessionStatus{
	models.SessionCreated: {models.SessionBetting, models.SessionCancelled},
	models.SessionBetting: {models.SessionPlaying, models.SessionCancelled},
	models.SessionPlaying: {models.SessionCompleted},
}

// completableStatuses are the statuses a winner may be declared from.
// Declaring from Betting skips the Playing step.
var completableStatuses = []models.SessionStatus{models.SessionBetting, models.SessionPlaying}

// CanTransition reports whether the table allows from -> to.
func CanTransition(from, to models.SessionStatus) bool {
	for _, next := range sessionTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the statuses reachable from `from` in one step.
func AllowedTransitions(from models.SessionStatus) []models.SessionStatus {
	next := sessionTransitions[from]
	out := make([]models.SessionStatus, len(next))
	copy(out, next)
	return out
}

func isCompletable(status models.SessionStatus) bool {
	for _, s := range completableStatuses {
		if s == status {
			return true
		}
	}
	return false
}
