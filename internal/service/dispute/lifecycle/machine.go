// Package lifecycle implements the dispute state machine, response deadline
// computation and urgency classification as pure functions.
package lifecycle

import (
	"slices"

	"github.com/heartmarshall/creditdispute-backend/internal/domain"
)

// sources lists, per action, the statuses the action may start from.
var sources = map[domain.Action][]domain.DisputeStatus{
	domain.ActionMarkMailed: {domain.DisputeStatusDraft},
	domain.ActionLogResponse: {
		domain.DisputeStatusMailed,
		domain.DisputeStatusAwaitingResponse,
	},
	domain.ActionRecordOutcome: {domain.DisputeStatusResponseReceived},
	domain.ActionRegenerate: {
		domain.DisputeStatusDraft,
		domain.DisputeStatusMailed,
		domain.DisputeStatusAwaitingResponse,
		domain.DisputeStatusResponseReceived,
	},
	domain.ActionDelete: {
		domain.DisputeStatusDraft,
		domain.DisputeStatusMailed,
		domain.DisputeStatusAwaitingResponse,
		domain.DisputeStatusResponseReceived,
		domain.DisputeStatusSuccessful,
		domain.DisputeStatusPartial,
		domain.DisputeStatusUnsuccessful,
	},
	domain.ActionEscalate: {
		domain.DisputeStatusResponseReceived,
		domain.DisputeStatusUnsuccessful,
	},
}

// Sources returns the statuses from which action is legal.
func Sources(action domain.Action) []domain.DisputeStatus {
	return slices.Clone(sources[action])
}

// Allowed reports whether action may be applied to a dispute in status from.
func Allowed(action domain.Action, from domain.DisputeStatus) bool {
	return slices.Contains(sources[action], from)
}

// Check returns a *domain.TransitionError when action is illegal for d.
func Check(d *domain.Dispute, action domain.Action) error {
	if !Allowed(action, d.Status) {
		return domain.NewTransitionError(d.ID, d.Status, action)
	}
	return nil
}

// Next returns the status a dispute moves to after action. Regenerate and
// delete keep the current status; record-outcome maps to the outcome state.
func Next(action domain.Action, from domain.DisputeStatus, outcome domain.Outcome) domain.DisputeStatus {
	switch action {
	case domain.ActionMarkMailed:
		return domain.DisputeStatusMailed
	case domain.ActionLogResponse:
		return domain.DisputeStatusResponseReceived
	case domain.ActionRecordOutcome:
		return outcome.Status()
	}
	return from
}
