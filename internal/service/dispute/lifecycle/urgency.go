package lifecycle

import (
	"time"

	"github.com/heartmarshall/creditdispute-backend/internal/calendar"
	"github.com/heartmarshall/creditdispute-backend/internal/domain"
)

// DefaultUpcomingDays is the horizon for upcoming-deadline classification.
const DefaultUpcomingDays = 7

// DefaultEscalationResponses are the response types that warrant a follow-up letter.
var DefaultEscalationResponses = []domain.ResponseType{
	domain.ResponseTypeVerified,
	domain.ResponseTypeVerifiedNoProof,
	domain.ResponseTypeFrivolous,
	domain.ResponseTypeStallLetter,
}

// Policy holds the tunables of urgency classification.
type Policy struct {
	UpcomingDays int
	escalateOn   map[domain.ResponseType]bool

	bureauNext    domain.LetterType
	furnisherNext domain.LetterType
}

// NewPolicy builds a Policy. A non-positive horizon falls back to the default.
func NewPolicy(upcomingDays int, escalateOn []domain.ResponseType) Policy {
	if upcomingDays <= 0 {
		upcomingDays = DefaultUpcomingDays
	}
	set := make(map[domain.ResponseType]bool, len(escalateOn))
	for _, rt := range escalateOn {
		set[rt] = true
	}
	return Policy{
		UpcomingDays:  upcomingDays,
		escalateOn:    set,
		bureauNext:    domain.LetterTypeMethodOfVerification,
		furnisherNext: domain.LetterTypeIntentToSue,
	}
}

// WithEscalationLetters returns a copy of p whose first follow-up letter is
// bureau for bureau targets and furnisher for the furnisher. Empty values
// keep the current letter.
func (p Policy) WithEscalationLetters(bureau, furnisher domain.LetterType) Policy {
	if bureau != "" {
		p.bureauNext = bureau
	}
	if furnisher != "" {
		p.furnisherNext = furnisher
	}
	return p
}

// DefaultPolicy returns the 7-day horizon with the default escalation set.
func DefaultPolicy() Policy {
	return NewPolicy(DefaultUpcomingDays, DefaultEscalationResponses)
}

// Escalates reports whether a response of type rt is ready to escalate.
func (p Policy) Escalates(rt domain.ResponseType) bool {
	return p.escalateOn[rt]
}

// NextLetter returns the follow-up letter type for d, sent to the same
// target. Letters escalate along INITIAL_DISPUTE, METHOD_OF_VERIFICATION,
// INTENT_TO_SUE; furnisher letters go straight to the furnisher follow-up.
// A dispute already at the end of the chain has no follow-up.
func (p Policy) NextLetter(d *domain.Dispute) (domain.LetterType, bool) {
	next := p.furnisherNext
	if d.Target.IsBureau() {
		next = p.bureauNext
	}
	if escalationRank(next) > escalationRank(d.LetterType) {
		return next, true
	}
	if escalationRank(d.LetterType) < escalationRank(domain.LetterTypeIntentToSue) {
		return domain.LetterTypeIntentToSue, true
	}
	return "", false
}

func escalationRank(lt domain.LetterType) int {
	switch lt {
	case domain.LetterTypeMethodOfVerification:
		return 1
	case domain.LetterTypeIntentToSue:
		return 2
	}
	return 0
}

// Classify derives the urgency of d at now. It reads only stored fields and
// is the single source of overdue/upcoming/escalate decisions.
func (p Policy) Classify(d *domain.Dispute, now time.Time) domain.Urgency {
	switch {
	case d.Status.IsInFlight() && d.ResponseDueDate != nil:
		// Due dates are whole days: the due day itself is still upcoming.
		left := calendar.DaysUntil(*d.ResponseDueDate, now)
		if left < 0 {
			return domain.Urgency{Kind: domain.UrgencyOverdue, Days: -left}
		}
		if left <= p.UpcomingDays {
			return domain.Urgency{Kind: domain.UrgencyUpcoming, Days: left}
		}
	case d.Status == domain.DisputeStatusResponseReceived && d.ResponseType != nil:
		if _, ok := p.NextLetter(d); ok && p.Escalates(*d.ResponseType) {
			return domain.Urgency{Kind: domain.UrgencyEscalate}
		}
	}
	return domain.Urgency{Kind: domain.UrgencyNone}
}

// DisplayStatus maps the stored status to the one shown to users: a MAILED
// dispute reads as AWAITING_RESPONSE from the day after mailing.
func DisplayStatus(d *domain.Dispute, now time.Time) domain.DisputeStatus {
	if d.Status == domain.DisputeStatusMailed && d.MailedAt != nil && calendar.DaysSince(*d.MailedAt, now) >= 1 {
		return domain.DisputeStatusAwaitingResponse
	}
	return d.Status
}
