// Package reminder sends deadline reminders for mailed disputes. It keeps no
// state: every run re-derives urgency from the stored due dates.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/creditdispute-backend/internal/calendar"
	"github.com/heartmarshall/creditdispute-backend/internal/domain"
	"github.com/heartmarshall/creditdispute-backend/internal/service/dispute/lifecycle"
)

type disputeRepo interface {
	ListInFlight(ctx context.Context, dueBy time.Time) ([]*domain.Dispute, error)
}

// Notifier delivers one reminder.
type Notifier interface {
	Notify(ctx context.Context, r Reminder) error
}

// Reminder is an overdue or upcoming response deadline.
type Reminder struct {
	UserID          uuid.UUID
	DisputeID       uuid.UUID
	NegativeItemID  uuid.UUID
	Target          domain.Target
	LetterType      domain.LetterType
	ResponseDueDate time.Time
	Urgency         domain.Urgency
}

// Result summarises a run.
type Result struct {
	Scanned int
	Sent    int
	Failed  int
}

// Service scans in-flight disputes and notifies their owners.
type Service struct {
	disputes  disputeRepo
	notifier  Notifier
	policy    lifecycle.Policy
	clock     clockwork.Clock
	lookahead int
	log       *slog.Logger
}

// NewService creates a reminder service. lookaheadDays widens the scan past
// today; the policy still decides what counts as upcoming.
func NewService(
	logger *slog.Logger,
	disputes disputeRepo,
	notifier Notifier,
	policy lifecycle.Policy,
	clock clockwork.Clock,
	lookaheadDays int,
) *Service {
	return &Service{
		disputes:  disputes,
		notifier:  notifier,
		policy:    policy,
		clock:     clock,
		lookahead: max(lookaheadDays, 0),
		log:       logger.With("service", "reminder"),
	}
}

// Run sends one reminder per overdue or upcoming dispute. A failed delivery
// is logged and counted; the run continues with the next dispute. Only a
// failure to load disputes or a cancelled context aborts the run.
func (s *Service) Run(ctx context.Context) (Result, error) {
	now := s.clock.Now().UTC()
	dueBy := calendar.AddCalendarDays(calendar.DateOf(now), s.lookahead+1)

	disputes, err := s.disputes.ListInFlight(ctx, dueBy)
	if err != nil {
		return Result{}, fmt.Errorf("list in-flight disputes: %w", err)
	}

	res := Result{Scanned: len(disputes)}
	for _, d := range disputes {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		u := s.policy.Classify(d, now)
		if u.Kind != domain.UrgencyOverdue && u.Kind != domain.UrgencyUpcoming {
			continue
		}

		r := Reminder{
			UserID:          d.UserID,
			DisputeID:       d.ID,
			NegativeItemID:  d.NegativeItemID,
			Target:          d.Target,
			LetterType:      d.LetterType,
			ResponseDueDate: *d.ResponseDueDate,
			Urgency:         u,
		}
		if err := s.notifier.Notify(ctx, r); err != nil {
			res.Failed++
			s.log.WarnContext(ctx, "reminder not delivered",
				slog.String("dispute_id", d.ID.String()),
				slog.String("error", err.Error()),
			)
			continue
		}
		res.Sent++
	}

	s.log.InfoContext(ctx, "reminders sent",
		slog.Int("scanned", res.Scanned),
		slog.Int("sent", res.Sent),
		slog.Int("failed", res.Failed),
		slog.Time("due_by", dueBy),
	)

	return res, nil
}

// LogNotifier writes reminders to a structured logger.
type LogNotifier struct {
	log *slog.Logger
}

// NewLogNotifier creates a notifier that logs each reminder at info level.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{log: logger.With("notifier", "log")}
}

func (n *LogNotifier) Notify(ctx context.Context, r Reminder) error {
	n.log.InfoContext(ctx, "dispute deadline reminder",
		slog.String("user_id", r.UserID.String()),
		slog.String("dispute_id", r.DisputeID.String()),
		slog.String("target", string(r.Target)),
		slog.String("letter_type", string(r.LetterType)),
		slog.String("urgency", string(r.Urgency.Kind)),
		slog.Int("days", r.Urgency.Days),
		slog.Time("response_due_date", r.ResponseDueDate),
	)
	return nil
}
