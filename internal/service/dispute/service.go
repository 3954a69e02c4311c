// Package dispute implements the dispute lifecycle engine: guarded state
// transitions, deadline computation and read-time urgency derivation.
package dispute

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/creditdispute-backend/internal/domain"
	"github.com/heartmarshall/creditdispute-backend/internal/service/dispute/lifecycle"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type disputeRepo interface {
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Dispute, error)
	List(ctx context.Context, userID uuid.UUID, filter domain.DisputeFilter) ([]*domain.Dispute, int, error)
	MarkMailed(ctx context.Context, userID, id uuid.UUID, guard domain.Guard, upd domain.MailedUpdate) (*domain.Dispute, error)
	LogResponse(ctx context.Context, userID, id uuid.UUID, guard domain.Guard, upd domain.ResponseUpdate) (*domain.Dispute, error)
	RecordOutcome(ctx context.Context, userID, id uuid.UUID, guard domain.Guard, upd domain.OutcomeUpdate) (*domain.Dispute, error)
	UpdateLetter(ctx context.Context, userID, id uuid.UUID, guard domain.Guard, content string) (*domain.Dispute, error)
	Delete(ctx context.Context, userID, id uuid.UUID, guard domain.Guard) error
}

type itemRepo interface {
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.NegativeItem, error)
}

type letterGenerator interface {
	Generate(ctx context.Context, item *domain.NegativeItem, letterType domain.LetterType, target domain.Target) (string, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the dispute lifecycle business logic.
type Service struct {
	disputes disputeRepo
	items    itemRepo
	letters  letterGenerator
	windows  lifecycle.Windows
	policy   lifecycle.Policy
	clock    clockwork.Clock
	log      *slog.Logger
}

// NewService creates a new dispute service.
func NewService(
	log *slog.Logger,
	disputes disputeRepo,
	items itemRepo,
	letters letterGenerator,
	windows lifecycle.Windows,
	policy lifecycle.Policy,
	clock clockwork.Clock,
) *Service {
	return &Service{
		disputes: disputes,
		items:    items,
		letters:  letters,
		windows:  windows,
		policy:   policy,
		clock:    clock,
		log:      log.With("service", "dispute"),
	}
}

func (s *Service) now() time.Time {
	return s.clock.Now().UTC()
}

// view decorates d with the fields derived at now.
func (s *Service) view(d *domain.Dispute, now time.Time) *domain.DisputeView {
	return &domain.DisputeView{
		Dispute:       *d,
		DisplayStatus: lifecycle.DisplayStatus(d, now),
		Urgency:       s.policy.Classify(d, now),
	}
}

// guardFor builds the compare-and-set precondition for applying action to d.
func guardFor(d *domain.Dispute, action domain.Action) domain.Guard {
	return domain.Guard{Action: action, From: lifecycle.Sources(action), Version: d.Version}
}
