package report

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/creditdispute-backend/internal/domain"
)

type reportRepo interface {
	Create(ctx context.Context, rep *domain.Report) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Report, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type itemRepo interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.NegativeItem, error)
	CreateBatch(ctx context.Context, items []*domain.NegativeItem) error
	DetachReport(ctx context.Context, userID, reportID uuid.UUID) (deleted, retained int, err error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service owns the write path of credit reports and their negative items.
type Service struct {
	reports reportRepo
	items   itemRepo
	tx      txManager
	clock   clockwork.Clock
	log     *slog.Logger
}

// NewService creates a report service.
func NewService(
	logger *slog.Logger,
	reports reportRepo,
	items itemRepo,
	tx txManager,
	clock clockwork.Clock,
) *Service {
	return &Service{
		reports: reports,
		items:   items,
		tx:      tx,
		clock:   clock,
		log:     logger.With("service", "report"),
	}
}
