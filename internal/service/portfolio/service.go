package portfolio

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/creditdispute-backend/internal/domain"
	"github.com/heartmarshall/creditdispute-backend/internal/service/dispute/lifecycle"
)

type itemRepo interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.NegativeItem, error)
}

type disputeRepo interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Dispute, error)
}

type reportRepo interface {
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
}

type userRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// Config holds snapshot tunables.
type Config struct {
	AttentionLimit int
	TrendMonths    int
}

// DefaultConfig returns a limit of 5 entries per attention bucket and a
// six-month win histogram.
func DefaultConfig() Config {
	return Config{AttentionLimit: 5, TrendMonths: 6}
}

// Service computes portfolio snapshots. It holds no state of its own.
type Service struct {
	items    itemRepo
	disputes disputeRepo
	reports  reportRepo
	users    userRepo
	policy   lifecycle.Policy
	clock    clockwork.Clock
	cfg      Config
	log      *slog.Logger
}

// NewService creates a portfolio service.
func NewService(
	logger *slog.Logger,
	items itemRepo,
	disputes disputeRepo,
	reports reportRepo,
	users userRepo,
	policy lifecycle.Policy,
	clock clockwork.Clock,
	cfg Config,
) *Service {
	def := DefaultConfig()
	if cfg.AttentionLimit <= 0 {
		cfg.AttentionLimit = def.AttentionLimit
	}
	if cfg.TrendMonths <= 0 {
		cfg.TrendMonths = def.TrendMonths
	}
	return &Service{
		items:    items,
		disputes: disputes,
		reports:  reports,
		users:    users,
		policy:   policy,
		clock:    clock,
		cfg:      cfg,
		log:      logger.With("service", "portfolio"),
	}
}
