// Package planner turns a selection of negative items and a strategy into
// the draft disputes to create, skipping tuples that already have an open
// dispute.
package planner

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/creditdispute-backend/internal/domain"
	"github.com/heartmarshall/creditdispute-backend/internal/service/dispute/lifecycle"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type itemRepo interface {
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.NegativeItem, error)
	GetByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]*domain.NegativeItem, error)
}

type disputeRepo interface {
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Dispute, error)
	OpenKeys(ctx context.Context, userID uuid.UUID, itemIDs []uuid.UUID) (map[domain.DisputeKey]bool, error)
	CreateBatch(ctx context.Context, disputes []*domain.Dispute) ([]*domain.Dispute, error)
}

type letterGenerator interface {
	Generate(ctx context.Context, item *domain.NegativeItem, letterType domain.LetterType, target domain.Target) (string, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Config
// ---------------------------------------------------------------------------

// Config holds the planning tunables.
type Config struct {
	// MaxItems caps the number of items per planning request.
	MaxItems int
	// AccountLetters maps account types to letter types for BY_ACCOUNT_TYPE.
	// Unmapped types get an initial dispute.
	AccountLetters map[domain.AccountType]domain.LetterType
	// CollectionTypes get an extra debt validation letter under DUAL.
	CollectionTypes []domain.AccountType
}

// DefaultConfig returns the built-in planning configuration.
func DefaultConfig() Config {
	return Config{
		MaxItems: 100,
		AccountLetters: map[domain.AccountType]domain.LetterType{
			domain.AccountTypeCollection:  domain.LetterTypeDebtValidation,
			domain.AccountTypeMedical:     domain.LetterTypeDebtValidation,
			domain.AccountTypeLatePayment: domain.LetterTypeGoodwill,
		},
		CollectionTypes: []domain.AccountType{
			domain.AccountTypeCollection,
			domain.AccountTypeMedical,
			domain.AccountTypeChargeOff,
		},
	}
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements letter selection planning.
type Service struct {
	items    itemRepo
	disputes disputeRepo
	letters  letterGenerator
	tx       txManager
	policy   lifecycle.Policy
	clock    clockwork.Clock
	cfg      Config
	log      *slog.Logger
}

// NewService creates a new planner service.
func NewService(
	log *slog.Logger,
	items itemRepo,
	disputes disputeRepo,
	letters letterGenerator,
	tx txManager,
	policy lifecycle.Policy,
	clock clockwork.Clock,
	cfg Config,
) *Service {
	def := DefaultConfig()
	if cfg.MaxItems <= 0 {
		cfg.MaxItems = def.MaxItems
	}
	return &Service{
		items:    items,
		disputes: disputes,
		letters:  letters,
		tx:       tx,
		policy:   policy,
		clock:    clock,
		cfg:      cfg,
		log:      log.With("service", "planner"),
	}
}
