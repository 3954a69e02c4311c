package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/creditdispute-backend/internal/adapter/memory"
	"github.com/heartmarshall/creditdispute-backend/internal/adapter/postgres"
	disputerepo "github.com/heartmarshall/creditdispute-backend/internal/adapter/postgres/dispute"
	itemrepo "github.com/heartmarshall/creditdispute-backend/internal/adapter/postgres/item"
	reportrepo "github.com/heartmarshall/creditdispute-backend/internal/adapter/postgres/report"
	userrepo "github.com/heartmarshall/creditdispute-backend/internal/adapter/postgres/user"
	"github.com/heartmarshall/creditdispute-backend/internal/config"
	"github.com/heartmarshall/creditdispute-backend/internal/domain"
)

// ItemStore is the union of negative item operations used by the services.
type ItemStore interface {
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.NegativeItem, error)
	GetByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]*domain.NegativeItem, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.NegativeItem, error)
	CreateBatch(ctx context.Context, items []*domain.NegativeItem) error
	DetachReport(ctx context.Context, userID, reportID uuid.UUID) (deleted, retained int, err error)
}

// DisputeStore is the union of dispute operations used by the services.
type DisputeStore interface {
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Dispute, error)
	List(ctx context.Context, userID uuid.UUID, filter domain.DisputeFilter) ([]*domain.Dispute, int, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Dispute, error)
	ListInFlight(ctx context.Context, dueBy time.Time) ([]*domain.Dispute, error)
	OpenKeys(ctx context.Context, userID uuid.UUID, itemIDs []uuid.UUID) (map[domain.DisputeKey]bool, error)
	CreateBatch(ctx context.Context, disputes []*domain.Dispute) ([]*domain.Dispute, error)
	MarkMailed(ctx context.Context, userID, id uuid.UUID, guard domain.Guard, upd domain.MailedUpdate) (*domain.Dispute, error)
	LogResponse(ctx context.Context, userID, id uuid.UUID, guard domain.Guard, upd domain.ResponseUpdate) (*domain.Dispute, error)
	RecordOutcome(ctx context.Context, userID, id uuid.UUID, guard domain.Guard, upd domain.OutcomeUpdate) (*domain.Dispute, error)
	UpdateLetter(ctx context.Context, userID, id uuid.UUID, guard domain.Guard, content string) (*domain.Dispute, error)
	Delete(ctx context.Context, userID, id uuid.UUID, guard domain.Guard) error
}

// ReportStore is the union of report operations used by the services.
type ReportStore interface {
	Create(ctx context.Context, rep *domain.Report) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Report, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// UserStore reads display profiles.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// TxRunner runs fn in a transaction.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Storage bundles the repositories of the configured driver.
type Storage struct {
	Driver   string
	Items    ItemStore
	Disputes DisputeStore
	Reports  ReportStore
	Users    UserStore
	Tx       TxRunner
	Pinger   interface{ Ping(ctx context.Context) error }
	close    func()
}

// Close releases the underlying connections.
func (s *Storage) Close() {
	if s.close != nil {
		s.close()
	}
}

// OpenStorage connects the repositories selected by cfg.Storage.Driver.
// The memory driver keeps data for the lifetime of the process only.
func OpenStorage(ctx context.Context, cfg *config.Config, clock clockwork.Clock) (*Storage, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		store := memory.NewStore(clock)
		return &Storage{
			Driver:   config.DriverMemory,
			Items:    store.Items(),
			Disputes: store.Disputes(),
			Reports:  store.Reports(),
			Users:    store.Users(),
			Tx:       store.TxManager(),
			Pinger:   store,
		}, nil

	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		return &Storage{
			Driver:   config.DriverPostgres,
			Items:    itemrepo.New(pool),
			Disputes: disputerepo.New(pool),
			Reports:  reportrepo.New(pool),
			Users:    userrepo.New(pool),
			Tx:       postgres.NewTxManager(pool),
			Pinger:   pool,
			close:    pool.Close,
		}, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
