// Package memory is an in-process store with the same contracts as the
// PostgreSQL adapter, including the guarded dispute writes. It backs local
// development (storage.driver=memory) and concurrency tests.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/creditdispute-backend/internal/domain"
)

// Store holds all entities behind one RWMutex.
type Store struct {
	mu       sync.RWMutex
	clock    clockwork.Clock
	users    map[uuid.UUID]domain.User
	reports  map[uuid.UUID]domain.Report
	items    map[uuid.UUID]domain.NegativeItem
	disputes map[uuid.UUID]domain.Dispute
}

// NewStore creates an empty store. clock stamps updated_at.
func NewStore(clock clockwork.Clock) *Store {
	return &Store{
		clock:    clock,
		users:    map[uuid.UUID]domain.User{},
		reports:  map[uuid.UUID]domain.Report{},
		items:    map[uuid.UUID]domain.NegativeItem{},
		disputes: map[uuid.UUID]domain.Dispute{},
	}
}

// Ping satisfies the health check. The store is always reachable.
func (s *Store) Ping(context.Context) error { return nil }

// Disputes returns the dispute repository view.
func (s *Store) Disputes() *DisputeRepo { return &DisputeRepo{s: s} }

// Items returns the negative item repository view.
func (s *Store) Items() *ItemRepo { return &ItemRepo{s: s} }

// Reports returns the report repository view.
func (s *Store) Reports() *ReportRepo { return &ReportRepo{s: s} }

// Users returns the user repository view.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// TxManager returns a transaction runner. Each repository call is atomic on
// its own. A failed callback restores the store to its state before the
// call; callbacks are not isolated from concurrent writers, and a rollback
// also discards their writes made in the meantime.
func (s *Store) TxManager() TxManager { return TxManager{s: s} }

// TxManager satisfies the services' txManager interface.
type TxManager struct{ s *Store }

// RunInTx calls fn with ctx and rolls the store back if fn fails.
func (m TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	snap := m.s.snapshot()
	if err := fn(ctx); err != nil {
		m.s.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	users    map[uuid.UUID]domain.User
	reports  map[uuid.UUID]domain.Report
	items    map[uuid.UUID]domain.NegativeItem
	disputes map[uuid.UUID]domain.Dispute
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		users:    maps.Clone(s.users),
		reports:  maps.Clone(s.reports),
		items:    maps.Clone(s.items),
		disputes: maps.Clone(s.disputes),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users, s.reports, s.items, s.disputes = snap.users, snap.reports, snap.items, snap.disputes
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

// UserRepo is the user profile view of the store.
type UserRepo struct{ s *Store }

// Put inserts or replaces a profile.
func (r *UserRepo) Put(u domain.User) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users[u.ID] = u
}

// GetByID returns a profile by id.
func (r *UserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, notFound("user", id)
	}
	return &u, nil
}

// ---------------------------------------------------------------------------
// Reports
// ---------------------------------------------------------------------------

// ReportRepo is the credit report view of the store.
type ReportRepo struct{ s *Store }

// Create inserts a report.
func (r *ReportRepo) Create(_ context.Context, rep *domain.Report) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.reports[rep.ID]; ok {
		return alreadyExists("credit_report", rep.ID)
	}
	r.s.reports[rep.ID] = *rep
	return nil
}

// GetByID returns a report owned by userID.
func (r *ReportRepo) GetByID(_ context.Context, userID, id uuid.UUID) (*domain.Report, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rep, ok := r.s.reports[id]
	if !ok || rep.UserID != userID {
		return nil, notFound("credit_report", id)
	}
	return &rep, nil
}

// CountByUser returns how many reports the user has uploaded.
func (r *ReportRepo) CountByUser(_ context.Context, userID uuid.UUID) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := 0
	for _, rep := range r.s.reports {
		if rep.UserID == userID {
			n++
		}
	}
	return n, nil
}

// Delete removes a report and clears report_id on items still pointing at it.
func (r *ReportRepo) Delete(_ context.Context, userID, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rep, ok := r.s.reports[id]
	if !ok || rep.UserID != userID {
		return notFound("credit_report", id)
	}
	delete(r.s.reports, id)

	for itemID, it := range r.s.items {
		if it.ReportID != nil && *it.ReportID == id {
			it.ReportID = nil
			r.s.items[itemID] = it
		}
	}
	return nil
}
