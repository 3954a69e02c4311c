package memory

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/creditdispute-backend/internal/domain"
)

// DisputeRepo is the dispute view of the store.
type DisputeRepo struct{ s *Store }

// GetByID returns a dispute owned by userID.
func (r *DisputeRepo) GetByID(_ context.Context, userID, id uuid.UUID) (*domain.Dispute, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	d, ok := r.s.disputes[id]
	if !ok || d.UserID != userID {
		return nil, notFound("dispute", id)
	}
	return &d, nil
}

// List returns the disputes matching filter and the total match count.
// A non-positive Limit returns every match.
func (r *DisputeRepo) List(_ context.Context, userID uuid.UUID, filter domain.DisputeFilter) ([]*domain.Dispute, int, error) {
	r.s.mu.RLock()
	matched := make([]*domain.Dispute, 0)
	for _, d := range r.s.disputes {
		if d.UserID == userID && matches(&d, filter) {
			matched = append(matched, &d)
		}
	}
	r.s.mu.RUnlock()

	sortDisputes(matched, filter.SortBy, filter.SortOrder)

	total := len(matched)
	start := min(max(filter.Offset, 0), total)
	end := total
	if filter.Limit > 0 {
		end = min(start+filter.Limit, total)
	}
	return matched[start:end], total, nil
}

// ListByUser returns every dispute of the user, oldest first.
func (r *DisputeRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Dispute, error) {
	out, _, err := r.List(ctx, userID, domain.DisputeFilter{SortBy: domain.DisputeSortCreatedAt, SortOrder: domain.SortOrderASC})
	return out, err
}

// ListInFlight returns mailed, unanswered disputes of every user due on or
// before dueBy, soonest first.
func (r *DisputeRepo) ListInFlight(_ context.Context, dueBy time.Time) ([]*domain.Dispute, error) {
	r.s.mu.RLock()
	out := make([]*domain.Dispute, 0)
	for _, d := range r.s.disputes {
		if d.Status == domain.DisputeStatusMailed && d.ResponseDueDate != nil && !d.ResponseDueDate.After(dueBy) {
			out = append(out, &d)
		}
	}
	r.s.mu.RUnlock()

	sortDisputes(out, domain.DisputeSortDueDate, domain.SortOrderASC)
	return out, nil
}

// OpenKeys returns the tuples among itemIDs that already have an open dispute.
func (r *DisputeRepo) OpenKeys(_ context.Context, userID uuid.UUID, itemIDs []uuid.UUID) (map[domain.DisputeKey]bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	keys := make(map[domain.DisputeKey]bool)
	for _, d := range r.s.disputes {
		if d.UserID == userID && d.IsOpen() && slices.Contains(itemIDs, d.NegativeItemID) {
			keys[d.Key()] = true
		}
	}
	return keys, nil
}

// CreateBatch inserts draft disputes, skipping tuples that already have an
// open dispute. Only inserted rows are returned.
func (r *DisputeRepo) CreateBatch(_ context.Context, disputes []*domain.Dispute) ([]*domain.Dispute, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	open := make(map[domain.DisputeKey]bool)
	for _, d := range r.s.disputes {
		if d.IsOpen() {
			open[d.Key()] = true
		}
	}

	created := make([]*domain.Dispute, 0, len(disputes))
	for _, in := range disputes {
		if _, ok := r.s.items[in.NegativeItemID]; !ok {
			return nil, notFound("negative_item", in.NegativeItemID)
		}
		if open[in.Key()] {
			continue
		}
		d := *in
		d.Status = domain.DisputeStatusDraft
		d.Version = 1
		d.UpdatedAt = d.CreatedAt
		r.s.disputes[d.ID] = d
		open[d.Key()] = true
		created = append(created, &d)
	}
	return created, nil
}

// MarkMailed applies the mark-mailed transition.
func (r *DisputeRepo) MarkMailed(_ context.Context, userID, id uuid.UUID, guard domain.Guard, upd domain.MailedUpdate) (*domain.Dispute, error) {
	return r.apply(userID, id, guard, func(d *domain.Dispute) {
		d.Status = domain.DisputeStatusMailed
		d.MailedAt = &upd.MailedAt
		d.TrackingNumber = upd.TrackingNumber
		d.ResponseDueDate = &upd.ResponseDueDate
	})
}

// LogResponse applies the log-response transition.
func (r *DisputeRepo) LogResponse(_ context.Context, userID, id uuid.UUID, guard domain.Guard, upd domain.ResponseUpdate) (*domain.Dispute, error) {
	return r.apply(userID, id, guard, func(d *domain.Dispute) {
		d.Status = domain.DisputeStatusResponseReceived
		d.ResponseReceivedAt = &upd.ReceivedAt
		d.ResponseType = &upd.ResponseType
		d.ResponseNotes = upd.Notes
	})
}

// RecordOutcome applies the record-outcome transition.
func (r *DisputeRepo) RecordOutcome(_ context.Context, userID, id uuid.UUID, guard domain.Guard, upd domain.OutcomeUpdate) (*domain.Dispute, error) {
	return r.apply(userID, id, guard, func(d *domain.Dispute) {
		d.Status = upd.Outcome.Status()
		d.Outcome = &upd.Outcome
		d.OutcomeAt = &upd.RecordedAt
		d.DebtEliminated = upd.DebtEliminated
	})
}

// UpdateLetter replaces the letter content.
func (r *DisputeRepo) UpdateLetter(_ context.Context, userID, id uuid.UUID, guard domain.Guard, content string) (*domain.Dispute, error) {
	return r.apply(userID, id, guard, func(d *domain.Dispute) {
		d.LetterContent = content
	})
}

// Delete hard-deletes the dispute if the guard still holds.
func (r *DisputeRepo) Delete(_ context.Context, userID, id uuid.UUID, guard domain.Guard) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	d, err := r.checkLocked(userID, id, guard)
	if err != nil {
		return err
	}
	delete(r.s.disputes, d.ID)
	return nil
}

func (r *DisputeRepo) apply(userID, id uuid.UUID, guard domain.Guard, mutate func(*domain.Dispute)) (*domain.Dispute, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	d, err := r.checkLocked(userID, id, guard)
	if err != nil {
		return nil, err
	}
	mutate(&d)
	d.Version++
	d.UpdatedAt = r.s.clock.Now().UTC()
	r.s.disputes[id] = d
	return &d, nil
}

// checkLocked verifies guard against the stored dispute. A dispute missing
// at write time was deleted after the caller read it.
func (r *DisputeRepo) checkLocked(userID, id uuid.UUID, guard domain.Guard) (domain.Dispute, error) {
	d, ok := r.s.disputes[id]
	if !ok {
		return domain.Dispute{}, domain.NewDeletedTransitionError(id, guard.Action)
	}
	if d.UserID != userID {
		return domain.Dispute{}, notFound("dispute", id)
	}
	if !slices.Contains(guard.From, d.Status) || d.Version != guard.Version {
		return domain.Dispute{}, domain.NewTransitionError(id, d.Status, guard.Action)
	}
	return d, nil
}

// ---------------------------------------------------------------------------
// Filtering and ordering
// ---------------------------------------------------------------------------

func matches(d *domain.Dispute, f domain.DisputeFilter) bool {
	if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, d.Status) {
		return false
	}
	if f.Target != nil && d.Target != *f.Target {
		return false
	}
	if f.LetterType != nil && d.LetterType != *f.LetterType {
		return false
	}
	if f.NegativeItemID != nil && d.NegativeItemID != *f.NegativeItemID {
		return false
	}
	return true
}

func sortDisputes(ds []*domain.Dispute, sortBy, order string) {
	desc := order != domain.SortOrderASC
	sort.SliceStable(ds, func(i, j int) bool {
		a, b := ds[i], ds[j]
		var ta, tb *time.Time
		switch sortBy {
		case domain.DisputeSortUpdatedAt:
			ta, tb = &a.UpdatedAt, &b.UpdatedAt
		case domain.DisputeSortDueDate:
			ta, tb = a.ResponseDueDate, b.ResponseDueDate
		default:
			ta, tb = &a.CreatedAt, &b.CreatedAt
		}
		switch {
		case ta == nil && tb == nil:
		case ta == nil:
			return false
		case tb == nil:
			return true
		case !ta.Equal(*tb):
			if desc {
				return ta.After(*tb)
			}
			return ta.Before(*tb)
		}
		return a.ID.String() < b.ID.String()
	})
}
