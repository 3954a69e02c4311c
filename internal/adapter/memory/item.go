package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/heartmarshall/creditdispute-backend/internal/domain"
)

// ItemRepo is the negative item view of the store.
type ItemRepo struct{ s *Store }

// GetByID returns an item owned by userID.
func (r *ItemRepo) GetByID(_ context.Context, userID, id uuid.UUID) (*domain.NegativeItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	it, ok := r.s.items[id]
	if !ok || it.UserID != userID {
		return nil, notFound("negative_item", id)
	}
	return &it, nil
}

// GetByIDs returns the user's items among ids, in request order.
func (r *ItemRepo) GetByIDs(_ context.Context, userID uuid.UUID, ids []uuid.UUID) ([]*domain.NegativeItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.NegativeItem, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		it, ok := r.s.items[id]
		if !ok || it.UserID != userID || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, &it)
	}
	return out, nil
}

// ListByUser returns all items of the user, oldest first.
func (r *ItemRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*domain.NegativeItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.NegativeItem, 0)
	for _, it := range r.s.items {
		if it.UserID == userID {
			out = append(out, &it)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

// CreateBatch inserts items. The batch is rejected as a whole on a duplicate id.
func (r *ItemRepo) CreateBatch(_ context.Context, items []*domain.NegativeItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, it := range items {
		if _, ok := r.s.items[it.ID]; ok {
			return alreadyExists("negative_item", it.ID)
		}
	}
	for _, it := range items {
		r.s.items[it.ID] = *it
	}
	return nil
}

// DetachReport removes the report's items that no dispute references and
// clears report_id on the rest.
func (r *ItemRepo) DetachReport(_ context.Context, userID, reportID uuid.UUID) (deleted, retained int, err error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	referenced := make(map[uuid.UUID]bool)
	for _, d := range r.s.disputes {
		referenced[d.NegativeItemID] = true
	}

	for id, it := range r.s.items {
		if it.UserID != userID || it.ReportID == nil || *it.ReportID != reportID {
			continue
		}
		if referenced[id] {
			it.ReportID = nil
			r.s.items[id] = it
			retained++
			continue
		}
		delete(r.s.items, id)
		deleted++
	}
	return deleted, retained, nil
}
