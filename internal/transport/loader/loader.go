// Package loader provides per-request DataLoaders that batch the negative
// item lookups needed to decorate dispute views. Loaders call the item
// repository directly; tenant isolation comes from the user ID filter in the
// repository query.
package loader

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/graph-gophers/dataloader/v7"

	"github.com/heartmarshall/creditdispute-backend/internal/domain"
	"github.com/heartmarshall/creditdispute-backend/pkg/ctxutil"
)

const (
	maxBatch = 100
	wait     = 2 * time.Millisecond
)

type itemRepo interface {
	GetByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]*domain.NegativeItem, error)
}

// Loaders holds the per-request DataLoader instances.
type Loaders struct {
	ItemByID *dataloader.Loader[uuid.UUID, *domain.NegativeItem]
}

// NewLoaders creates loaders backed by items. Must be called per request;
// loaders cache results for their whole lifetime.
func NewLoaders(items itemRepo) *Loaders {
	return &Loaders{
		ItemByID: dataloader.NewBatchedLoader(
			newItemBatchFn(items),
			dataloader.WithWait[uuid.UUID, *domain.NegativeItem](wait),
			dataloader.WithBatchCapacity[uuid.UUID, *domain.NegativeItem](maxBatch),
		),
	}
}

func newItemBatchFn(repo itemRepo) dataloader.BatchFunc[uuid.UUID, *domain.NegativeItem] {
	return func(ctx context.Context, keys []uuid.UUID) []*dataloader.Result[*domain.NegativeItem] {
		results := make([]*dataloader.Result[*domain.NegativeItem], len(keys))

		userID, ok := ctxutil.UserIDFromCtx(ctx)
		if !ok {
			for i := range results {
				results[i] = &dataloader.Result[*domain.NegativeItem]{Error: domain.ErrUnauthorized}
			}
			return results
		}

		items, err := repo.GetByIDs(ctx, userID, keys)
		if err != nil {
			for i := range results {
				results[i] = &dataloader.Result[*domain.NegativeItem]{Error: err}
			}
			return results
		}

		byID := make(map[uuid.UUID]*domain.NegativeItem, len(items))
		for _, it := range items {
			byID[it.ID] = it
		}
		for i, key := range keys {
			if it, ok := byID[key]; ok {
				results[i] = &dataloader.Result[*domain.NegativeItem]{Data: it}
			} else {
				results[i] = &dataloader.Result[*domain.NegativeItem]{
					Error: fmt.Errorf("negative_item %s: %w", key, domain.ErrNotFound),
				}
			}
		}
		return results
	}
}

// AttachItems sets Item on every view through the request's loader. A
// missing item leaves Item nil; any other failure is returned.
func AttachItems(ctx context.Context, views ...*domain.DisputeView) error {
	l, ok := FromContext(ctx)
	if !ok || len(views) == 0 {
		return nil
	}

	thunks := make([]dataloader.Thunk[*domain.NegativeItem], len(views))
	for i, v := range views {
		thunks[i] = l.ItemByID.Load(ctx, v.NegativeItemID)
	}
	for i, thunk := range thunks {
		item, err := thunk()
		switch {
		case errors.Is(err, domain.ErrNotFound):
			continue
		case err != nil:
			return fmt.Errorf("load item: %w", err)
		}
		views[i].Item = item
	}
	return nil
}

// ---------------------------------------------------------------------------
// Context and middleware
// ---------------------------------------------------------------------------

type loadersKey struct{}

// WithLoaders stores Loaders in the context.
func WithLoaders(ctx context.Context, l *Loaders) context.Context {
	return context.WithValue(ctx, loadersKey{}, l)
}

// FromContext retrieves Loaders from the context.
func FromContext(ctx context.Context) (*Loaders, bool) {
	l, ok := ctx.Value(loadersKey{}).(*Loaders)
	return l, ok && l != nil
}

// Middleware instantiates per-request loaders and stores them in the
// request context.
func Middleware(items itemRepo) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithLoaders(r.Context(), NewLoaders(items))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
