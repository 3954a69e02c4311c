package portfolio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/creditdispute-backend/internal/domain"
	"github.com/heartmarshall/creditdispute-backend/pkg/ctxutil"
)

// GetSnapshot returns the dashboard view of the caller's disputes. The four
// store reads run in parallel; the rest is pure computation over their
// results. A user without any data gets a zeroed snapshot, not an error.
func (s *Service) GetSnapshot(ctx context.Context, input SnapshotInput) (*domain.PortfolioSnapshot, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	limit := input.AttentionLimit
	if limit == 0 {
		limit = s.cfg.AttentionLimit
	}

	var (
		items       []*domain.NegativeItem
		disputes    []*domain.Dispute
		reportCount int
		displayName string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if items, err = s.items.ListByUser(gctx, userID); err != nil {
			return fmt.Errorf("list items: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if disputes, err = s.disputes.ListByUser(gctx, userID); err != nil {
			return fmt.Errorf("list disputes: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if reportCount, err = s.reports.CountByUser(gctx, userID); err != nil {
			return fmt.Errorf("count reports: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		user, err := s.users.GetByID(gctx, userID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return nil
		case err != nil:
			return fmt.Errorf("get user: %w", err)
		}
		displayName = user.DisplayName
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	snap := build(buildInput{
		userID:      userID,
		displayName: displayName,
		now:         now,
		items:       items,
		disputes:    disputes,
		reportCount: reportCount,
		limit:       limit,
		months:      s.cfg.TrendMonths,
		policy:      s.policy,
	})

	s.log.InfoContext(ctx, "snapshot computed",
		slog.String("user_id", userID.String()),
		slog.Int("items", snap.Items.Total),
		slog.Int("disputes", snap.Disputes.Total),
		slog.Int("overdue", snap.Disputes.Overdue),
		slog.Int("success_rate", snap.SuccessRate),
	)

	return snap, nil
}
