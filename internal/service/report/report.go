package report

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/creditdispute-backend/internal/domain"
	"github.com/heartmarshall/creditdispute-backend/pkg/ctxutil"
)

// IngestReport stores a parsed report and its negative items atomically.
func (s *Service) IngestReport(ctx context.Context, input IngestReportInput) (*IngestResult, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	rep := &domain.Report{
		ID:         uuid.New(),
		UserID:     userID,
		FileName:   strings.TrimSpace(input.FileName),
		Bureau:     input.Bureau,
		UploadedAt: now,
	}

	items := make([]*domain.NegativeItem, 0, len(input.Items))
	for _, in := range input.Items {
		items = append(items, &domain.NegativeItem{
			ID:                 uuid.New(),
			UserID:             userID,
			ReportID:           &rep.ID,
			CreditorName:       strings.TrimSpace(in.CreditorName),
			OriginalCreditor:   in.OriginalCreditor,
			AccountType:        in.AccountType,
			Balance:            in.Balance,
			DateOpened:         in.DateOpened,
			AccountStatus:      in.AccountStatus,
			MonthsUntilFallOff: in.MonthsUntilFallOff,
			OnEquifax:          in.OnEquifax,
			OnExperian:         in.OnExperian,
			OnTransunion:       in.OnTransunion,
			CreatedAt:          now,
		})
	}

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.reports.Create(txCtx, rep); err != nil {
			return fmt.Errorf("create report: %w", err)
		}
		if len(items) == 0 {
			return nil
		}
		if err := s.items.CreateBatch(txCtx, items); err != nil {
			return fmt.Errorf("create items: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "report ingested",
		slog.String("user_id", userID.String()),
		slog.String("report_id", rep.ID.String()),
		slog.Int("items", len(items)),
	)

	return &IngestResult{Report: rep, Items: items}, nil
}

// DeleteReport removes a report. Items no dispute references are deleted
// with it; referenced items are kept with report_id cleared.
func (s *Service) DeleteReport(ctx context.Context, input DeleteReportInput) (*DeleteResult, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var res DeleteResult
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.reports.GetByID(txCtx, userID, input.ReportID); err != nil {
			return fmt.Errorf("get report: %w", err)
		}

		deleted, retained, err := s.items.DetachReport(txCtx, userID, input.ReportID)
		if err != nil {
			return fmt.Errorf("detach items: %w", err)
		}
		res = DeleteResult{DeletedItems: deleted, RetainedItems: retained}

		if err := s.reports.Delete(txCtx, userID, input.ReportID); err != nil {
			return fmt.Errorf("delete report: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "report deleted",
		slog.String("user_id", userID.String()),
		slog.String("report_id", input.ReportID.String()),
		slog.Int("deleted_items", res.DeletedItems),
		slog.Int("retained_items", res.RetainedItems),
	)

	return &res, nil
}

// ListItems returns every negative item of the caller, oldest first.
func (s *Service) ListItems(ctx context.Context) ([]*domain.NegativeItem, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	items, err := s.items.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}
