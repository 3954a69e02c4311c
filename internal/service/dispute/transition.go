package dispute

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/heartmarshall/creditdispute-backend/internal/calendar"
	"github.com/heartmarshall/creditdispute-backend/internal/domain"
	"github.com/heartmarshall/creditdispute-backend/internal/service/dispute/lifecycle"
	"github.com/heartmarshall/creditdispute-backend/pkg/ctxutil"
)

// MarkMailed moves a DRAFT dispute to MAILED and fixes its response due date.
func (s *Service) MarkMailed(ctx context.Context, input MarkMailedInput) (*domain.DisputeView, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	mailedAt := input.MailedAt.UTC()
	if calendar.DateOf(mailedAt).After(calendar.DateOf(now)) {
		return nil, domain.NewValidationError("mailed_at", "must not be in the future")
	}

	current, err := s.disputes.GetByID(ctx, userID, input.DisputeID)
	if err != nil {
		return nil, fmt.Errorf("get dispute: %w", err)
	}
	if err := lifecycle.Check(current, domain.ActionMarkMailed); err != nil {
		return nil, err
	}

	var tracking *string
	if input.TrackingNumber != nil {
		tn := strings.TrimSpace(*input.TrackingNumber)
		tracking = &tn
	}
	upd := domain.MailedUpdate{
		MailedAt:        mailedAt,
		TrackingNumber:  tracking,
		ResponseDueDate: s.windows.DueDate(mailedAt, current.LetterType, current.Target),
	}

	updated, err := s.disputes.MarkMailed(ctx, userID, current.ID, guardFor(current, domain.ActionMarkMailed), upd)
	if err != nil {
		return nil, fmt.Errorf("mark mailed: %w", err)
	}

	s.log.InfoContext(ctx, "dispute mailed",
		slog.String("user_id", userID.String()),
		slog.String("dispute_id", updated.ID.String()),
		slog.String("from", string(current.Status)),
		slog.String("to", string(updated.Status)),
		slog.Time("response_due_date", upd.ResponseDueDate),
	)

	return s.view(updated, now), nil
}

// LogResponse records the target's reply to a mailed dispute.
func (s *Service) LogResponse(ctx context.Context, input LogResponseInput) (*domain.DisputeView, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	receivedAt := input.ReceivedAt.UTC()
	if calendar.DateOf(receivedAt).After(calendar.DateOf(now)) {
		return nil, domain.NewValidationError("received_at", "must not be in the future")
	}

	current, err := s.disputes.GetByID(ctx, userID, input.DisputeID)
	if err != nil {
		return nil, fmt.Errorf("get dispute: %w", err)
	}
	if err := lifecycle.Check(current, domain.ActionLogResponse); err != nil {
		return nil, err
	}
	if current.MailedAt != nil && receivedAt.Before(*current.MailedAt) {
		return nil, fmt.Errorf("%w: response received %s before mailing on %s",
			domain.ErrInvalidTemporalOrder, receivedAt.Format("2006-01-02"), current.MailedAt.Format("2006-01-02"))
	}

	upd := domain.ResponseUpdate{
		ReceivedAt:   receivedAt,
		ResponseType: input.ResponseType,
		Notes:        input.Notes,
	}

	updated, err := s.disputes.LogResponse(ctx, userID, current.ID, guardFor(current, domain.ActionLogResponse), upd)
	if err != nil {
		return nil, fmt.Errorf("log response: %w", err)
	}

	s.log.InfoContext(ctx, "dispute response logged",
		slog.String("user_id", userID.String()),
		slog.String("dispute_id", updated.ID.String()),
		slog.String("from", string(lifecycle.DisplayStatus(current, now))),
		slog.String("to", string(updated.Status)),
		slog.String("response_type", string(input.ResponseType)),
	)

	return s.view(updated, now), nil
}

// RecordOutcome closes a dispute that has a logged response.
func (s *Service) RecordOutcome(ctx context.Context, input RecordOutcomeInput) (*domain.DisputeView, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	debt := input.debt()
	if input.Outcome == domain.OutcomeUnsuccessful && debt.IsPositive() {
		return nil, fmt.Errorf("%w: debt eliminated %s with outcome %s",
			domain.ErrInvalidOutcomeData, debt.String(), input.Outcome)
	}

	current, err := s.disputes.GetByID(ctx, userID, input.DisputeID)
	if err != nil {
		return nil, fmt.Errorf("get dispute: %w", err)
	}
	if err := lifecycle.Check(current, domain.ActionRecordOutcome); err != nil {
		return nil, err
	}

	now := s.now()
	upd := domain.OutcomeUpdate{
		Outcome:        input.Outcome,
		DebtEliminated: debt,
		RecordedAt:     now,
	}

	updated, err := s.disputes.RecordOutcome(ctx, userID, current.ID, guardFor(current, domain.ActionRecordOutcome), upd)
	if err != nil {
		return nil, fmt.Errorf("record outcome: %w", err)
	}

	s.log.InfoContext(ctx, "dispute outcome recorded",
		slog.String("user_id", userID.String()),
		slog.String("dispute_id", updated.ID.String()),
		slog.String("from", string(current.Status)),
		slog.String("to", string(updated.Status)),
		slog.String("debt_eliminated", debt.String()),
	)

	return s.view(updated, now), nil
}

// RegenerateLetter replaces the letter of an open dispute. Without explicit
// content the letter generator produces a new one. The status is unchanged.
func (s *Service) RegenerateLetter(ctx context.Context, input RegenerateLetterInput) (*domain.DisputeView, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	current, err := s.disputes.GetByID(ctx, userID, input.DisputeID)
	if err != nil {
		return nil, fmt.Errorf("get dispute: %w", err)
	}
	if err := lifecycle.Check(current, domain.ActionRegenerate); err != nil {
		return nil, err
	}

	var content string
	if input.Content != nil {
		content = *input.Content
	} else {
		item, err := s.items.GetByID(ctx, userID, current.NegativeItemID)
		if err != nil {
			return nil, fmt.Errorf("get item: %w", err)
		}
		content, err = s.letters.Generate(ctx, item, current.LetterType, current.Target)
		if err != nil {
			return nil, fmt.Errorf("generate letter: %w", err)
		}
	}

	updated, err := s.disputes.UpdateLetter(ctx, userID, current.ID, guardFor(current, domain.ActionRegenerate), content)
	if err != nil {
		return nil, fmt.Errorf("update letter: %w", err)
	}

	s.log.InfoContext(ctx, "dispute letter regenerated",
		slog.String("user_id", userID.String()),
		slog.String("dispute_id", updated.ID.String()),
		slog.Bool("generated", input.Content == nil),
	)

	return s.view(updated, s.now()), nil
}

// DeleteDispute hard-deletes a dispute in any status. The negative item is kept.
func (s *Service) DeleteDispute(ctx context.Context, input DeleteDisputeInput) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return err
	}

	current, err := s.disputes.GetByID(ctx, userID, input.DisputeID)
	if err != nil {
		return fmt.Errorf("get dispute: %w", err)
	}

	if err := s.disputes.Delete(ctx, userID, current.ID, guardFor(current, domain.ActionDelete)); err != nil {
		return fmt.Errorf("delete dispute: %w", err)
	}

	s.log.InfoContext(ctx, "dispute deleted",
		slog.String("user_id", userID.String()),
		slog.String("dispute_id", current.ID.String()),
		slog.String("status", string(current.Status)),
	)
	return nil
}
