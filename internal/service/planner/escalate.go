package planner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/creditdispute-backend/internal/domain"
	"github.com/heartmarshall/creditdispute-backend/internal/service/dispute/lifecycle"
	"github.com/heartmarshall/creditdispute-backend/pkg/ctxutil"
)

// PlanEscalation creates the follow-up DRAFT for a dispute that is ready to
// escalate or ended UNSUCCESSFUL. The letter type is the next one in the
// policy's escalation chain, for the same item and target. A dispute with no
// follow-up letter is an invalid transition; an open dispute for the new
// tuple yields ErrConflict.
func (s *Service) PlanEscalation(ctx context.Context, input EscalateInput) (*domain.Dispute, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	source, err := s.disputes.GetByID(ctx, userID, input.DisputeID)
	if err != nil {
		return nil, fmt.Errorf("get dispute: %w", err)
	}
	if err := lifecycle.Check(source, domain.ActionEscalate); err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	if source.Status == domain.DisputeStatusResponseReceived && s.policy.Classify(source, now).Kind != domain.UrgencyEscalate {
		return nil, fmt.Errorf("response %s does not warrant escalation: %w",
			responseLabel(source), domain.NewTransitionError(source.ID, source.Status, domain.ActionEscalate))
	}

	next, ok := s.policy.NextLetter(source)
	if !ok {
		return nil, fmt.Errorf("no follow-up after %s: %w",
			source.LetterType, domain.NewTransitionError(source.ID, source.Status, domain.ActionEscalate))
	}
	key := domain.DisputeKey{
		NegativeItemID: source.NegativeItemID,
		Target:         source.Target,
		LetterType:     next,
	}

	open, err := s.disputes.OpenKeys(ctx, userID, []uuid.UUID{key.NegativeItemID})
	if err != nil {
		return nil, fmt.Errorf("get open disputes: %w", err)
	}
	if open[key] {
		return nil, fmt.Errorf("%w: open %s dispute to %s already exists", domain.ErrConflict, key.LetterType, key.Target)
	}

	item, err := s.items.GetByID(ctx, userID, key.NegativeItemID)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	content, err := s.letters.Generate(ctx, item, key.LetterType, key.Target)
	if err != nil {
		return nil, fmt.Errorf("generate letter: %w", err)
	}

	var created []*domain.Dispute
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var createErr error
		created, createErr = s.disputes.CreateBatch(txCtx, []*domain.Dispute{newDraft(userID, key, content, now)})
		return createErr
	})
	if err != nil {
		return nil, fmt.Errorf("create dispute: %w", err)
	}
	if len(created) == 0 {
		return nil, fmt.Errorf("%w: open %s dispute to %s already exists", domain.ErrConflict, key.LetterType, key.Target)
	}

	s.log.InfoContext(ctx, "dispute escalated",
		slog.String("user_id", userID.String()),
		slog.String("source_dispute_id", source.ID.String()),
		slog.String("dispute_id", created[0].ID.String()),
		slog.String("letter_type", string(key.LetterType)),
		slog.String("target", string(key.Target)),
	)

	return created[0], nil
}

func responseLabel(d *domain.Dispute) string {
	if d.ResponseType == nil {
		return "none"
	}
	return string(*d.ResponseType)
}
