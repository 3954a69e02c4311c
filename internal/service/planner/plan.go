package planner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/creditdispute-backend/internal/domain"
	"github.com/heartmarshall/creditdispute-backend/pkg/ctxutil"
)

// PlanDisputes creates one DRAFT dispute per implied (item, target, letter
// type) tuple that has no open dispute yet. Rejected items and skipped tuples
// are reported in the result; they do not fail the batch. Running the same
// request twice creates nothing the second time.
func (s *Service) PlanDisputes(ctx context.Context, input PlanInput) (*PlanResult, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(s.cfg.MaxItems); err != nil {
		return nil, err
	}

	itemIDs := dedupe(input.ItemIDs)
	result := &PlanResult{Created: []*domain.Dispute{}, Skipped: []Skip{}}

	found, err := s.items.GetByIDs(ctx, userID, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	byID := make(map[uuid.UUID]*domain.NegativeItem, len(found))
	for _, it := range found {
		byID[it.ID] = it
	}

	open, err := s.disputes.OpenKeys(ctx, userID, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("get open disputes: %w", err)
	}

	type planned struct {
		key  domain.DisputeKey
		item *domain.NegativeItem
	}
	var candidates []planned

	for _, id := range itemIDs {
		item, ok := byID[id]
		switch {
		case !ok:
			result.Skipped = append(result.Skipped, Skip{NegativeItemID: id, Reason: SkipItemNotFound})
			continue
		case !item.IsDisputable():
			result.Skipped = append(result.Skipped, Skip{NegativeItemID: id, Reason: SkipNoBureauPresence})
			continue
		}

		keys := s.tuples(item, input.strategy(), input.letterType(), input.Target)
		if len(keys) == 0 {
			result.Skipped = append(result.Skipped, Skip{NegativeItemID: id, Reason: SkipNotReported})
			continue
		}
		for _, key := range keys {
			if open[key] {
				result.Skipped = append(result.Skipped, skipTuple(key, SkipAlreadyOpen))
				continue
			}
			candidates = append(candidates, planned{key: key, item: item})
		}
	}

	now := s.clock.Now().UTC()
	drafts := make([]*domain.Dispute, 0, len(candidates))
	for _, c := range candidates {
		content, err := s.letters.Generate(ctx, c.item, c.key.LetterType, c.key.Target)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, fmt.Errorf("generate letter: %w", ctxErr)
			}
			s.log.WarnContext(ctx, "letter generation failed",
				slog.String("item_id", c.key.NegativeItemID.String()),
				slog.String("target", string(c.key.Target)),
				slog.String("letter_type", string(c.key.LetterType)),
				slog.String("error", err.Error()),
			)
			result.Skipped = append(result.Skipped, skipTuple(c.key, SkipGenerationFailure))
			continue
		}
		drafts = append(drafts, newDraft(userID, c.key, content, now))
	}

	if len(drafts) > 0 {
		var created []*domain.Dispute
		err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
			var createErr error
			created, createErr = s.disputes.CreateBatch(txCtx, drafts)
			return createErr
		})
		if err != nil {
			return nil, fmt.Errorf("create disputes: %w", err)
		}

		// Tuples opened concurrently since OpenKeys are not returned.
		inserted := make(map[domain.DisputeKey]bool, len(created))
		for _, d := range created {
			inserted[d.Key()] = true
		}
		for _, d := range drafts {
			if !inserted[d.Key()] {
				result.Skipped = append(result.Skipped, skipTuple(d.Key(), SkipAlreadyOpen))
			}
		}
		result.Created = created
	}

	s.log.InfoContext(ctx, "disputes planned",
		slog.String("user_id", userID.String()),
		slog.String("strategy", string(input.strategy())),
		slog.Int("items", len(itemIDs)),
		slog.Int("created", len(result.Created)),
		slog.Int("skipped", len(result.Skipped)),
	)

	return result, nil
}

func newDraft(userID uuid.UUID, key domain.DisputeKey, content string, now time.Time) *domain.Dispute {
	return &domain.Dispute{
		ID:             uuid.New(),
		UserID:         userID,
		NegativeItemID: key.NegativeItemID,
		Target:         key.Target,
		LetterType:     key.LetterType,
		LetterContent:  content,
		Status:         domain.DisputeStatusDraft,
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func skipTuple(key domain.DisputeKey, reason SkipReason) Skip {
	target, lt := key.Target, key.LetterType
	return Skip{NegativeItemID: key.NegativeItemID, Target: &target, LetterType: &lt, Reason: reason}
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
