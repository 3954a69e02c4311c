package dispute

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/creditdispute-backend/internal/domain"
	"github.com/heartmarshall/creditdispute-backend/pkg/ctxutil"
)

// GetDispute returns one dispute of the current user with its derived fields.
func (s *Service) GetDispute(ctx context.Context, id uuid.UUID) (*domain.DisputeView, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if id == uuid.Nil {
		return nil, domain.NewValidationError("dispute_id", "required")
	}

	d, err := s.disputes.GetByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("get dispute: %w", err)
	}
	return s.view(d, s.now()), nil
}

// ListDisputes returns one page of the current user's disputes.
//
// Stored and derived criteria are handled differently: status, target,
// letter type and item filters as well as paging run in the store, while
// urgency and the MAILED/AWAITING_RESPONSE split depend on the current time
// and are applied after loading every stored match.
func (s *Service) ListDisputes(ctx context.Context, input ListDisputesInput) (*ListResult, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit == 0 {
		limit = DefaultListLimit
	}

	statuses, displayFilter := storedStatuses(input.Statuses)
	if input.Urgency != nil {
		statuses = narrowForUrgency(statuses, *input.Urgency)
		if len(statuses) == 0 {
			return &ListResult{Disputes: []*domain.DisputeView{}}, nil
		}
	}

	filter := domain.DisputeFilter{
		Statuses:       statuses,
		Target:         input.Target,
		LetterType:     input.LetterType,
		NegativeItemID: input.NegativeItemID,
		Urgency:        input.Urgency,
		SortBy:         input.SortBy,
		SortOrder:      strings.ToUpper(input.SortOrder),
		Limit:          limit,
		Offset:         input.Offset,
	}
	if filter.SortBy == "" {
		filter.SortBy = domain.DisputeSortCreatedAt
	}
	if filter.SortOrder == "" {
		filter.SortOrder = domain.SortOrderDESC
	}

	now := s.now()
	derived := input.Urgency != nil || displayFilter != nil
	if !derived {
		rows, total, err := s.disputes.List(ctx, userID, filter)
		if err != nil {
			return nil, fmt.Errorf("list disputes: %w", err)
		}
		out := make([]*domain.DisputeView, 0, len(rows))
		for _, d := range rows {
			out = append(out, s.view(d, now))
		}
		return &ListResult{Disputes: out, Total: total}, nil
	}

	filter.Limit, filter.Offset = 0, 0
	rows, _, err := s.disputes.List(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("list disputes: %w", err)
	}

	matched := make([]*domain.DisputeView, 0, len(rows))
	for _, d := range rows {
		v := s.view(d, now)
		if input.Urgency != nil && v.Urgency.Kind != *input.Urgency {
			continue
		}
		if displayFilter != nil && !displayFilter[v.DisplayStatus] {
			continue
		}
		matched = append(matched, v)
	}

	total := len(matched)
	start := min(input.Offset, total)
	end := min(start+limit, total)
	return &ListResult{Disputes: matched[start:end], Total: total}, nil
}

// storedStatuses maps requested display statuses onto persisted ones.
// AWAITING_RESPONSE is stored as MAILED; when only one of the two is
// requested, the returned set filters on display status after loading.
func storedStatuses(requested []domain.DisputeStatus) ([]domain.DisputeStatus, map[domain.DisputeStatus]bool) {
	if len(requested) == 0 {
		return nil, nil
	}

	wantMailed := slices.Contains(requested, domain.DisputeStatusMailed)
	wantAwaiting := slices.Contains(requested, domain.DisputeStatusAwaitingResponse)

	stored := make([]domain.DisputeStatus, 0, len(requested))
	for _, st := range requested {
		if st == domain.DisputeStatusAwaitingResponse {
			st = domain.DisputeStatusMailed
		}
		if !slices.Contains(stored, st) {
			stored = append(stored, st)
		}
	}

	if wantMailed == wantAwaiting {
		return stored, nil
	}
	display := make(map[domain.DisputeStatus]bool, len(requested))
	for _, st := range requested {
		display[st] = true
	}
	return stored, display
}

// narrowForUrgency restricts statuses to those that can carry the urgency.
func narrowForUrgency(statuses []domain.DisputeStatus, kind domain.UrgencyKind) []domain.DisputeStatus {
	var possible domain.DisputeStatus
	switch kind {
	case domain.UrgencyOverdue, domain.UrgencyUpcoming:
		possible = domain.DisputeStatusMailed
	case domain.UrgencyEscalate:
		possible = domain.DisputeStatusResponseReceived
	}
	if len(statuses) == 0 || slices.Contains(statuses, possible) {
		return []domain.DisputeStatus{possible}
	}
	return nil
}
