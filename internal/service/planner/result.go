package planner

import (
	"github.com/google/uuid"

	"github.com/heartmarshall/creditdispute-backend/internal/domain"
)

// SkipReason explains why a selected item or tuple produced no dispute.
type SkipReason string

const (
	SkipItemNotFound      SkipReason = "ITEM_NOT_FOUND"
	SkipNoBureauPresence  SkipReason = "NO_BUREAU_PRESENCE"
	SkipNotReported       SkipReason = "NOT_REPORTED_BY_TARGET"
	SkipAlreadyOpen       SkipReason = "ALREADY_OPEN"
	SkipGenerationFailure SkipReason = "GENERATION_FAILED"
)

// Err returns the error kind matching the reason. Item reference problems
// map to domain.ErrInvalidItemReference.
func (r SkipReason) Err() error {
	switch r {
	case SkipItemNotFound, SkipNoBureauPresence, SkipNotReported:
		return domain.ErrInvalidItemReference
	case SkipAlreadyOpen:
		return domain.ErrConflict
	}
	return nil
}

// Skip is one excluded item or tuple. Target and LetterType are nil when the
// whole item was rejected.
type Skip struct {
	NegativeItemID uuid.UUID
	Target         *domain.Target
	LetterType     *domain.LetterType
	Reason         SkipReason
}

// PlanResult reports a partially successful planning batch.
type PlanResult struct {
	Created []*domain.Dispute
	Skipped []Skip
}
