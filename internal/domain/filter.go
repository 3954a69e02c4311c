package domain

import "github.com/google/uuid"

// DisputeFilter contains filtering/sorting/pagination parameters for dispute listings.
type DisputeFilter struct {
	Statuses       []DisputeStatus
	Target         *Target
	LetterType     *LetterType
	NegativeItemID *uuid.UUID
	// Urgency is derived at read time and applied after loading.
	Urgency   *UrgencyKind
	SortBy    string
	SortOrder string
	Limit     int
	Offset    int
}

const (
	DisputeSortCreatedAt = "created_at"
	DisputeSortUpdatedAt = "updated_at"
	DisputeSortDueDate   = "response_due_date"

	SortOrderASC  = "ASC"
	SortOrderDESC = "DESC"
)
