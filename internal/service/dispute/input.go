package dispute

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/heartmarshall/creditdispute-backend/internal/domain"
)

const (
	DefaultListLimit    = 50
	MaxListLimit        = 200
	maxTrackingNumber   = 64
	maxResponseNotes    = 4000
	maxLetterContentLen = 100_000
)

// MarkMailedInput holds the parameters for marking a dispute as mailed.
type MarkMailedInput struct {
	DisputeID      uuid.UUID
	MailedAt       time.Time
	TrackingNumber *string
}

// Validate checks all fields and collects all errors.
func (i *MarkMailedInput) Validate() error {
	var errs []domain.FieldError

	if i.DisputeID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "dispute_id", Message: "required"})
	}
	if i.MailedAt.IsZero() {
		errs = append(errs, domain.FieldError{Field: "mailed_at", Message: "required"})
	}
	if i.TrackingNumber != nil {
		tn := strings.TrimSpace(*i.TrackingNumber)
		if tn == "" || len(tn) > maxTrackingNumber {
			errs = append(errs, domain.FieldError{Field: "tracking_number", Message: "must be 1-64 characters"})
		}
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// LogResponseInput holds the parameters for logging a target's response.
type LogResponseInput struct {
	DisputeID    uuid.UUID
	ReceivedAt   time.Time
	ResponseType domain.ResponseType
	Notes        *string
}

// Validate checks all fields and collects all errors.
func (i *LogResponseInput) Validate() error {
	var errs []domain.FieldError

	if i.DisputeID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "dispute_id", Message: "required"})
	}
	if i.ReceivedAt.IsZero() {
		errs = append(errs, domain.FieldError{Field: "received_at", Message: "required"})
	}
	if !i.ResponseType.IsValid() {
		errs = append(errs, domain.FieldError{Field: "response_type", Message: "unknown response type"})
	}
	if i.Notes != nil && len(*i.Notes) > maxResponseNotes {
		errs = append(errs, domain.FieldError{Field: "notes", Message: "max 4000 characters"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// RecordOutcomeInput holds the parameters for recording a dispute outcome.
// A nil DebtEliminated records zero.
type RecordOutcomeInput struct {
	DisputeID      uuid.UUID
	Outcome        domain.Outcome
	DebtEliminated *decimal.Decimal
}

// Validate checks all fields and collects all errors.
func (i *RecordOutcomeInput) Validate() error {
	var errs []domain.FieldError

	if i.DisputeID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "dispute_id", Message: "required"})
	}
	if !i.Outcome.IsValid() {
		errs = append(errs, domain.FieldError{Field: "outcome", Message: "must be SUCCESSFUL, PARTIAL, or UNSUCCESSFUL"})
	}
	if i.DebtEliminated != nil {
		if msg := domain.CheckAmount(*i.DebtEliminated); msg != "" {
			errs = append(errs, domain.FieldError{Field: "debt_eliminated", Message: msg})
		}
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// debt returns the amount to persist.
func (i *RecordOutcomeInput) debt() decimal.Decimal {
	if i.DebtEliminated == nil {
		return decimal.Zero
	}
	return *i.DebtEliminated
}

// RegenerateLetterInput holds the parameters for replacing a letter. A nil
// Content asks the letter generator for a fresh letter.
type RegenerateLetterInput struct {
	DisputeID uuid.UUID
	Content   *string
}

// Validate checks all fields and collects all errors.
func (i *RegenerateLetterInput) Validate() error {
	var errs []domain.FieldError

	if i.DisputeID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "dispute_id", Message: "required"})
	}
	if i.Content != nil {
		if strings.TrimSpace(*i.Content) == "" {
			errs = append(errs, domain.FieldError{Field: "content", Message: "must not be blank"})
		} else if len(*i.Content) > maxLetterContentLen {
			errs = append(errs, domain.FieldError{Field: "content", Message: "too long"})
		}
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ListDisputesInput holds the filter, sort and page of a dispute listing.
type ListDisputesInput struct {
	Statuses       []domain.DisputeStatus
	Target         *domain.Target
	LetterType     *domain.LetterType
	NegativeItemID *uuid.UUID
	Urgency        *domain.UrgencyKind
	SortBy         string
	SortOrder      string
	Limit          int
	Offset         int
}

// Validate checks all fields and collects all errors.
func (i *ListDisputesInput) Validate() error {
	var errs []domain.FieldError

	for _, st := range i.Statuses {
		if !st.IsValid() {
			errs = append(errs, domain.FieldError{Field: "status", Message: "unknown status " + string(st)})
			break
		}
	}
	if i.Target != nil && !i.Target.IsValid() {
		errs = append(errs, domain.FieldError{Field: "target", Message: "unknown target"})
	}
	if i.LetterType != nil && !i.LetterType.IsValid() {
		errs = append(errs, domain.FieldError{Field: "letter_type", Message: "unknown letter type"})
	}
	if i.Urgency != nil && !i.Urgency.IsValid() {
		errs = append(errs, domain.FieldError{Field: "urgency", Message: "must be OVERDUE, UPCOMING, or READY_TO_ESCALATE"})
	}
	switch i.SortBy {
	case "", domain.DisputeSortCreatedAt, domain.DisputeSortUpdatedAt, domain.DisputeSortDueDate:
	default:
		errs = append(errs, domain.FieldError{Field: "sort_by", Message: "must be created_at, updated_at, or response_due_date"})
	}
	switch strings.ToUpper(i.SortOrder) {
	case "", domain.SortOrderASC, domain.SortOrderDESC:
	default:
		errs = append(errs, domain.FieldError{Field: "sort_order", Message: "must be ASC or DESC"})
	}
	if i.Limit < 0 || i.Limit > MaxListLimit {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be between 0 and 200"})
	}
	if i.Offset < 0 {
		errs = append(errs, domain.FieldError{Field: "offset", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// DeleteDisputeInput holds the parameters for deleting a dispute.
type DeleteDisputeInput struct {
	DisputeID uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i *DeleteDisputeInput) Validate() error {
	if i.DisputeID == uuid.Nil {
		return domain.NewValidationError("dispute_id", "required")
	}
	return nil
}
