package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Dispute is one letter sent to one target about one negative item.
// Mutations go through the lifecycle transitions only; Version is the
// compare-and-set token for every write.
type Dispute struct {
	ID                 uuid.UUID
	UserID             uuid.UUID
	NegativeItemID     uuid.UUID
	Target             Target
	LetterType         LetterType
	LetterContent      string
	Status             DisputeStatus
	MailedAt           *time.Time
	TrackingNumber     *string
	ResponseDueDate    *time.Time
	ResponseReceivedAt *time.Time
	ResponseType       *ResponseType
	ResponseNotes      *string
	Outcome            *Outcome
	OutcomeAt          *time.Time
	DebtEliminated     decimal.Decimal
	Version            int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsOpen reports whether the dispute has not reached an outcome yet.
func (d *Dispute) IsOpen() bool {
	return !d.Status.IsTerminal()
}

// Key returns the tuple that must be unique among open disputes.
func (d *Dispute) Key() DisputeKey {
	return DisputeKey{NegativeItemID: d.NegativeItemID, Target: d.Target, LetterType: d.LetterType}
}

// DisputeKey identifies a (negative item, target, letter type) tuple.
type DisputeKey struct {
	NegativeItemID uuid.UUID
	Target         Target
	LetterType     LetterType
}

// MailedUpdate carries the fields written by the mark-mailed transition.
type MailedUpdate struct {
	MailedAt        time.Time
	TrackingNumber  *string
	ResponseDueDate time.Time
}

// ResponseUpdate carries the fields written by the log-response transition.
type ResponseUpdate struct {
	ReceivedAt   time.Time
	ResponseType ResponseType
	Notes        *string
}

// OutcomeUpdate carries the fields written by the record-outcome transition.
type OutcomeUpdate struct {
	Outcome        Outcome
	DebtEliminated decimal.Decimal
	RecordedAt     time.Time
}

// DisputeView is a dispute decorated with read-time derived fields.
type DisputeView struct {
	Dispute
	DisplayStatus DisputeStatus
	Urgency       Urgency
	Item          *NegativeItem
}

// Guard is the compare-and-set precondition of a dispute write: the stored
// status must be one of From and the stored version must equal Version.
type Guard struct {
	Action  Action
	From    []DisputeStatus
	Version int
}
