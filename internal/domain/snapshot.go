package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Urgency is the derived attention state of a dispute at a point in time.
// Days is days past due for OVERDUE and days remaining for UPCOMING.
type Urgency struct {
	Kind UrgencyKind
	Days int
}

// AttentionItem is one entry of an attention bucket.
type AttentionItem struct {
	DisputeID       uuid.UUID
	NegativeItemID  uuid.UUID
	CreditorName    string
	Target          Target
	LetterType      LetterType
	Status          DisputeStatus
	ResponseDueDate *time.Time
	ResponseType    *ResponseType
	Days            int
}

// MonthWins is one bucket of the monthly win histogram.
type MonthWins struct {
	Month time.Time
	Wins  int
}

// OnboardingStep is one entry of the onboarding checklist.
type OnboardingStep struct {
	Key       string
	Title     string
	Completed bool
}

// ItemCounts summarises negative items.
type ItemCounts struct {
	Total   int
	Active  int
	Deleted int
}

// DisputeCounts summarises disputes.
type DisputeCounts struct {
	Total    int
	Drafts   int
	Mailed   int
	Overdue  int
	ByStatus map[DisputeStatus]int
}

// Attention groups disputes needing user action, sorted most urgent first.
type Attention struct {
	Overdue  []AttentionItem
	Upcoming []AttentionItem
	Escalate []AttentionItem
}

// PortfolioSnapshot is the derived dashboard view of a user's disputes.
// It is recomputed per request and never persisted.
type PortfolioSnapshot struct {
	UserID               uuid.UUID
	DisplayName          string
	GeneratedAt          time.Time
	Items                ItemCounts
	Disputes             DisputeCounts
	Wins                 int
	DebtEliminated       decimal.Decimal
	SuccessRate          int
	MonthlyWins          []MonthWins
	Attention            Attention
	Onboarding           []OnboardingStep
	OnboardingCompletion int
}
