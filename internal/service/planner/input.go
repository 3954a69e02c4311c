package planner

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/heartmarshall/creditdispute-backend/internal/domain"
)

// PlanInput holds a planning request. LetterType defaults to
// INITIAL_DISPUTE and is ignored by BY_ACCOUNT_TYPE. A nil Target plans
// every presence-flagged bureau (or the furnisher for furnisher letters).
type PlanInput struct {
	ItemIDs    []uuid.UUID
	Strategy   domain.StrategyKind
	LetterType domain.LetterType
	Target     *domain.Target
}

// Validate checks all fields and collects all errors. maxItems caps ItemIDs.
func (i *PlanInput) Validate(maxItems int) error {
	var errs []domain.FieldError

	if len(i.ItemIDs) == 0 {
		errs = append(errs, domain.FieldError{Field: "item_ids", Message: "required"})
	}
	if len(i.ItemIDs) > maxItems {
		errs = append(errs, domain.FieldError{Field: "item_ids", Message: fmt.Sprintf("max %d items", maxItems)})
	}
	for _, id := range i.ItemIDs {
		if id == uuid.Nil {
			errs = append(errs, domain.FieldError{Field: "item_ids", Message: "must not contain empty ids"})
			break
		}
	}
	if i.Strategy != "" && !i.Strategy.IsValid() {
		errs = append(errs, domain.FieldError{Field: "strategy", Message: "must be SINGLE, DUAL, or BY_ACCOUNT_TYPE"})
	}
	if i.LetterType != "" && !i.LetterType.IsValid() {
		errs = append(errs, domain.FieldError{Field: "letter_type", Message: "unknown letter type"})
	}
	if i.Target != nil && !i.Target.IsValid() {
		errs = append(errs, domain.FieldError{Field: "target", Message: "unknown target"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func (i *PlanInput) strategy() domain.StrategyKind {
	if i.Strategy == "" {
		return domain.StrategySingle
	}
	return i.Strategy
}

func (i *PlanInput) letterType() domain.LetterType {
	if i.LetterType == "" {
		return domain.LetterTypeInitialDispute
	}
	return i.LetterType
}

// EscalateInput holds the parameters for planning a follow-up dispute.
type EscalateInput struct {
	DisputeID uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i *EscalateInput) Validate() error {
	if i.DisputeID == uuid.Nil {
		return domain.NewValidationError("dispute_id", "required")
	}
	return nil
}
