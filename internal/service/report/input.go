package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/heartmarshall/creditdispute-backend/internal/domain"
)

const (
	MaxItemsPerReport = 500
	maxFileName       = 255
	maxCreditorName   = 255
	maxAccountStatus  = 100
)

// ItemInput is one negative item extracted from a report.
type ItemInput struct {
	CreditorName       string
	OriginalCreditor   *string
	AccountType        domain.AccountType
	Balance            *decimal.Decimal
	DateOpened         *time.Time
	AccountStatus      string
	MonthsUntilFallOff *int
	OnEquifax          bool
	OnExperian         bool
	OnTransunion       bool
}

// IngestReportInput holds a parsed report and its items.
type IngestReportInput struct {
	FileName string
	Bureau   *domain.Bureau
	Items    []ItemInput
}

// Validate checks all fields and collects all errors. Items without any
// bureau presence flag are accepted; they are simply never dispute targets.
func (i *IngestReportInput) Validate() error {
	var errs []domain.FieldError

	name := strings.TrimSpace(i.FileName)
	if name == "" {
		errs = append(errs, domain.FieldError{Field: "file_name", Message: "required"})
	} else if len(name) > maxFileName {
		errs = append(errs, domain.FieldError{Field: "file_name", Message: "max 255 characters"})
	}
	if i.Bureau != nil && !i.Bureau.IsValid() {
		errs = append(errs, domain.FieldError{Field: "bureau", Message: "unknown bureau"})
	}

	if len(i.Items) > MaxItemsPerReport {
		errs = append(errs, domain.FieldError{Field: "items", Message: "too many items (max 500)"})
	}
	for idx, it := range i.Items {
		errs = append(errs, it.validate(fmt.Sprintf("items[%d]", idx))...)
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func (i ItemInput) validate(prefix string) []domain.FieldError {
	var errs []domain.FieldError

	name := strings.TrimSpace(i.CreditorName)
	if name == "" {
		errs = append(errs, domain.FieldError{Field: prefix + ".creditor_name", Message: "required"})
	} else if len(name) > maxCreditorName {
		errs = append(errs, domain.FieldError{Field: prefix + ".creditor_name", Message: "max 255 characters"})
	}
	if !i.AccountType.IsValid() {
		errs = append(errs, domain.FieldError{Field: prefix + ".account_type", Message: "unknown account type"})
	}
	if i.Balance != nil {
		if msg := domain.CheckAmount(*i.Balance); msg != "" {
			errs = append(errs, domain.FieldError{Field: prefix + ".balance", Message: msg})
		}
	}
	if len(i.AccountStatus) > maxAccountStatus {
		errs = append(errs, domain.FieldError{Field: prefix + ".account_status", Message: "max 100 characters"})
	}
	if i.MonthsUntilFallOff != nil && *i.MonthsUntilFallOff < 0 {
		errs = append(errs, domain.FieldError{Field: prefix + ".months_until_fall_off", Message: "must not be negative"})
	}

	return errs
}

// DeleteReportInput identifies a report to delete.
type DeleteReportInput struct {
	ReportID uuid.UUID
}

func (i *DeleteReportInput) Validate() error {
	if i.ReportID == uuid.Nil {
		return domain.NewValidationError("report_id", "required")
	}
	return nil
}
