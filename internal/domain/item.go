package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Money amounts are stored as NUMERIC(14, 2).
const (
	amountScale  = 2
	amountDigits = 12
)

// maxAmount is the first value that no longer fits the integer digits.
var maxAmount = decimal.New(1, amountDigits)

// CheckAmount returns a validation message for an amount that is negative or
// does not fit the stored precision, or "" if the amount is valid.
func CheckAmount(d decimal.Decimal) string {
	switch {
	case d.IsNegative():
		return "must not be negative"
	case !d.Equal(d.Truncate(amountScale)):
		return "at most 2 decimal places"
	case d.GreaterThanOrEqual(maxAmount):
		return "must be less than 1000000000000"
	}
	return ""
}

// NegativeItem is a derogatory credit-report entry. Items are created by the
// report parser and are read-only for the dispute engine.
type NegativeItem struct {
	ID                 uuid.UUID
	UserID             uuid.UUID
	ReportID           *uuid.UUID
	CreditorName       string
	OriginalCreditor   *string
	AccountType        AccountType
	Balance            *decimal.Decimal
	DateOpened         *time.Time
	AccountStatus      string
	MonthsUntilFallOff *int
	OnEquifax          bool
	OnExperian         bool
	OnTransunion       bool
	CreatedAt          time.Time
}

// Bureaus returns the bureaus reporting the item, in canonical order.
func (i *NegativeItem) Bureaus() []Bureau {
	out := make([]Bureau, 0, 3)
	if i.OnEquifax {
		out = append(out, BureauEquifax)
	}
	if i.OnExperian {
		out = append(out, BureauExperian)
	}
	if i.OnTransunion {
		out = append(out, BureauTransUnion)
	}
	return out
}

// ReportedBy reports whether the given bureau carries the item.
func (i *NegativeItem) ReportedBy(b Bureau) bool {
	switch b {
	case BureauEquifax:
		return i.OnEquifax
	case BureauExperian:
		return i.OnExperian
	case BureauTransUnion:
		return i.OnTransunion
	}
	return false
}

// IsDisputable reports whether at least one bureau presence flag is set.
func (i *NegativeItem) IsDisputable() bool {
	return i.OnEquifax || i.OnExperian || i.OnTransunion
}

// Report is an uploaded credit report that produced negative items.
type Report struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	FileName   string
	Bureau     *Bureau
	UploadedAt time.Time
}
