package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"github.com/heartmarshall/creditdispute-backend/internal/calendar"
	"github.com/heartmarshall/creditdispute-backend/internal/domain"
)

// DefaultWindowDays is the standard bureau investigation period.
const DefaultWindowDays = 30

// Windows resolves the response window for a letter type and target.
// Override keys are "LETTER_TYPE/TARGET", "LETTER_TYPE" or "TARGET";
// the most specific key wins.
type Windows struct {
	defaultDays int
	unit        calendar.Unit
	overrides   map[string]int
}

// NewWindows validates the overrides and builds a Windows resolver.
func NewWindows(defaultDays int, unit calendar.Unit, overrides map[string]int) (Windows, error) {
	if defaultDays <= 0 {
		return Windows{}, fmt.Errorf("default window must be > 0 (got %d)", defaultDays)
	}
	if unit == "" {
		unit = calendar.UnitCalendar
	}
	if !unit.IsValid() {
		return Windows{}, fmt.Errorf("unknown window unit %q", unit)
	}

	normalized := make(map[string]int, len(overrides))
	for key, days := range overrides {
		if days <= 0 {
			return Windows{}, fmt.Errorf("window %q must be > 0 (got %d)", key, days)
		}
		k := strings.ToUpper(strings.TrimSpace(key))
		if err := validateWindowKey(k); err != nil {
			return Windows{}, err
		}
		normalized[k] = days
	}

	return Windows{defaultDays: defaultDays, unit: unit, overrides: normalized}, nil
}

// DefaultWindows returns 30 calendar days for every letter type and target.
func DefaultWindows() Windows {
	return Windows{defaultDays: DefaultWindowDays, unit: calendar.UnitCalendar, overrides: map[string]int{}}
}

func validateWindowKey(key string) error {
	letter, target, scoped := strings.Cut(key, "/")
	if scoped {
		if !domain.LetterType(letter).IsValid() || !domain.Target(target).IsValid() {
			return fmt.Errorf("invalid window key %q", key)
		}
		return nil
	}
	if !domain.LetterType(key).IsValid() && !domain.Target(key).IsValid() {
		return fmt.Errorf("invalid window key %q", key)
	}
	return nil
}

// Days returns the window length for the given letter type and target.
func (w Windows) Days(letterType domain.LetterType, target domain.Target) int {
	if d, ok := w.overrides[string(letterType)+"/"+string(target)]; ok {
		return d
	}
	if d, ok := w.overrides[string(letterType)]; ok {
		return d
	}
	if d, ok := w.overrides[string(target)]; ok {
		return d
	}
	return w.defaultDays
}

// Unit returns how window days are counted.
func (w Windows) Unit() calendar.Unit { return w.unit }

// DueDate returns mailedAt's date plus the window for the letter type and target.
func (w Windows) DueDate(mailedAt time.Time, letterType domain.LetterType, target domain.Target) time.Time {
	return calendar.Add(mailedAt, w.Days(letterType, target), w.unit)
}
