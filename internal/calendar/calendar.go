// Package calendar implements the date arithmetic used for response
// deadlines and reporting buckets. All dates are UTC midnights.
package calendar

import "time"

// Unit selects how a response window is counted.
type Unit string

const (
	UnitCalendar Unit = "calendar"
	UnitBusiness Unit = "business"
)

func (u Unit) IsValid() bool {
	return u == UnitCalendar || u == UnitBusiness
}

// DateOf truncates t to the start of its UTC day.
func DateOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// AddCalendarDays returns the date n calendar days after the date of t.
func AddCalendarDays(t time.Time, n int) time.Time {
	return DateOf(t).AddDate(0, 0, n)
}

// AddBusinessDays returns the date n business days (Mon-Fri) after the date
// of t. A start date on a weekend counts from the following Monday.
func AddBusinessDays(t time.Time, n int) time.Time {
	d := DateOf(t)
	for n > 0 {
		d = d.AddDate(0, 0, 1)
		if !IsWeekend(d) {
			n--
		}
	}
	return d
}

// Add adds n days of the given unit to the date of t.
func Add(t time.Time, n int, unit Unit) time.Time {
	if unit == UnitBusiness {
		return AddBusinessDays(t, n)
	}
	return AddCalendarDays(t, n)
}

// IsWeekend reports whether t falls on Saturday or Sunday (UTC).
func IsWeekend(t time.Time) bool {
	switch t.UTC().Weekday() {
	case time.Saturday, time.Sunday:
		return true
	}
	return false
}

// DaysBetween returns the number of calendar days from the date of from to
// the date of to. Negative when to is earlier.
func DaysBetween(from, to time.Time) int {
	return int(DateOf(to).Sub(DateOf(from)).Hours() / 24)
}

// DaysUntil returns the calendar days left until due, negative once past.
func DaysUntil(due, now time.Time) int {
	return DaysBetween(now, due)
}

// DaysSince returns the calendar days elapsed since t.
func DaysSince(t, now time.Time) int {
	return DaysBetween(t, now)
}

// MonthStart returns the first day of t's UTC month.
func MonthStart(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// TrailingMonths returns the starts of the n months ending with now's month,
// oldest first.
func TrailingMonths(now time.Time, n int) []time.Time {
	if n <= 0 {
		return []time.Time{}
	}
	current := MonthStart(now)
	months := make([]time.Time, n)
	for i := 0; i < n; i++ {
		months[i] = current.AddDate(0, i-(n-1), 0)
	}
	return months
}
