package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDateOf_TruncatesToUTCDay(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC-5", -5*3600)
	in := time.Date(2024, 1, 1, 22, 30, 0, 0, loc) // 2024-01-02 03:30 UTC

	assert.Equal(t, date(2024, 1, 2), DateOf(in))
}

func TestAddCalendarDays(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		from time.Time
		n    int
		want time.Time
	}{
		{"thirty days from new year", time.Date(2024, 1, 1, 15, 4, 0, 0, time.UTC), 30, date(2024, 1, 31)},
		{"crosses leap day", date(2024, 2, 15), 15, date(2024, 3, 1)},
		{"zero", date(2024, 6, 1), 0, date(2024, 6, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, AddCalendarDays(tt.from, tt.n))
		})
	}
}

func TestAddBusinessDays(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		from time.Time
		n    int
		want time.Time
	}{
		{"monday plus five is next monday", date(2024, 1, 1), 5, date(2024, 1, 8)},
		{"friday plus one is monday", date(2024, 1, 5), 1, date(2024, 1, 8)},
		{"saturday plus one is monday", date(2024, 1, 6), 1, date(2024, 1, 8)},
		{"zero keeps the date", date(2024, 1, 6), 0, date(2024, 1, 6)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, AddBusinessDays(tt.from, tt.n))
		})
	}
}

func TestAdd_DispatchesOnUnit(t *testing.T) {
	t.Parallel()

	assert.Equal(t, date(2024, 1, 6), Add(date(2024, 1, 5), 1, UnitCalendar))
	assert.Equal(t, date(2024, 1, 8), Add(date(2024, 1, 5), 1, UnitBusiness))
}

func TestDaysUntilAndSince(t *testing.T) {
	t.Parallel()

	due := date(2024, 1, 31)
	now := time.Date(2024, 2, 5, 18, 0, 0, 0, time.UTC)

	assert.Equal(t, -5, DaysUntil(due, now))
	assert.Equal(t, 5, DaysSince(due, now))
	assert.Equal(t, 0, DaysBetween(now, now.Add(time.Hour)))
}

func TestTrailingMonths(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	got := TrailingMonths(now, 6)

	want := []time.Time{
		date(2023, 10, 1), date(2023, 11, 1), date(2023, 12, 1),
		date(2024, 1, 1), date(2024, 2, 1), date(2024, 3, 1),
	}
	assert.Equal(t, want, got)
	assert.Empty(t, TrailingMonths(now, 0))
}
