package busdays

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestCountBusinessDaysSkipsWeekends(t *testing.T) {
	c := NewBrazil()
	// 2025-08-04 (Mon) .. 2025-08-10 (Sun): five weekdays, no holidays.
	assert.Equal(t, 5, c.CountBusinessDays(date("2025-08-04"), date("2025-08-10")))
}

func TestCountBusinessDaysSkipsNationalHolidays(t *testing.T) {
	c := NewBrazil()
	// 2025-09-07 is Independência do Brasil (a Sunday in 2025); use a year
	// where it falls on a weekday: 2026-09-07 is a Monday.
	got := c.CountBusinessDays(date("2026-09-07"), date("2026-09-07"))
	assert.Equal(t, 0, got, "Independence Day must not count as a business day")

	// Christmas 2025 falls on a Thursday.
	assert.Equal(t, 0, c.CountBusinessDays(date("2025-12-25"), date("2025-12-25")))
}

func TestCountBusinessDaysSingleDay(t *testing.T) {
	c := NewBrazil()
	tests := []struct {
		name string
		day  string
		want int
	}{
		{"weekday", "2025-08-05", 1},  // Tuesday
		{"saturday", "2025-08-09", 0},
		{"sunday", "2025-08-10", 0},
		{"holiday", "2025-12-25", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.CountBusinessDays(date(tt.day), date(tt.day)))
		})
	}
}

func TestCountBusinessDaysReversedRangeIsZero(t *testing.T) {
	// Reversed ranges enumerate nothing. This locks in current behavior;
	// callers validate ordering when it matters.
	c := NewBrazil()
	assert.Equal(t, 0, c.CountBusinessDays(date("2025-08-20"), date("2025-08-04")))
	assert.Equal(t, 0, c.CountBusinessDays(date("2025-12-31"), date("2025-01-01")))
}

func TestCountBusinessDaysJulyAugust2025(t *testing.T) {
	c := NewBrazil()
	// 2025-07-29 (Tue) .. 2025-08-20 (Wed): 17 weekdays, no national
	// holidays in the window.
	got := c.CountBusinessDays(date("2025-07-29"), date("2025-08-20"))
	assert.Equal(t, 17, got)
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2025-07-29")
	require.NoError(t, err)
	assert.Equal(t, date("2025-07-29"), got)

	for _, bad := range []string{"", "29/07/2025", "2025-7-29", "not-a-date", "2025-07-29T00:00:00Z"} {
		_, err := ParseDate(bad)
		require.Error(t, err, bad)
		assert.ErrorIs(t, err, ErrInvalidDate)
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "2025-07-29", FormatDate(date("2025-07-29")))
}
