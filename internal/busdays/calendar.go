// Package busdays counts business days over the Brazilian national holiday
// calendar.
package busdays

import (
	"errors"
	"fmt"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/br"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// ErrInvalidDate reports a date string that is not YYYY-MM-DD.
var ErrInvalidDate = errors.New("invalid date format")

// Calendar counts business days: weekdays that are not national holidays.
// The holiday set is pinned at construction, so results are deterministic
// for the process lifetime.
type Calendar struct {
	cal *cal.BusinessCalendar
}

// NewBrazil creates a calendar loaded with Brazilian national holidays.
func NewBrazil() *Calendar {
	c := cal.NewBusinessCalendar()
	c.AddHoliday(br.Holidays...)
	return &Calendar{cal: c}
}

// CountBusinessDays returns the number of business days in [start, end]
// inclusive. A reversed range enumerates nothing and yields 0; callers that
// care must validate ordering themselves.
func (c *Calendar) CountBusinessDays(start, end time.Time) int {
	start = truncate(start)
	end = truncate(end)
	count := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if c.cal.IsWorkday(d) {
			count++
		}
	}
	return count
}

// IsBusinessDay reports whether d is a non-holiday weekday.
func (c *Calendar) IsBusinessDay(d time.Time) bool {
	return c.cal.IsWorkday(truncate(d))
}

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q (expected YYYY-MM-DD)", ErrInvalidDate, s)
	}
	return t, nil
}

// FormatDate renders a date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
