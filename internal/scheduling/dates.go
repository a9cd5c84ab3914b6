// Package scheduling turns a requested start date into the list of candidate
// appointment dates offered to the user.
package scheduling

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the DD/MM/YYYY text format used in prompts and answers.
const DateLayout = "02/01/2006"

// DefaultProposalDays is how many consecutive dates are offered.
const DefaultProposalDays = 7

// ErrInvalidDateFormat is returned when the text is not a DD/MM/YYYY date.
var ErrInvalidDateFormat = errors.New("scheduling: invalid date format")

// ProposeDates returns count consecutive calendar days beginning at start,
// ascending. Existing bookings are not consulted.
func ProposeDates(start time.Time, count int) []time.Time {
	if count <= 0 {
		return nil
	}
	dates := make([]time.Time, 0, count)
	for i := 0; i < count; i++ {
		// AddDate keeps wall-clock midnight across DST changes.
		dates = append(dates, start.AddDate(0, 0, i))
	}
	return dates
}

// ParseDate parses a DD/MM/YYYY string as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return t, nil
}

// FormatDate renders t in DD/MM/YYYY.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// IsFuture reports whether d is strictly after now.
func IsFuture(d, now time.Time) bool {
	return d.After(now)
}
