package apod

import (
	"fmt"
	"time"

	"github.com/mrlokans/stargazer/internal/entities"
)

// ValidateDate checks that date falls on a calendar day between the first
// archive entry and the day of now, inclusive. The day of date is read in
// its own location; today is the UTC day of now.
func ValidateDate(date, now time.Time) error {
	day := truncateDay(date)
	if day.Before(entities.EarliestDate) || day.After(today(now)) {
		return fmt.Errorf("%w: %s", ErrInvalidDate, FormatDate(date))
	}
	return nil
}

// ParseDate parses a YYYY-MM-DD string into a UTC day.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(entities.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not YYYY-MM-DD", ErrInvalidDate, s)
	}
	return t, nil
}

// FormatDate renders the calendar day of t, in t's location, the way the
// API expects it.
func FormatDate(t time.Time) string {
	return t.Format(entities.DateLayout)
}

// truncateDay keeps the calendar day of t as seen in t's location.
func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func today(now time.Time) time.Time {
	return truncateDay(now.UTC())
}
