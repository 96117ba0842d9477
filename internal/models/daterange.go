package models

import (
	"errors"
	"math"
	"strings"
	"time"
)

// DateLayout is the calendar date format used by the date inputs and the API
const DateLayout = "2006-01-02"

// MaxRangeDays caps the span of a custom query
const MaxRangeDays = 365

// Date range validation errors. These stay inside the filter control.
var (
	ErrEmptyDate       = errors.New("please enter a valid date")
	ErrInvalidDate     = errors.New("invalid date format")
	ErrFutureDate      = errors.New("cannot select future dates")
	ErrStartAfterEnd   = errors.New("start date cannot be after end date")
	ErrZeroLengthRange = errors.New("start and end date cannot be the same")
	ErrRangeTooLong    = errors.New("date range cannot exceed 365 days")
)

// ParseDate parses a YYYY-MM-DD calendar date as midnight UTC
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrEmptyDate
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// DaysBetween returns the absolute distance in days, rounded up
func DaysBetween(start, end time.Time) int {
	diff := end.Sub(start)
	if diff < 0 {
		diff = -diff
	}
	return int(math.Ceil(diff.Hours() / 24))
}

// ValidateDateRange checks a custom range before it is submitted
func ValidateDateRange(start, end, now time.Time) error {
	if start.After(now) || end.After(now) {
		return ErrFutureDate
	}
	if start.After(end) {
		return ErrStartAfterEnd
	}
	days := DaysBetween(start, end)
	if days == 0 {
		return ErrZeroLengthRange
	}
	if days > MaxRangeDays {
		return ErrRangeTooLong
	}
	return nil
}
