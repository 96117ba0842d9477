package models

import "time"

// SavedFilter is a user-named filter configuration.
// WindowDays > 0 marks a relative window that is recomputed when the preset is loaded.
type SavedFilter struct {
	ID         int64     `json:"id"` // Database Primary Key (0 if not saved)
	Name       string    `json:"name"`
	Filter     Filter    `json:"filter"`
	WindowDays int       `json:"window_days"`
	CreatedAt  time.Time `json:"created_at"`
}

// Resolve returns the filter to load at the given moment
func (s SavedFilter) Resolve(now time.Time) Filter {
	if s.WindowDays > 0 {
		return s.Filter.WithDateRange(now.AddDate(0, 0, -s.WindowDays), now)
	}
	return s.Filter
}
