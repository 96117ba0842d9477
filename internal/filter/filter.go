// Package filter applies the client-side part of a filter to normalized records.
package filter

import (
	"slices"

	"github.com/SridharX3/Earthquake-Visualizer/internal/models"
)

// Apply returns the records to display for f, newest first.
// Preset feeds are cut to the inclusive magnitude range; custom feeds were
// already filtered by the server and are only sorted. The input is not modified.
func Apply(records []models.Earthquake, f models.Filter) []models.Earthquake {
	out := make([]models.Earthquake, 0, len(records))

	if f.FeedType == models.FeedCustom {
		out = append(out, records...)
	} else {
		for _, r := range records {
			if r.Magnitude >= f.MinMagnitude && r.Magnitude <= f.MaxMagnitude {
				out = append(out, r)
			}
		}
	}

	slices.SortStableFunc(out, func(a, b models.Earthquake) int {
		return b.Time.Compare(a.Time)
	})

	return out
}
