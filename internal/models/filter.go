package models

import (
	"fmt"
	"time"
)

// FeedType selects which upstream feed a filter loads
type FeedType string

const (
	FeedAllDay          FeedType = "all_day"         // every event in the last day
	FeedSignificantDay  FeedType = "significant_day" // significant events in the last day
	FeedModeratePlusDay FeedType = "4.5_day"         // M4.5+ in the last day
	FeedCustom          FeedType = "custom"          // explicit date and magnitude range
)

// PresetFeeds lists the server-curated feeds in display order
var PresetFeeds = []FeedType{FeedAllDay, FeedSignificantDay, FeedModeratePlusDay}

// Label returns a short human label for the feed
func (f FeedType) Label() string {
	switch f {
	case FeedAllDay:
		return "All (past day)"
	case FeedSignificantDay:
		return "Significant (past day)"
	case FeedModeratePlusDay:
		return "M4.5+ (past day)"
	case FeedCustom:
		return "Custom range"
	default:
		return string(f)
	}
}

// ParseFeedType validates a feed type name
func ParseFeedType(s string) (FeedType, error) {
	switch FeedType(s) {
	case FeedAllDay, FeedSignificantDay, FeedModeratePlusDay, FeedCustom:
		return FeedType(s), nil
	}
	return "", fmt.Errorf("unknown feed type %q", s)
}

// Default filter values applied at session start
const (
	DefaultMinMagnitude = 2.5
	DefaultMaxMagnitude = 10.0
	DefaultLookbackDays = 7
)

// Filter is the complete filter configuration for one load. It is replaced
// wholesale on every change; the With* methods return modified copies.
type Filter struct {
	MinMagnitude float64
	MaxMagnitude float64
	StartDate    time.Time // only meaningful for FeedCustom
	EndDate      time.Time // only meaningful for FeedCustom
	FeedType     FeedType
}

// DefaultFilter returns the session-start filter relative to now
func DefaultFilter(now time.Time) Filter {
	return Filter{
		MinMagnitude: DefaultMinMagnitude,
		MaxMagnitude: DefaultMaxMagnitude,
		StartDate:    now.AddDate(0, 0, -DefaultLookbackDays),
		EndDate:      now,
		FeedType:     FeedAllDay,
	}
}

// WithFeed returns a copy using the given feed
func (f Filter) WithFeed(feed FeedType) Filter {
	f.FeedType = feed
	return f
}

// WithMagnitude returns a copy with new magnitude bounds
func (f Filter) WithMagnitude(min, max float64) Filter {
	f.MinMagnitude = min
	f.MaxMagnitude = max
	return f
}

// WithDateRange returns a custom-range copy covering start..end
func (f Filter) WithDateRange(start, end time.Time) Filter {
	f.StartDate = start
	f.EndDate = end
	f.FeedType = FeedCustom
	return f
}

// Equal reports whether two filters would produce the same request
func (f Filter) Equal(o Filter) bool {
	return f.FeedType == o.FeedType &&
		f.MinMagnitude == o.MinMagnitude &&
		f.MaxMagnitude == o.MaxMagnitude &&
		f.StartDate.Equal(o.StartDate) &&
		f.EndDate.Equal(o.EndDate)
}

// MagnitudePreset is a named magnitude range offered by the filter control
type MagnitudePreset struct {
	Label string
	Min   float64
	Max   float64
}

// MagnitudePresets in display order
var MagnitudePresets = []MagnitudePreset{
	{Label: "All", Min: 0, Max: 10},
	{Label: "Minor (2.5-4.4)", Min: 2.5, Max: 4.4},
	{Label: "Light (4.5-5.9)", Min: 4.5, Max: 5.9},
	{Label: "Moderate+ (6+)", Min: 6, Max: 10},
}

// Matches reports whether the filter uses exactly this preset's bounds
func (p MagnitudePreset) Matches(f Filter) bool {
	return f.MinMagnitude == p.Min && f.MaxMagnitude == p.Max
}

// WindowPreset is a relative custom range ending now
type WindowPreset struct {
	Label       string
	Description string
	Days        int
}

// WindowPresets in display order
var WindowPresets = []WindowPreset{
	{Label: "Last 24 Hours", Description: "Recent earthquakes from the past 24 hours", Days: 1},
	{Label: "Last 7 Days", Description: "Past week of activity", Days: 7},
	{Label: "Last 30 Days", Description: "Past month overview", Days: 30},
	{Label: "Last 90 Days", Description: "Quarterly perspective", Days: 90},
}

// Apply returns a custom-range copy of f covering the preset window up to now
func (p WindowPreset) Apply(f Filter, now time.Time) Filter {
	return f.WithDateRange(now.AddDate(0, 0, -p.Days), now)
}
