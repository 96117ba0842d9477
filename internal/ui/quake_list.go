package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/dustin/go-humanize"

	"github.com/SridharX3/Earthquake-Visualizer/internal/models"
)

// quakeItem wraps an Earthquake for use in a list
type quakeItem struct {
	quake    models.Earthquake
	now      time.Time
	selected bool
}

// FilterValue implements list.Item
func (q quakeItem) FilterValue() string {
	return q.quake.Place
}

// Title implements list.DefaultItem
func (q quakeItem) Title() string {
	marker := "  "
	if q.selected {
		marker = "▶ "
	}
	return fmt.Sprintf("%sM%.1f  %s", marker, q.quake.Magnitude, q.quake.Place)
}

// Description implements list.DefaultItem
func (q quakeItem) Description() string {
	desc := fmt.Sprintf("%s • %s km deep • %s",
		humanize.RelTime(q.quake.Time, q.now, "ago", "from now"),
		q.quake.DepthLabel(),
		models.DescribeMagnitude(q.quake.Magnitude),
	)
	if q.quake.Tsunami {
		desc += " • TSUNAMI"
	}
	return desc
}

// quakeItems builds list items, marking selectedID
func quakeItems(quakes []models.Earthquake, selectedID string, now time.Time) []list.Item {
	items := make([]list.Item, len(quakes))
	for i, q := range quakes {
		items[i] = quakeItem{quake: q, now: now, selected: selectedID != "" && q.ID == selectedID}
	}
	return items
}

// createQuakeList creates a list.Model from earthquakes
func createQuakeList(quakes []models.Earthquake, selectedID string, now time.Time, width, height int) list.Model {
	l := list.New(quakeItems(quakes, selectedID, now), list.NewDefaultDelegate(), width, height)
	l.Title = fmt.Sprintf("Earthquakes (%d)", len(quakes))
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)

	return l
}

// indexOf returns the position of id in quakes or -1
func indexOf(quakes []models.Earthquake, id string) int {
	for i, q := range quakes {
		if q.ID == id {
			return i
		}
	}
	return -1
}

// presetItem wraps a saved filter for the preset picker
type presetItem struct {
	preset models.SavedFilter
}

func (p presetItem) FilterValue() string { return p.preset.Name }

func (p presetItem) Title() string { return p.preset.Name }

func (p presetItem) Description() string {
	return describeSavedFilter(p.preset)
}

func createPresetList(saved []models.SavedFilter, width, height int) list.Model {
	items := make([]list.Item, len(saved))
	for i, p := range saved {
		items[i] = presetItem{preset: p}
	}

	l := list.New(items, list.NewDefaultDelegate(), width, height)
	l.Title = "Saved Filters"
	l.SetShowHelp(true)
	l.SetFilteringEnabled(false)

	return l
}

// describeSavedFilter summarizes a preset in one line
func describeSavedFilter(p models.SavedFilter) string {
	mag := fmt.Sprintf("M%.1f-%.1f", p.Filter.MinMagnitude, p.Filter.MaxMagnitude)
	switch {
	case p.WindowDays > 0:
		return fmt.Sprintf("Last %d days • %s", p.WindowDays, mag)
	case p.Filter.FeedType == models.FeedCustom:
		return fmt.Sprintf("%s to %s • %s",
			p.Filter.StartDate.UTC().Format(models.DateLayout),
			p.Filter.EndDate.UTC().Format(models.DateLayout),
			mag)
	default:
		return fmt.Sprintf("%s • %s", p.Filter.FeedType.Label(), mag)
	}
}
