package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/SridharX3/Earthquake-Visualizer/internal/loader"
	"github.com/SridharX3/Earthquake-Visualizer/internal/models"
	"github.com/SridharX3/Earthquake-Visualizer/internal/usgs"
)

// detailHeight is the number of rows the detail box takes under the map
const detailHeight = 9

// viewProvisioning renders the initial setup screen
func (m Model) viewProvisioning() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("🌍 Earthquake Visualizer - Setup"))
	b.WriteString("\n\n")
	b.WriteString("Downloading the world map for first use. This only happens once.\n\n")
	b.WriteString(m.spinner.View() + " " + valueStyle.Render(m.provisionStatus))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("q: quit"))
	return b.String()
}

func (m Model) viewHeader() string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		titleStyle.Render("🌍 Earthquake Visualizer"),
		"  ",
		mutedStyle.Render(describeFilter(m.filter, m.windowDays)),
	)
}

// describeFilter summarizes the active filter for the header
func describeFilter(f models.Filter, windowDays int) string {
	var source string
	switch {
	case windowDays > 0:
		for _, p := range models.WindowPresets {
			if p.Days == windowDays {
				source = p.Label
			}
		}
		if source == "" {
			source = fmt.Sprintf("Last %d days", windowDays)
		}
	case f.FeedType == models.FeedCustom:
		source = fmt.Sprintf("%s → %s",
			f.StartDate.UTC().Format(models.DateLayout),
			f.EndDate.UTC().Format(models.DateLayout))
	default:
		source = f.FeedType.Label()
	}

	mag := fmt.Sprintf("M%.1f-%.1f", f.MinMagnitude, f.MaxMagnitude)
	for _, p := range models.MagnitudePresets {
		if p.Matches(f) {
			mag = p.Label
		}
	}
	if f.FeedType != models.FeedCustom {
		mag += " (feed)"
	}

	return source + " • " + mag
}

func (m Model) viewError() string {
	var b strings.Builder
	b.WriteString(errorStyle.Render("⚠ " + usgs.UserMessage(m.load.Result.Err)))
	b.WriteString("\n\n")
	b.WriteString(mutedStyle.Render("Press r to retry, or change the filter."))
	return sectionBoxStyle.Render(b.String())
}

func (m Model) viewDisplay() string {
	if len(m.quakes) == 0 {
		return sectionBoxStyle.Render(
			"No earthquakes found matching your filters.\n" +
				mutedStyle.Render("Try widening the magnitude range or the date range."))
	}

	listPane := paneStyle
	mapPane := paneStyle
	if m.focus == paneList {
		listPane = activePaneStyle
	} else {
		mapPane = activePaneStyle
	}

	mw, mh := m.mapSize()
	mapTitle := titleStyle.Render("Map")
	if m.focus == paneMap {
		mapTitle = activeTitleStyle.Render(" Map ")
	}
	mapTitle += mutedStyle.Render(fmt.Sprintf("  zoom ×%.0f", m.viewport.Zoom))

	mapView := mapTitle + "\n" + renderMap(m.basemap, m.viewport, m.quakes, m.selectedID, m.focus == paneMap, mw, mh)
	right := mapPane.Render(mapView)

	if idx := indexOf(m.quakes, m.selectedID); idx >= 0 {
		right = lipgloss.JoinVertical(lipgloss.Left, right,
			paneStyle.Width(mw+2).Render(renderDetail(m.quakes[idx], m.clock.Now())))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane.Render(m.list.View()), right)
}

// renderDetail shows every known field of q
func renderDetail(q models.Earthquake, now time.Time) string {
	var b strings.Builder
	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label+": ") + valueStyle.Render(value) + "\n")
	}

	b.WriteString(magnitudeStyle(q.Magnitude).Render(fmt.Sprintf("M%.1f %s", q.Magnitude, models.DescribeMagnitude(q.Magnitude))))
	b.WriteString("  " + valueStyle.Render(q.Place) + "\n")

	row("Time", fmt.Sprintf("%s (%s)",
		q.Time.UTC().Format("2006-01-02 15:04:05 MST"),
		humanize.RelTime(q.Time, now, "ago", "from now")))
	row("Location", fmt.Sprintf("%.3f, %.3f", q.Coordinates.Latitude, q.Coordinates.Longitude))
	row("Depth", q.DepthLabel()+" km")

	extra := []string{fmt.Sprintf("sig %d", q.Significance)}
	if alert, ok := q.Alert.Get(); ok {
		extra = append(extra, "alert "+alert)
	}
	if felt, ok := q.Felt.Get(); ok {
		extra = append(extra, humanize.Comma(int64(felt))+" felt reports")
	}
	if mmi, ok := q.MMI.Get(); ok {
		extra = append(extra, fmt.Sprintf("MMI %.1f", mmi))
	}
	row("Details", strings.Join(extra, " • "))

	if q.Tsunami {
		b.WriteString(tsunamiStyle.Render("🌊 Tsunami warning issued") + "\n")
	}
	if q.URL != "" {
		b.WriteString(mutedStyle.Render(q.URL))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) viewStatus() string {
	var status string
	switch m.state {
	case StateLoading:
		status = mutedStyle.Render("Fetching from USGS...")
	case StateError:
		status = errorStyle.Render("Load failed (" + usgs.Classify(m.load.Result.Err).String() + ")")
	case StateDisplay:
		switch n := len(m.quakes); n {
		case 0:
			status = mutedStyle.Render("No earthquakes found")
		case 1:
			status = successStyle.Render("1 earthquake loaded")
		default:
			status = successStyle.Render(humanize.Comma(int64(n)) + " earthquakes loaded")
		}
		if m.load.Result.Phase == loader.PhaseSucceeded && !m.load.StartedAt.IsZero() {
			status += mutedStyle.Render(" • updated " + humanize.RelTime(m.load.StartedAt, m.clock.Now(), "ago", "from now"))
		}
	}
	if m.notice != "" {
		status += "  " + mutedStyle.Render(m.notice)
	}
	return status
}

func (m Model) helpText() string {
	keys := "1-4: time window • f: feed • m: magnitude • c: custom dates • r: refresh"
	if m.presets != nil {
		keys += " • p: saved • s: save"
	}
	if m.focus == paneMap {
		keys += "\ntab: list • arrows: pan • +/-: zoom • 0: world • enter: nearest • esc: clear • q: quit"
	} else {
		keys += "\ntab: map • ↑/↓: move • enter: select • esc: clear • q: quit"
	}
	return keys
}
