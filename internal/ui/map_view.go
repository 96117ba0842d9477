package ui

import (
	"slices"
	"strings"

	"github.com/SridharX3/Earthquake-Visualizer/internal/basemap"
	"github.com/SridharX3/Earthquake-Visualizer/internal/models"
)

const (
	landRune      = '·'
	markerRune    = '●'
	selectedRune  = '◉'
	crosshairRune = '+'

	// focusZoom is the minimum zoom used when the map centers on a selection
	focusZoom = 4
)

// mapCell is what one character of the map shows
type mapCell struct {
	land      bool
	quake     *models.Earthquake
	selected  bool
	crosshair bool
}

// renderMap draws the land outline and earthquake markers through v.
// Larger events are drawn over smaller ones and the selected event over all.
func renderMap(b *basemap.Basemap, v basemap.Viewport, quakes []models.Earthquake, selectedID string, crosshair bool, w, h int) string {
	if w <= 0 || h <= 0 {
		return ""
	}

	grid := basemap.Rasterize(b, v, w, h)
	cells := make([][]mapCell, h)
	for y := range cells {
		cells[y] = make([]mapCell, w)
		for x := range cells[y] {
			cells[y][x].land = grid.At(x, y)
		}
	}

	ordered := make([]models.Earthquake, len(quakes))
	copy(ordered, quakes)
	slices.SortStableFunc(ordered, func(a, b models.Earthquake) int {
		as, bs := a.ID == selectedID, b.ID == selectedID
		switch {
		case as != bs:
			if as {
				return 1
			}
			return -1
		case a.Magnitude < b.Magnitude:
			return -1
		case a.Magnitude > b.Magnitude:
			return 1
		}
		return 0
	})

	for i := range ordered {
		x, y, ok := v.Project(ordered[i].Coordinates, w, h)
		if !ok {
			continue
		}
		cells[y][x].quake = &ordered[i]
		cells[y][x].selected = selectedID != "" && ordered[i].ID == selectedID
	}

	if crosshair {
		cells[h/2][w/2].crosshair = true
	}

	var sb strings.Builder
	for y, row := range cells {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for _, c := range row {
			sb.WriteString(renderCell(c))
		}
	}
	return sb.String()
}

func renderCell(c mapCell) string {
	switch {
	case c.quake != nil && c.selected:
		return selectedMarkerStyle(c.quake.Magnitude).Render(string(selectedRune))
	case c.quake != nil:
		return magnitudeStyle(c.quake.Magnitude).Render(string(markerRune))
	case c.crosshair:
		return crosshairStyle.Render(string(crosshairRune))
	case c.land:
		return landStyle.Render(string(landRune))
	default:
		return " "
	}
}

// nearestQuake returns the event closest to c by great-circle distance
func nearestQuake(quakes []models.Earthquake, c models.Coordinates) (models.Earthquake, bool) {
	if len(quakes) == 0 {
		return models.Earthquake{}, false
	}

	best := 0
	bestDist := models.HaversineKm(c, quakes[0].Coordinates)
	for i := 1; i < len(quakes); i++ {
		if d := models.HaversineKm(c, quakes[i].Coordinates); d < bestDist {
			best, bestDist = i, d
		}
	}
	return quakes[best], true
}
