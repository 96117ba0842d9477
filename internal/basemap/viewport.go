package basemap

import (
	"math"

	"github.com/SridharX3/Earthquake-Visualizer/internal/models"
)

// Zoom limits. Zoom 1 shows the whole world.
const (
	MinZoom = 1.0
	MaxZoom = 64.0
)

// Viewport is the visible window of an equirectangular world map
type Viewport struct {
	Center models.Coordinates
	Zoom   float64
}

// World returns the viewport showing the whole map
func World() Viewport {
	return Viewport{Zoom: MinZoom}
}

// Span returns the visible longitude and latitude extent in degrees
func (v Viewport) Span() (lon, lat float64) {
	z := clamp(v.Zoom, MinZoom, MaxZoom)
	return 360 / z, 180 / z
}

// Project maps c onto a w×h cell grid. ok is false when c falls outside.
func (v Viewport) Project(c models.Coordinates, w, h int) (x, y int, ok bool) {
	fx, fy := v.project(c.Longitude, c.Latitude, w, h)
	x, y = int(math.Floor(fx)), int(math.Floor(fy))
	return x, y, x >= 0 && x < w && y >= 0 && y < h
}

// Unproject returns the coordinates at the center of cell (x, y)
func (v Viewport) Unproject(x, y, w, h int) models.Coordinates {
	lonSpan, latSpan := v.Span()
	west := v.Center.Longitude - lonSpan/2
	north := v.Center.Latitude + latSpan/2
	return models.Coordinates{
		Latitude:  north - (float64(y)+0.5)/float64(h)*latSpan,
		Longitude: west + (float64(x)+0.5)/float64(w)*lonSpan,
	}
}

// Pan moves the center by a fraction of the visible span. Positive dx moves
// east, positive dy moves north.
func (v Viewport) Pan(dx, dy float64) Viewport {
	lonSpan, latSpan := v.Span()
	v.Center.Longitude = wrapLongitude(v.Center.Longitude + dx*lonSpan)
	v.Center.Latitude = clamp(v.Center.Latitude+dy*latSpan, -90, 90)
	return v
}

// ZoomBy multiplies the zoom level, keeping it within limits
func (v Viewport) ZoomBy(factor float64) Viewport {
	v.Zoom = clamp(v.Zoom*factor, MinZoom, MaxZoom)
	return v
}

// FocusOn centers the view on c, zooming in to at least zoom
func (v Viewport) FocusOn(c models.Coordinates, zoom float64) Viewport {
	v.Center = c
	if v.Zoom < zoom {
		v.Zoom = clamp(zoom, MinZoom, MaxZoom)
	}
	return v
}

// project returns fractional cell coordinates, which may lie outside the grid
func (v Viewport) project(lon, lat float64, w, h int) (float64, float64) {
	lonSpan, latSpan := v.Span()
	west := v.Center.Longitude - lonSpan/2
	north := v.Center.Latitude + latSpan/2

	dLon := lon - west
	// Bring lon into the window when the view crosses the antimeridian
	if dLon < 0 && dLon+360 <= lonSpan {
		dLon += 360
	} else if dLon > lonSpan && dLon-360 >= 0 {
		dLon -= 360
	}

	return dLon / lonSpan * float64(w), (north - lat) / latSpan * float64(h)
}

func wrapLongitude(lon float64) float64 {
	lon = math.Mod(lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	return lon - 180
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
