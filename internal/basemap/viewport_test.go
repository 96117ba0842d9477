package basemap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/twpayne/go-geom"

	"github.com/SridharX3/Earthquake-Visualizer/internal/models"
)

func TestViewport_ProjectWorld(t *testing.T) {
	v := World()

	tests := []struct {
		name   string
		c      models.Coordinates
		x, y   int
		inside bool
	}{
		{"origin", models.Coordinates{Latitude: 0, Longitude: 0}, 50, 25, true},
		{"north west corner", models.Coordinates{Latitude: 90, Longitude: -180}, 0, 0, true},
		{"south east edge", models.Coordinates{Latitude: -89.9, Longitude: 179.9}, 99, 49, true},
		{"san francisco", models.Coordinates{Latitude: 37.7, Longitude: -122}, 16, 14, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, ok := v.Project(tt.c, 100, 50)
			assert.Equal(t, tt.inside, ok)
			assert.Equal(t, tt.x, x)
			assert.Equal(t, tt.y, y)
		})
	}
}

func TestViewport_ProjectOutside(t *testing.T) {
	v := World().FocusOn(models.Coordinates{Latitude: 0, Longitude: 0}, 4)

	_, _, ok := v.Project(models.Coordinates{Latitude: 60, Longitude: 0}, 80, 40)
	assert.False(t, ok)
	_, _, ok = v.Project(models.Coordinates{Latitude: 0, Longitude: 60}, 80, 40)
	assert.False(t, ok)
}

func TestViewport_UnprojectRoundTrip(t *testing.T) {
	v := Viewport{Center: models.Coordinates{Latitude: 35, Longitude: 139}, Zoom: 8}

	c := v.Unproject(30, 12, 60, 24)
	x, y, ok := v.Project(c, 60, 24)
	assert.True(t, ok)
	assert.Equal(t, 30, x)
	assert.Equal(t, 12, y)
}

func TestViewport_AntimeridianWindow(t *testing.T) {
	v := Viewport{Center: models.Coordinates{Latitude: 0, Longitude: 175}, Zoom: 4} // 90° wide

	x, _, ok := v.Project(models.Coordinates{Latitude: 0, Longitude: -172}, 9, 4)
	assert.True(t, ok, "a point just past the antimeridian stays visible")
	assert.Equal(t, 5, x)
}

func TestViewport_PanAndZoom(t *testing.T) {
	v := World()

	z := v.ZoomBy(2)
	assert.Equal(t, 2.0, z.Zoom)
	assert.Equal(t, 1.0, v.Zoom, "receiver is unchanged")
	assert.Equal(t, MinZoom, v.ZoomBy(0.1).Zoom)
	assert.Equal(t, MaxZoom, v.ZoomBy(1000).Zoom)

	p := z.Pan(0.25, 0.1) // 180° x 90° span
	assert.InDelta(t, 45, p.Center.Longitude, 1e-9)
	assert.InDelta(t, 9, p.Center.Latitude, 1e-9)

	wrapped := Viewport{Center: models.Coordinates{Longitude: 170}, Zoom: 4}.Pan(0.5, 0)
	assert.InDelta(t, -145, wrapped.Center.Longitude, 1e-9)

	clamped := World().Pan(0, 5)
	assert.Equal(t, 90.0, clamped.Center.Latitude)
}

func TestViewport_FocusOnKeepsHigherZoom(t *testing.T) {
	c := models.Coordinates{Latitude: 10, Longitude: 20}

	assert.Equal(t, 4.0, World().FocusOn(c, 4).Zoom)
	assert.Equal(t, 16.0, Viewport{Zoom: 16}.FocusOn(c, 4).Zoom)
	assert.Equal(t, c, World().FocusOn(c, 4).Center)
}

func TestRasterize(t *testing.T) {
	// Horizontal line along the equator from 0° to 90° E
	ring := geom.NewLineStringFlat(geom.XY, []float64{0, 0, 90, 0})
	b := NewBasemap([]*geom.LineString{ring})

	grid := Rasterize(b, World(), 40, 20)

	assert.Len(t, grid, 20)
	assert.Len(t, grid[0], 40)
	for x := 20; x <= 30; x++ {
		assert.True(t, grid.At(x, 10), "cell %d on the equator", x)
	}
	assert.False(t, grid.At(10, 10))
	assert.False(t, grid.At(25, 3))
	assert.False(t, grid.At(-1, 0))
}

func TestRasterize_SkipsAntimeridianJump(t *testing.T) {
	ring := geom.NewLineStringFlat(geom.XY, []float64{179, 0, -179, 0})
	grid := Rasterize(NewBasemap([]*geom.LineString{ring}), World(), 36, 18)

	count := 0
	for _, row := range grid {
		for _, cell := range row {
			if cell {
				count++
			}
		}
	}
	assert.Zero(t, count)
}

func TestRasterize_NilAndEmpty(t *testing.T) {
	assert.Empty(t, Rasterize(nil, World(), 0, 0))
	grid := Rasterize(nil, World(), 4, 2)
	assert.Len(t, grid, 2)
	assert.False(t, grid.At(0, 0))
	assert.Empty(t, Empty().Rings)
}
