package basemap

import "math"

// maxSegmentSteps bounds the work for one segment at high zoom
const maxSegmentSteps = 4096

// Grid marks the cells crossed by the land outline, indexed [y][x]
type Grid [][]bool

// At reports whether cell (x, y) is on the outline. Out-of-range cells are not.
func (g Grid) At(x, y int) bool {
	if y < 0 || y >= len(g) || x < 0 || x >= len(g[y]) {
		return false
	}
	return g[y][x]
}

// Rasterize draws the outline of b as seen through v onto a w×h grid
func Rasterize(b *Basemap, v Viewport, w, h int) Grid {
	if w <= 0 || h <= 0 {
		return Grid{}
	}

	grid := make(Grid, h)
	for y := range grid {
		grid[y] = make([]bool, w)
	}
	if b == nil {
		return grid
	}

	_, latSpan := v.Span()
	north := v.Center.Latitude + latSpan/2
	south := v.Center.Latitude - latSpan/2

	for _, ring := range b.Rings {
		rb := ring.Bounds()
		if rb.Max(1) < south || rb.Min(1) > north {
			continue
		}

		flat := ring.FlatCoords()
		stride := ring.Stride()
		for i := stride; i < len(flat); i += stride {
			lon0, lat0 := flat[i-stride], flat[i-stride+1]
			lon1, lat1 := flat[i], flat[i+1]
			if math.Abs(lon1-lon0) > 180 {
				continue
			}
			x0, y0 := v.project(lon0, lat0, w, h)
			x1, y1 := v.project(lon1, lat1, w, h)
			drawSegment(grid, x0, y0, x1, y1, w, h)
		}
	}

	return grid
}

func drawSegment(grid Grid, x0, y0, x1, y1 float64, w, h int) {
	fw, fh := float64(w), float64(h)

	// Both ends off the same side
	if (x0 < 0 && x1 < 0) || (x0 >= fw && x1 >= fw) ||
		(y0 < 0 && y1 < 0) || (y0 >= fh && y1 >= fh) {
		return
	}
	// The antimeridian shift put the ends on opposite edges
	if math.Abs(x1-x0) > fw {
		return
	}

	steps := int(math.Ceil(math.Max(math.Abs(x1-x0), math.Abs(y1-y0))))
	if steps > maxSegmentSteps {
		steps = maxSegmentSteps
	}

	for s := 0; s <= steps; s++ {
		x, y := int(math.Floor(x0)), int(math.Floor(y0))
		if steps > 0 {
			x = int(math.Floor(x0 + (x1-x0)*float64(s)/float64(steps)))
			y = int(math.Floor(y0 + (y1-y0)*float64(s)/float64(steps)))
		}
		if x >= 0 && x < w && y >= 0 && y < h {
			grid[y][x] = true
		}
	}
}
