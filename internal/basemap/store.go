package basemap

import (
	"errors"
	"fmt"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"

	"github.com/SridharX3/Earthquake-Visualizer/internal/database"
)

// ErrNotProvisioned means the land outline has not been built yet
var ErrNotProvisioned = errors.New("basemap not provisioned")

// Basemap is the land outline as longitude/latitude line strings
type Basemap struct {
	Rings  []*geom.LineString
	Bounds *geom.Bounds
}

// Empty returns a basemap with no outline
func Empty() *Basemap {
	return &Basemap{Bounds: geom.NewBounds(geom.XY)}
}

// NewBasemap wraps rings and computes their combined bounds
func NewBasemap(rings []*geom.LineString) *Basemap {
	b := Empty()
	for _, r := range rings {
		b.Rings = append(b.Rings, r)
		b.Bounds.Extend(r)
	}
	return b
}

// Load reads the provisioned rings from the database at dbPath
func Load(dbPath string) (*Basemap, error) {
	needs, err := NeedsProvisioning(dbPath)
	if err != nil {
		return nil, err
	}
	if needs {
		return nil, ErrNotProvisioned
	}

	db, err := database.Open(dbPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query("SELECT id, geometry FROM basemap_rings ORDER BY feature, part")
	if err != nil {
		return nil, fmt.Errorf("querying basemap: %w", err)
	}
	defer rows.Close()

	var rings []*geom.LineString
	for rows.Next() {
		var id int64
		var data []byte
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("scanning ring: %w", err)
		}

		g, err := ewkb.Unmarshal(data)
		if err != nil {
			return nil, fmt.Errorf("decoding ring %d: %w", id, err)
		}
		ring, ok := g.(*geom.LineString)
		if !ok {
			return nil, fmt.Errorf("ring %d: unexpected geometry %T", id, g)
		}
		rings = append(rings, ring)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rings: %w", err)
	}

	return NewBasemap(rings), nil
}
