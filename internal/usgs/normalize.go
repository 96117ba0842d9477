package usgs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/SridharX3/Earthquake-Visualizer/internal/models"
)

// GeoJSON types for the USGS feeds. Pointer fields distinguish a missing
// or null value from a zero value.

// FeatureCollection is the top-level feed document
type FeatureCollection struct {
	Type     string    `json:"type"`
	Metadata Metadata  `json:"metadata"`
	Features []Feature `json:"features"` // nil when the document has no collection
}

// Metadata describes the feed itself
type Metadata struct {
	Generated int64  `json:"generated"`
	URL       string `json:"url"`
	Title     string `json:"title"`
	Status    int    `json:"status"`
	Count     int    `json:"count"`
}

// Feature is one raw upstream event
type Feature struct {
	ID         string     `json:"id"`
	Properties Properties `json:"properties"`
	Geometry   *Geometry  `json:"geometry"`

	decodeErr error // set when the feature could not be decoded
}

// UnmarshalJSON decodes one feature without failing the enclosing
// collection. A feature with mistyped fields keeps only its id and is
// later rejected by Normalize.
func (f *Feature) UnmarshalJSON(data []byte) error {
	type plain Feature
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		var head struct {
			ID string `json:"id"`
		}
		_ = json.Unmarshal(data, &head)
		*f = Feature{ID: head.ID, decodeErr: err}
		return nil
	}
	*f = Feature(p)
	return nil
}

// Properties holds the event attributes
type Properties struct {
	Mag     *float64        `json:"mag"`
	Place   *string         `json:"place"`
	Time    *int64          `json:"time"` // milliseconds since epoch
	URL     string          `json:"url"`
	Title   string          `json:"title"`
	Type    string          `json:"type"`
	Sig     *int            `json:"sig"`
	Alert   *string         `json:"alert"`
	Tsunami json.RawMessage `json:"tsunami"`
	Felt    *int            `json:"felt"`
	CDI     *float64        `json:"cdi"`
	MMI     *float64        `json:"mmi"`
}

// Geometry is a GeoJSON point in [longitude, latitude, depth] order
type Geometry struct {
	Type        string     `json:"type"`
	Coordinates []*float64 `json:"coordinates"`
}

// Normalize converts a raw feature into an Earthquake.
// It fails with ErrMalformedRecord when the feature could not be decoded
// or has no usable position.
func Normalize(f Feature) (models.Earthquake, error) {
	if f.decodeErr != nil {
		return models.Earthquake{}, fmt.Errorf("feature %q: %w: %w", f.ID, ErrMalformedRecord, f.decodeErr)
	}
	if f.Geometry == nil || len(f.Geometry.Coordinates) < 2 ||
		f.Geometry.Coordinates[0] == nil || f.Geometry.Coordinates[1] == nil {
		return models.Earthquake{}, fmt.Errorf("feature %q: %w", f.ID, ErrMalformedRecord)
	}

	coords := f.Geometry.Coordinates
	props := f.Properties

	q := models.Earthquake{
		ID:        f.ID,
		Magnitude: deref(props.Mag, 0),
		Place:     models.UnknownLocation,
		// Upstream order is longitude first
		Coordinates: models.Coordinates{
			Latitude:  *coords[1],
			Longitude: *coords[0],
		},
		Depth:        models.None[float64](),
		URL:          props.URL,
		Title:        props.Title,
		Type:         props.Type,
		Significance: deref(props.Sig, 0),
		Alert:        optional(props.Alert),
		Tsunami:      isFlagSet(props.Tsunami),
		Felt:         optional(props.Felt),
		CDI:          optional(props.CDI),
		MMI:          optional(props.MMI),
	}

	if props.Place != nil && *props.Place != "" {
		q.Place = *props.Place
	}
	if props.Time != nil {
		q.Time = time.UnixMilli(*props.Time).UTC()
	}
	if len(coords) > 2 && coords[2] != nil {
		q.Depth = models.Some(*coords[2])
	}

	return q, nil
}

// NormalizeAll normalizes every feature, dropping malformed records and any
// later duplicate of an id already seen. Features without an id get one
// derived from their position in the feed.
func NormalizeAll(features []Feature) ([]models.Earthquake, int) {
	out := make([]models.Earthquake, 0, len(features))
	seen := make(map[string]bool, len(features))
	dropped := 0

	for i, f := range features {
		if f.ID == "" {
			f.ID = "feature-" + strconv.Itoa(i)
		}
		if seen[f.ID] {
			dropped++
			continue
		}
		q, err := Normalize(f)
		if err != nil {
			dropped++
			continue
		}
		seen[f.ID] = true
		out = append(out, q)
	}

	return out, dropped
}

func deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

func optional[T any](p *T) models.Optional[T] {
	if p == nil {
		return models.None[T]()
	}
	return models.Some(*p)
}

// isFlagSet reports whether a raw JSON value is the number 1
func isFlagSet(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return false
	}
	return n == 1
}
