package models

import (
	"fmt"
	"math"
	"time"
)

// UnknownLocation is used when the feed omits a place description
const UnknownLocation = "Unknown location"

// Coordinates is a position in latitude, longitude order
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Optional holds a value that the upstream feed may omit
type Optional[T any] struct {
	value T
	valid bool
}

// Some wraps a present value
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, valid: true}
}

// None returns an absent value
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it is present
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.valid
}

// Valid reports whether the value is present
func (o Optional[T]) Valid() bool {
	return o.valid
}

// OrElse returns the value, or def when absent
func (o Optional[T]) OrElse(def T) T {
	if !o.valid {
		return def
	}
	return o.value
}

// Earthquake is one normalized seismic event. Records are never modified after
// normalization; a new load replaces the whole set.
type Earthquake struct {
	ID           string
	Magnitude    float64
	Place        string
	Time         time.Time
	Coordinates  Coordinates
	Depth        Optional[float64] // kilometers
	URL          string
	Title        string
	Type         string // e.g., "earthquake", "quarry blast"
	Significance int
	Alert        Optional[string] // PAGER level: green, yellow, orange, red
	Tsunami      bool
	Felt         Optional[int]     // number of "Did You Feel It?" reports
	CDI          Optional[float64] // community decimal intensity
	MMI          Optional[float64] // modified Mercalli intensity
}

// DepthLabel formats depth for display
func (e Earthquake) DepthLabel() string {
	d, ok := e.Depth.Get()
	if !ok {
		return "Unknown"
	}
	return fmt.Sprintf("%.1f", d)
}

// HaversineKm calculates distance in kilometers between two points
func HaversineKm(a, b Coordinates) float64 {
	const earthRadiusKm = 6371.0

	lat1Rad := a.Latitude * math.Pi / 180
	lat2Rad := b.Latitude * math.Pi / 180
	deltaLat := (b.Latitude - a.Latitude) * math.Pi / 180
	deltaLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}
