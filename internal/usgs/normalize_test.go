package usgs

import (
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SridharX3/Earthquake-Visualizer/internal/models"
)

func decodeFeature(t *testing.T, raw string) Feature {
	t.Helper()
	var f Feature
	require.NoError(t, json.Unmarshal([]byte(raw), &f))
	return f
}

func TestNormalize_FullRecord(t *testing.T) {
	f := decodeFeature(t, `{
		"id": "us7000abcd",
		"properties": {"mag": 5.2, "place": "10km N of Town", "time": 1700000000000, "tsunami": 1, "sig": 400},
		"geometry": {"type": "Point", "coordinates": [-122.4, 37.7, 10.5]}
	}`)

	q, err := Normalize(f)
	require.NoError(t, err)

	assert.Equal(t, "us7000abcd", q.ID)
	assert.Equal(t, 5.2, q.Magnitude)
	assert.Equal(t, "10km N of Town", q.Place)
	assert.Equal(t, models.Coordinates{Latitude: 37.7, Longitude: -122.4}, q.Coordinates)
	assert.True(t, q.Time.Equal(time.UnixMilli(1700000000000)))
	assert.Equal(t, 400, q.Significance)
	assert.True(t, q.Tsunami)

	depth, ok := q.Depth.Get()
	require.True(t, ok)
	assert.Equal(t, 10.5, depth)
	assert.False(t, q.Alert.Valid())
	assert.False(t, q.Felt.Valid())
}

func TestNormalize_Defaults(t *testing.T) {
	f := decodeFeature(t, `{
		"id": "ci1",
		"properties": {"mag": null, "place": null, "time": 1700000000000, "sig": null},
		"geometry": {"type": "Point", "coordinates": [-117.1, 33.9]}
	}`)

	q, err := Normalize(f)
	require.NoError(t, err)

	assert.Zero(t, q.Magnitude)
	assert.Equal(t, models.UnknownLocation, q.Place)
	assert.Zero(t, q.Significance)
	assert.False(t, q.Tsunami)
	assert.False(t, q.Depth.Valid())
	assert.Equal(t, "Unknown", q.DepthLabel())
}

func TestNormalize_EmptyPlaceIsUnknown(t *testing.T) {
	f := decodeFeature(t, `{"id": "a", "properties": {"place": ""}, "geometry": {"coordinates": [1, 2]}}`)

	q, err := Normalize(f)
	require.NoError(t, err)
	assert.Equal(t, models.UnknownLocation, q.Place)
}

func TestNormalize_TsunamiFlag(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{`"tsunami": 1`, true},
		{`"tsunami": 1.0`, true},
		{`"tsunami": 0`, false},
		{`"tsunami": null`, false},
		{`"tsunami": true`, false},
		{`"tsunami": "1"`, false},
		{`"tsunami": 2`, false},
		{`"mag": 1`, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			f := decodeFeature(t, `{"id": "a", "properties": {`+tt.raw+`}, "geometry": {"coordinates": [1, 2]}}`)
			q, err := Normalize(f)
			require.NoError(t, err)
			assert.Equal(t, tt.want, q.Tsunami)
		})
	}
}

func TestNormalize_Malformed(t *testing.T) {
	tests := []struct {
		name     string
		geometry string
	}{
		{"null geometry", `null`},
		{"no coordinates", `{"type": "Point"}`},
		{"one coordinate", `{"coordinates": [1]}`},
		{"null longitude", `{"coordinates": [null, 2]}`},
		{"null latitude", `{"coordinates": [1, null]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := decodeFeature(t, `{"id": "bad", "properties": {"mag": 3}, "geometry": `+tt.geometry+`}`)
			_, err := Normalize(f)
			assert.True(t, errors.Is(err, ErrMalformedRecord), "got %v", err)
		})
	}
}

func TestNormalizeAll_Fixture(t *testing.T) {
	data, err := os.ReadFile("testdata/all_day.geojson")
	require.NoError(t, err)

	var fc FeatureCollection
	require.NoError(t, json.Unmarshal(data, &fc))
	require.Len(t, fc.Features, 4)
	assert.Equal(t, 4, fc.Metadata.Count)

	quakes, dropped := NormalizeAll(fc.Features)
	assert.Equal(t, 1, dropped, "feature without geometry is dropped")
	require.Len(t, quakes, 3)

	first := quakes[0]
	assert.Equal(t, "us7000abcd", first.ID)
	assert.Equal(t, "green", first.Alert.OrElse(""))
	assert.Equal(t, 120, first.Felt.OrElse(0))
	assert.Equal(t, 5.3, first.MMI.OrElse(0))

	hawaii := quakes[1]
	assert.False(t, hawaii.Alert.Valid())
	assert.False(t, hawaii.CDI.Valid())

	blast := quakes[2]
	assert.Equal(t, "quarry blast", blast.Type)
	assert.Equal(t, models.UnknownLocation, blast.Place)
}

func TestNormalizeAll_MistypedFeatureIsDropped(t *testing.T) {
	data := `{"type": "FeatureCollection", "features": [
		{"id": "bad", "properties": {"mag": "strong", "time": 1.5}, "geometry": {"coordinates": ["x", "y"]}},
		{"id": "good", "properties": {"mag": 4.2}, "geometry": {"coordinates": [10, 20, 5]}},
		42
	]}`

	var fc FeatureCollection
	require.NoError(t, json.Unmarshal([]byte(data), &fc), "one bad feature must not fail the collection")
	require.Len(t, fc.Features, 3)
	assert.Equal(t, "bad", fc.Features[0].ID)

	_, err := Normalize(fc.Features[0])
	assert.ErrorIs(t, err, ErrMalformedRecord)

	quakes, dropped := NormalizeAll(fc.Features)
	assert.Equal(t, 2, dropped)
	require.Len(t, quakes, 1)
	assert.Equal(t, "good", quakes[0].ID)
	assert.Equal(t, 4.2, quakes[0].Magnitude)
	assert.Equal(t, 5.0, quakes[0].Depth.OrElse(0))
}

func TestNormalizeAll_IDs(t *testing.T) {
	point := &Geometry{Coordinates: []*float64{ptr(1.0), ptr(2.0)}}
	features := []Feature{
		{ID: "dup", Properties: Properties{Mag: ptr(1.0)}, Geometry: point},
		{ID: "", Geometry: point},
		{ID: "dup", Properties: Properties{Mag: ptr(9.0)}, Geometry: point},
		{ID: "", Geometry: point},
	}

	quakes, dropped := NormalizeAll(features)

	require.Len(t, quakes, 3)
	assert.Equal(t, 1, dropped)
	assert.Equal(t, "dup", quakes[0].ID)
	assert.Equal(t, 1.0, quakes[0].Magnitude, "first occurrence wins")
	assert.Equal(t, "feature-1", quakes[1].ID)
	assert.Equal(t, "feature-3", quakes[2].ID)
}

func TestNormalizeAll_Empty(t *testing.T) {
	quakes, dropped := NormalizeAll([]Feature{})
	assert.NotNil(t, quakes)
	assert.Empty(t, quakes)
	assert.Zero(t, dropped)
}

func ptr[T any](v T) *T { return &v }
