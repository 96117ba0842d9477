package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SridharX3/Earthquake-Visualizer/internal/models"
)

var base = time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

func quake(id string, mag float64, minutes int) models.Earthquake {
	return models.Earthquake{ID: id, Magnitude: mag, Time: base.Add(time.Duration(minutes) * time.Minute)}
}

func ids(qs []models.Earthquake) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.ID
	}
	return out
}

func TestApply_PresetMagnitudeRange(t *testing.T) {
	records := []models.Earthquake{
		quake("a", 2.0, 10),
		quake("b", 3.0, 30),
		quake("c", 5.0, 20),
	}
	f := models.DefaultFilter(base).WithMagnitude(2.5, 10)

	got := Apply(records, f)
	assert.Equal(t, []string{"b", "c"}, ids(got))
}

func TestApply_BoundsAreInclusive(t *testing.T) {
	records := []models.Earthquake{
		quake("low", 2.5, 1),
		quake("high", 10, 2),
		quake("under", 2.49, 3),
		quake("over", 10.01, 4),
	}
	f := models.DefaultFilter(base).WithFeed(models.FeedSignificantDay).WithMagnitude(2.5, 10)

	got := Apply(records, f)
	assert.ElementsMatch(t, []string{"low", "high"}, ids(got))
}

func TestApply_ReversedBoundsMatchNothing(t *testing.T) {
	records := []models.Earthquake{
		quake("a", 3.0, 1),
		quake("b", 7.0, 2),
	}
	f := models.DefaultFilter(base).WithMagnitude(7, 3)

	got := Apply(records, f)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestApply_CustomSkipsMagnitudeCut(t *testing.T) {
	records := []models.Earthquake{
		quake("a", 1.0, 1),
		quake("b", 9.5, 2),
	}
	f := models.DefaultFilter(base).WithDateRange(base.AddDate(0, 0, -7), base).WithMagnitude(4, 5)

	got := Apply(records, f)
	assert.Equal(t, []string{"b", "a"}, ids(got))
}

func TestApply_SortIsStable(t *testing.T) {
	records := []models.Earthquake{
		quake("first", 3, 5),
		quake("older", 3, 1),
		quake("second", 3, 5),
		quake("newest", 3, 9),
	}

	got := Apply(records, models.DefaultFilter(base).WithMagnitude(0, 10))
	assert.Equal(t, []string{"newest", "first", "second", "older"}, ids(got))
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	records := []models.Earthquake{
		quake("old", 3, 1),
		quake("new", 3, 2),
	}

	got := Apply(records, models.DefaultFilter(base))
	require.Len(t, got, 2)
	assert.Equal(t, []string{"old", "new"}, ids(records))
	assert.Equal(t, []string{"new", "old"}, ids(got))
}

func TestApply_Empty(t *testing.T) {
	got := Apply(nil, models.DefaultFilter(base))
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
