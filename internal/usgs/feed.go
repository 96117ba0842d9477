// Package usgs talks to the USGS earthquake GeoJSON feeds
package usgs

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/SridharX3/Earthquake-Visualizer/internal/models"
)

const (
	// DefaultSummaryURL serves the pre-built summary feeds
	DefaultSummaryURL = "https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary"
	// DefaultQueryURL serves the FDSN event query API
	DefaultQueryURL = "https://earthquake.usgs.gov/fdsnws/event/1/query"
)

// Endpoints holds the feed base URLs
type Endpoints struct {
	SummaryURL string
	QueryURL   string
}

// DefaultEndpoints returns the public USGS hosts
func DefaultEndpoints() Endpoints {
	return Endpoints{SummaryURL: DefaultSummaryURL, QueryURL: DefaultQueryURL}
}

// QueryParam is one ordered query string pair
type QueryParam struct {
	Key   string
	Value string
}

// RequestDescriptor is the concrete request for a filter
type RequestDescriptor struct {
	URL    string
	Params []QueryParam
}

// RawQuery encodes the params in their declared order
func (d RequestDescriptor) RawQuery() string {
	parts := make([]string, 0, len(d.Params))
	for _, p := range d.Params {
		parts = append(parts, url.QueryEscape(p.Key)+"="+url.QueryEscape(p.Value))
	}
	return strings.Join(parts, "&")
}

// String returns the full request URL
func (d RequestDescriptor) String() string {
	if len(d.Params) == 0 {
		return d.URL
	}
	return d.URL + "?" + d.RawQuery()
}

// SelectFeed maps a filter to the request that serves it.
// Unknown feed types fall back to the all_day summary.
func SelectFeed(e Endpoints, f models.Filter) RequestDescriptor {
	switch f.FeedType {
	case models.FeedAllDay, models.FeedSignificantDay, models.FeedModeratePlusDay:
		return summaryFeed(e, f.FeedType)
	case models.FeedCustom:
		return RequestDescriptor{
			URL: e.QueryURL,
			Params: []QueryParam{
				{Key: "format", Value: "geojson"},
				{Key: "starttime", Value: f.StartDate.UTC().Format(models.DateLayout)},
				{Key: "endtime", Value: f.EndDate.UTC().Format(models.DateLayout)},
				{Key: "minmagnitude", Value: formatMagnitude(f.MinMagnitude)},
				{Key: "maxmagnitude", Value: formatMagnitude(f.MaxMagnitude)},
				{Key: "orderby", Value: "time"},
			},
		}
	default:
		return summaryFeed(e, models.FeedAllDay)
	}
}

func summaryFeed(e Endpoints, feed models.FeedType) RequestDescriptor {
	return RequestDescriptor{
		URL: strings.TrimRight(e.SummaryURL, "/") + "/" + string(feed) + ".geojson",
	}
}

func formatMagnitude(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
