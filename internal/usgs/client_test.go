package usgs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/geo+json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestClient_FetchFeed(t *testing.T) {
	fixture, err := os.ReadFile("testdata/all_day.geojson")
	require.NoError(t, err)

	var gotPath, gotAgent, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAgent = r.Header.Get("User-Agent")
		gotQuery = r.URL.RawQuery
		_, _ = w.Write(fixture)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{UserAgent: "quake-test"}, nil)
	req := RequestDescriptor{
		URL:    server.URL + "/fdsnws/event/1/query",
		Params: []QueryParam{{"format", "geojson"}, {"orderby", "time"}},
	}

	fc, err := client.FetchFeed(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "/fdsnws/event/1/query", gotPath)
	assert.Equal(t, "quake-test", gotAgent)
	assert.Equal(t, "format=geojson&orderby=time", gotQuery)
	assert.Len(t, fc.Features, 4)
	assert.Equal(t, "USGS All Earthquakes, Past Day", fc.Metadata.Title)
}

func TestClient_DefaultUserAgent(t *testing.T) {
	var gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`{"type":"FeatureCollection","features":[]}`))
	}))
	defer server.Close()

	_, err := NewClient(ClientConfig{}, nil).FetchFeed(context.Background(), RequestDescriptor{URL: server.URL})
	require.NoError(t, err)
	assert.Equal(t, defaultUserAgent, gotAgent)
}

func TestClient_EmptyFeaturesSucceeds(t *testing.T) {
	server := newTestServer(t, http.StatusOK, `{"type":"FeatureCollection","metadata":{"count":0},"features":[]}`)

	fc, err := NewClient(ClientConfig{}, nil).FetchFeed(context.Background(), RequestDescriptor{URL: server.URL})
	require.NoError(t, err)
	assert.NotNil(t, fc.Features)
	assert.Empty(t, fc.Features)
}

func TestClient_MistypedFeatureKeepsCollection(t *testing.T) {
	server := newTestServer(t, http.StatusOK, `{"type":"FeatureCollection","features":[
		{"id":"bad","properties":{"mag":"4.0"},"geometry":{"coordinates":["x","y"]}},
		{"id":"good","properties":{"mag":4.0},"geometry":{"coordinates":[1,2]}}]}`)

	fc, err := NewClient(ClientConfig{}, nil).FetchFeed(context.Background(), RequestDescriptor{URL: server.URL})
	require.NoError(t, err)
	require.Len(t, fc.Features, 2)

	quakes, dropped := NormalizeAll(fc.Features)
	assert.Equal(t, 1, dropped)
	require.Len(t, quakes, 1)
	assert.Equal(t, "good", quakes[0].ID)
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		kind   Kind
	}{
		{"rate limited", http.StatusTooManyRequests, "slow down", KindRateLimited},
		{"bad request", http.StatusBadRequest, "Bad starttime", KindBadRequest},
		{"server error", http.StatusInternalServerError, "", KindHTTP},
		{"not found", http.StatusNotFound, "", KindHTTP},
		{"missing collection", http.StatusOK, `{"type":"FeatureCollection"}`, KindEmptyResponse},
		{"null collection", http.StatusOK, `{"features":null}`, KindEmptyResponse},
		{"invalid json", http.StatusOK, `<html>maintenance</html>`, KindEmptyResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(t, tt.status, tt.body)

			fc, err := NewClient(ClientConfig{}, nil).FetchFeed(context.Background(), RequestDescriptor{URL: server.URL})
			require.Error(t, err)
			assert.Nil(t, fc)
			assert.Equal(t, tt.kind, Classify(err), "error: %v", err)
		})
	}
}

func TestClient_HTTPErrorKeepsBody(t *testing.T) {
	server := newTestServer(t, http.StatusBadRequest, "  Bad Request: endtime before starttime \n")

	_, err := NewClient(ClientConfig{}, nil).FetchFeed(context.Background(), RequestDescriptor{URL: server.URL})

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.StatusCode)
	assert.Equal(t, "Bad Request: endtime before starttime", httpErr.Body)
}

func TestClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewClient(ClientConfig{Timeout: time.Second}, nil).FetchFeed(context.Background(), RequestDescriptor{URL: url})
	require.Error(t, err)
	assert.Equal(t, KindTransport, Classify(err))
}

func TestClient_CanceledContext(t *testing.T) {
	server := newTestServer(t, http.StatusOK, `{"features":[]}`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(ClientConfig{}, nil).FetchFeed(ctx, RequestDescriptor{URL: server.URL})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, KindTransport, Classify(err))
}

func TestClient_RateLimiterWaitsForToken(t *testing.T) {
	server := newTestServer(t, http.StatusOK, `{"features":[]}`)
	client := NewClient(ClientConfig{RateLimit: 0.001, Burst: 1}, nil)

	_, err := client.FetchFeed(context.Background(), RequestDescriptor{URL: server.URL})
	require.NoError(t, err, "first request uses the burst token")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = client.FetchFeed(ctx, RequestDescriptor{URL: server.URL})
	require.Error(t, err)
	assert.Equal(t, KindTransport, Classify(err))
}
