package usgs

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "EarthquakeVisualizer/1.0 (github.com/SridharX3/Earthquake-Visualizer)"
)

// FeedClient fetches a parsed feed document for a request
type FeedClient interface {
	FetchFeed(ctx context.Context, req RequestDescriptor) (*FeatureCollection, error)
}

// ClientConfig tunes the HTTP client
type ClientConfig struct {
	Timeout   time.Duration
	UserAgent string
	RateLimit float64 // requests per second, 0 disables limiting
	Burst     int
}

// Client implements FeedClient against the USGS GeoJSON endpoints
type Client struct {
	httpClient *http.Client
	userAgent  string
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewClient creates a new USGS feed client
func NewClient(cfg ClientConfig, logger *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		userAgent: cfg.UserAgent,
		limiter:   limiter,
		logger:    logger,
	}
}

// FetchFeed performs a GET for the descriptor and decodes the GeoJSON body
func (c *Client) FetchFeed(ctx context.Context, d RequestDescriptor) (*FeatureCollection, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &TransportError{Err: err}
	}

	url := d.String()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/geo+json, application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("feed response",
		zap.String("url", url),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var fc FeatureCollection
	if err := json.NewDecoder(resp.Body).Decode(&fc); err != nil {
		return nil, &EmptyResponseError{Err: err}
	}
	if fc.Features == nil {
		return nil, &EmptyResponseError{}
	}

	return &fc, nil
}
