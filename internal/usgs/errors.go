package usgs

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrMalformedRecord marks a feature without a usable position
var ErrMalformedRecord = errors.New("malformed record: missing geometry coordinates")

// TransportError wraps a network or connectivity failure
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("failed to fetch earthquakes: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// HTTPError is a non-2xx response from the feed
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("API returned status %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("API returned status %d", e.StatusCode)
}

// EmptyResponseError means the response had no feature collection
type EmptyResponseError struct {
	Err error // decode failure, if any
}

func (e *EmptyResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("no earthquake data found in response: %v", e.Err)
	}
	return "no earthquake data found in response"
}

func (e *EmptyResponseError) Unwrap() error {
	return e.Err
}

// Kind classifies a load failure
type Kind int

const (
	KindUnknown Kind = iota
	KindTransport
	KindRateLimited
	KindBadRequest
	KindHTTP
	KindEmptyResponse
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindRateLimited:
		return "rate_limited"
	case KindBadRequest:
		return "bad_request"
	case KindHTTP:
		return "http"
	case KindEmptyResponse:
		return "empty_response"
	default:
		return "unknown"
	}
}

// Classify maps an error from FetchFeed to its Kind
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		switch httpErr.StatusCode {
		case http.StatusTooManyRequests:
			return KindRateLimited
		case http.StatusBadRequest:
			return KindBadRequest
		default:
			return KindHTTP
		}
	}

	var emptyErr *EmptyResponseError
	if errors.As(err, &emptyErr) {
		return KindEmptyResponse
	}

	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return KindTransport
	}

	return KindUnknown
}

// UserMessage returns the message shown for a failed load
func UserMessage(err error) string {
	const prefix = "Failed to load earthquake data. "

	switch Classify(err) {
	case KindTransport:
		return prefix + "Please check your internet connection."
	case KindRateLimited:
		return prefix + "Too many requests. Please wait a moment and try again."
	case KindBadRequest:
		return prefix + "Invalid date range or parameters. Please check your filters."
	case KindEmptyResponse:
		return prefix + "No earthquakes found for the selected criteria."
	default:
		return prefix + "Please try again later."
	}
}
