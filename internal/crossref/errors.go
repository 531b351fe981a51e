package crossref

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors returned by the Crossref client.
var (
	// ErrNotFound indicates Crossref has no record for the DOI.
	ErrNotFound = errors.New("DOI not found in Crossref")

	// ErrRateLimited indicates Crossref refused the request with HTTP 429.
	ErrRateLimited = errors.New("Crossref rate limit exceeded")

	// ErrNetworkError indicates a transport failure.
	ErrNetworkError = errors.New("network error communicating with Crossref")

	// ErrInvalidResponse indicates a body that is not a unixref document.
	ErrInvalidResponse = errors.New("invalid response from Crossref")
)

// APIError is an HTTP error status returned by Crossref.
type APIError struct {
	StatusCode int
	Message    string
	DOI        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Crossref API error (status %d): %s (doi: %s)", e.StatusCode, e.Message, e.DOI)
}

// IsNotFound reports whether err means the DOI is unknown.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsRateLimited reports whether err means the request was throttled.
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests
}

func checkHTTPErrors(resp *http.Response, doi string) error {
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	case resp.StatusCode >= 400:
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			DOI:        doi,
		}
	}
	return nil
}
