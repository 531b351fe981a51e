// Package crossref resolves DOIs to bibliographic metadata through the
// Crossref XML query service.
package crossref

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	// BaseURL is the Crossref XML query endpoint.
	BaseURL = "https://doi.crossref.org/servlet/query"

	// ResponseFormat asks for a unixref document.
	ResponseFormat = "unixref**"

	// DefaultTimeout is the HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// RateLimit is the default requests per second.
	RateLimit = 5.0

	maxBodySize = 4 << 20
)

// Client is a rate-limited Crossref client.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	pid        string
	log        logrus.FieldLogger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithPID sets the contact identifier sent as the pid parameter.
func WithPID(pid string) ClientOption {
	return func(c *Client) {
		c.pid = pid
	}
}

// WithBaseURL sets a custom endpoint (for testing).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRateLimit sets the maximum requests per second. Non-positive values
// disable limiting.
func WithRateLimit(perSecond float64) ClientOption {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithLogger sets the logger used by Resolve.
func WithLogger(log logrus.FieldLogger) ClientOption {
	return func(c *Client) {
		c.log = log
	}
}

// NewClient creates a Crossref client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
		log:        logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// QueryURL returns the request URL for doi.
func (c *Client) QueryURL(doi string) string {
	q := url.Values{}
	q.Set("pid", c.pid)
	q.Set("format", ResponseFormat)
	q.Set("id", doi)
	return c.baseURL + "?" + q.Encode()
}

// Fetch queries Crossref for doi and parses the unixref response.
func (c *Client) Fetch(ctx context.Context, doi string) (*Match, error) {
	doi = strings.TrimSpace(doi)
	if doi == "" {
		return nil, fmt.Errorf("empty DOI")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.QueryURL(doi), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if err := checkHTTPErrors(resp, doi); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrNetworkError, err)
	}
	m, err := ParseUnixref(body)
	if err != nil {
		return nil, fmt.Errorf("doi %s: %w", doi, err)
	}
	return m, nil
}

// Resolve is Fetch for callers that proceed without enrichment on any
// failure: the error is logged and nil is returned.
func (c *Client) Resolve(ctx context.Context, doi string) *Match {
	m, err := c.Fetch(ctx, doi)
	if err != nil {
		c.log.WithError(err).WithField("doi", doi).Warn("Crossref lookup failed")
		return nil
	}
	return m
}
