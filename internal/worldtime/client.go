package worldtime

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// DefaultBaseURL is the public WorldTimeAPI endpoint.
	DefaultBaseURL = "https://worldtimeapi.org/api"

	// DefaultTimeout bounds a single request, including reading the body.
	DefaultTimeout = 10 * time.Second

	// maxBodyBytes caps how much of a response body is read. The full
	// timezone list is well under 100 KiB.
	maxBodyBytes = 4 << 20
)

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned HTTP %d", e.Endpoint, e.StatusCode)
}

// DecodeError is returned when a response body is not the expected JSON.
type DecodeError struct {
	Endpoint string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode response from %s: %v", e.Endpoint, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Client talks to one WorldTimeAPI base URL.
//
// Usage:
//
//	c := worldtime.NewClient(worldtime.DefaultBaseURL, worldtime.WithTimeout(5*time.Second))
//	zones, err := c.ListTimezones(ctx)
type Client struct {
	baseURL   string
	http      *http.Client
	userAgent string
	requestID string
	log       zerolog.Logger

	// timeout is applied once every option has run; nil keeps the
	// client's own Timeout.
	timeout *time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout. It never modifies a client
// passed to WithHTTPClient; the timeout is set on a copy instead.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = &d }
}

// WithHTTPClient replaces the underlying http.Client. The client is used
// as-is unless WithTimeout is also given, in either order.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithLogger sets the logger used for request tracing at debug level.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// NewClient creates a client for baseURL. A fresh request id is generated
// per client and sent as X-Request-ID, so all requests of one invocation
// share it.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{Timeout: DefaultTimeout},
		userAgent: "worldclock/dev",
		requestID: uuid.NewString(),
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout != nil && c.http.Timeout != *c.timeout {
		hc := *c.http
		hc.Timeout = *c.timeout
		c.http = &hc
	}
	return c
}

// BaseURL returns the API root the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// RequestID returns the X-Request-ID value sent with every request.
func (c *Client) RequestID() string {
	return c.requestID
}

// ListTimezones returns every timezone identifier, e.g. "Europe/London".
func (c *Client) ListTimezones(ctx context.Context) ([]string, error) {
	var zones []string
	if err := c.get(ctx, "/timezone", &zones); err != nil {
		return nil, err
	}
	return zones, nil
}

// ListLocationsInArea returns the timezone identifiers under one area,
// e.g. "Europe" → ["Europe/Amsterdam", ...].
func (c *Client) ListLocationsInArea(ctx context.Context, area string) ([]string, error) {
	var zones []string
	if err := c.get(ctx, "/timezone/"+url.PathEscape(area), &zones); err != nil {
		return nil, err
	}
	return zones, nil
}

// GetTimeForLocation returns the current time information for one
// timezone as the raw decoded JSON object. location may span several
// segments, e.g. "Argentina/Salta" for America/Argentina/Salta.
func (c *Client) GetTimeForLocation(ctx context.Context, area, location string) (map[string]any, error) {
	var info map[string]any
	path := "/timezone/" + url.PathEscape(area) + "/" + escapeSegments(location)
	if err := c.get(ctx, path, &info); err != nil {
		return nil, err
	}
	return info, nil
}

// LookupIP returns time information for the timezone an IP address is
// located in. An empty ip looks up the caller's public address.
func (c *Client) LookupIP(ctx context.Context, ip string) (map[string]any, error) {
	path := "/ip"
	if ip != "" {
		path += "/" + url.PathEscape(ip)
	}

	var info map[string]any
	if err := c.get(ctx, path, &info); err != nil {
		return nil, err
	}
	return info, nil
}

// escapeSegments escapes each "/"-separated segment of p, keeping the
// separators.
func escapeSegments(p string) string {
	segs := strings.Split(p, "/")
	for i, seg := range segs {
		segs[i] = url.PathEscape(seg)
	}
	return strings.Join(segs, "/")
}

// get issues GET baseURL+path and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, path string, out any) error {
	endpoint := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", c.requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Debug().
		Str("url", endpoint).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Str("request_id", c.requestID).
		Msg("api request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		return &DecodeError{Endpoint: endpoint, Err: err}
	}
	return nil
}
