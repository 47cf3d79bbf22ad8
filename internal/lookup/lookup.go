// Package lookup resolves a creature name to its one or two type labels using
// a PokeAPI-compatible HTTP service.
//
// A lookup never returns an error to its caller. Failures are carried inside
// the [Result] so tests and logs can tell "the service answered" apart from
// "the service was unreachable"; renderers collapse a failed result into the
// ("Null", "") fallback pair with [Result.Categories].
//
// Typical usage:
//
//	c := lookup.New(lookup.DefaultBaseURL)
//	res := c.Lookup(ctx, "Pidgey")
//	primary, secondary := res.Categories()
package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/tatianab/wikigen/internal/logger"
	"github.com/tatianab/wikigen/internal/observe"
)

// DefaultBaseURL is the public PokeAPI endpoint.
const DefaultBaseURL = "https://pokeapi.co/api/v2"

// NullCategory is the primary category reported when a lookup failed.
const NullCategory = "Null"

var (
	// ErrNotFound is returned inside a Result when the service answered with
	// a non-success status.
	ErrNotFound = errors.New("lookup: creature not found")

	// ErrNoTypes is returned inside a Result when the payload decoded but
	// listed no types.
	ErrNoTypes = errors.New("lookup: payload has no types")
)

// Types holds the capitalized type labels. Secondary is empty for
// single-typed creatures.
type Types struct {
	Primary   string
	Secondary string
}

// Result is the outcome of one lookup: either Types or a non-nil Err.
type Result struct {
	Types Types
	Err   error
}

// OK reports whether the service returned usable types.
func (r Result) OK() bool { return r.Err == nil }

// Categories maps the result to the pair used by the renderers. A failed
// lookup yields (NullCategory, "").
func (r Result) Categories() (primary, secondary string) {
	if r.Err != nil {
		return NullCategory, ""
	}
	return r.Types.Primary, r.Types.Secondary
}

// Client resolves creature names. Implementations must be safe for
// concurrent use.
type Client interface {
	Lookup(ctx context.Context, name string) Result
}

// Func adapts a plain function to the Client interface.
type Func func(ctx context.Context, name string) Result

// Lookup calls f.
func (f Func) Lookup(ctx context.Context, name string) Result { return f(ctx, name) }

// Offline is a Client that fails every lookup without touching the network.
var Offline Client = Func(func(_ context.Context, name string) Result {
	return Result{Err: fmt.Errorf("lookup %q: offline", name)}
})

// Slug normalizes a creature name into the path segment the service expects:
// lowercase with underscores turned into hyphens.
func Slug(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), "_", "-")
}

// Option is a functional option for [New].
type Option func(*HTTPClient)

// WithTimeout sets a per-request timeout. Zero, the default, means no
// timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithMetrics records request counts and latencies on m instead of
// [observe.DefaultMetrics].
func WithMetrics(m *observe.Metrics) Option {
	return func(c *HTTPClient) {
		c.metrics = m
	}
}

// HTTPClient is the network-backed Client. Each Lookup issues exactly one GET
// request; nothing is cached or retried.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	metrics    *observe.Metrics
}

var _ Client = (*HTTPClient)(nil)

// New creates an HTTPClient for the service rooted at baseURL. An empty
// baseURL selects DefaultBaseURL.
func New(baseURL string, opts ...Option) *HTTPClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, o := range opts {
		o(c)
	}
	if c.metrics == nil {
		c.metrics = observe.DefaultMetrics()
	}
	return c
}

// pokemonResponse is the subset of GET /pokemon/{slug} we decode.
type pokemonResponse struct {
	Types []struct {
		Slot int `json:"slot"`
		Type struct {
			Name string `json:"name"`
		} `json:"type"`
	} `json:"types"`
}

// Lookup fetches the types of name.
func (c *HTTPClient) Lookup(ctx context.Context, name string) Result {
	slug := Slug(name)
	start := time.Now()

	types, err := c.fetch(ctx, slug)

	status := "ok"
	if err != nil {
		status = "failed"
		logger.Warning("type lookup failed", "slug", slug, "err", err)
	} else {
		logger.Debug("type lookup", "slug", slug, "primary", types.Primary, "secondary", types.Secondary)
	}
	attrs := metric.WithAttributes(attribute.String("status", status))
	c.metrics.LookupRequests.Add(ctx, 1, attrs)
	c.metrics.LookupDuration.Record(ctx, time.Since(start).Seconds(), attrs)

	return Result{Types: types, Err: err}
}

func (c *HTTPClient) fetch(ctx context.Context, slug string) (Types, error) {
	endpoint := c.baseURL + "/pokemon/" + url.PathEscape(slug)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Types{}, fmt.Errorf("lookup %q: build request: %w", slug, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Types{}, fmt.Errorf("lookup %q: %w", slug, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Types{}, fmt.Errorf("lookup %q: status %d: %w", slug, resp.StatusCode, ErrNotFound)
	}

	var payload pokemonResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Types{}, fmt.Errorf("lookup %q: decode: %w", slug, err)
	}
	if len(payload.Types) == 0 {
		return Types{}, fmt.Errorf("lookup %q: %w", slug, ErrNoTypes)
	}

	t := Types{Primary: Capitalize(payload.Types[0].Type.Name)}
	if len(payload.Types) > 1 {
		t.Secondary = Capitalize(payload.Types[1].Type.Name)
	}
	return t, nil
}

// Capitalize upper-cases the first rune of s and leaves the rest unchanged.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
