package openalex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/matsen/xcite/internal/logger"
	"github.com/matsen/xcite/internal/work"
)

const (
	// BaseURL is the OpenAlex REST API base URL.
	BaseURL = "https://api.openalex.org"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// RateLimit stays under the documented 10 requests per second.
	RateLimit = 8.0

	// PerPage is the largest page size OpenAlex serves.
	PerPage = 200

	userAgent = "xcite"
)

// Client is a rate-limited HTTP client for the OpenAlex API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	mailto     string
	apiKey     string
	baseURL    string
	log        *logger.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithMailto identifies the caller, which puts requests in the polite pool.
func WithMailto(email string) ClientOption {
	return func(c *Client) {
		c.mailto = email
	}
}

// WithAPIKey sets the premium API key.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithRateLimit sets requests per second. Zero or less disables limiting.
func WithRateLimit(rps float64) ClientOption {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithLogger sets the logger for request tracing.
func WithLogger(l *logger.Logger) ClientOption {
	return func(c *Client) {
		c.log = logger.OrNop(l)
	}
}

// NewClient creates a new OpenAlex client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
		log:        logger.Nop(),
	}

	if v := os.Getenv("OPENALEX_MAILTO"); v != "" {
		c.mailto = v
	}
	if v := os.Getenv("OPENALEX_API_KEY"); v != "" {
		c.apiKey = v
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// checkHTTPErrors returns an error if the HTTP response indicates a problem.
func checkHTTPErrors(resp *http.Response, path string) error {
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", ErrAuthError, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		return &APIError{StatusCode: resp.StatusCode, Code: "not_found", Message: "HTTP 404", Path: path}
	case resp.StatusCode >= 400:
		return &APIError{
			StatusCode: resp.StatusCode,
			Code:       "api_error",
			Message:    fmt.Sprintf("HTTP %d", resp.StatusCode),
			Path:       path,
		}
	}
	return nil
}

// getJSON issues a GET against path and decodes the response into out.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	if c.mailto != "" {
		params.Set("mailto", c.mailto)
	}
	if c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.mailto != "" {
		req.Header.Set("User-Agent", userAgent+" (mailto:"+c.mailto+")")
	} else {
		req.Header.Set("User-Agent", userAgent)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	c.log.Debug("openalex request",
		"path", path,
		"status", resp.StatusCode,
		"elapsed", time.Since(start),
	)

	if err := checkHTTPErrors(resp, path); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding %s: %v", ErrInvalidResponse, path, err)
	}
	return nil
}

// WorksPage fetches one page of works authored by id. The returned page has an
// empty NextCursor on the last page.
func (c *Client) WorksPage(ctx context.Context, id work.AuthorID, cursor string) (*work.Page, error) {
	if cursor == "" {
		cursor = work.FirstCursor
	}
	params := url.Values{}
	params.Set("per_page", strconv.Itoa(PerPage))
	params.Set("filter", "authorships.author.id:"+id.ShortID())
	params.Set("cursor", cursor)

	var resp worksResponse
	if err := c.getJSON(ctx, "/works", params, &resp); err != nil {
		return nil, err
	}

	page := &work.Page{Works: resp.Results}
	// An empty page ends pagination even if a cursor came back.
	if resp.Meta.NextCursor != nil && len(resp.Results) > 0 {
		page.NextCursor = *resp.Meta.NextCursor
	}
	return page, nil
}

// GetAuthor fetches an author by OpenAlex id (bare or URL form).
func (c *Client) GetAuthor(ctx context.Context, id string) (*Author, error) {
	short := work.AuthorID(id).ShortID()
	if short == "" {
		return nil, fmt.Errorf("%w: empty author id", ErrNotFound)
	}

	var a Author
	if err := c.getJSON(ctx, "/authors/"+url.PathEscape(short), nil, &a); err != nil {
		return nil, err
	}
	if a.ID == "" {
		return nil, fmt.Errorf("%w: author %s", ErrNotFound, short)
	}
	return &a, nil
}

// AutocompleteAuthors returns author suggestions for a name prefix, best
// match first.
func (c *Client) AutocompleteAuthors(ctx context.Context, q string) ([]AuthorHit, error) {
	params := url.Values{}
	params.Set("q", q)

	var resp autocompleteResponse
	if err := c.getJSON(ctx, "/autocomplete/authors", params, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}
