// SPDX-License-Identifier: MPL-2.0

package adoptium

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	// DefaultBaseURL is the public Adoptium API endpoint.
	DefaultBaseURL = "https://api.adoptium.net"

	// DefaultImageType is the image type requested for runtime archives.
	DefaultImageType = "jdk"

	// DefaultCacheSize is the number of JSON responses kept per client.
	DefaultCacheSize = 64

	// DefaultTimeout bounds each JSON API request. Archive downloads are
	// bounded only by the caller's context.
	DefaultTimeout = 30 * time.Second

	// maxJSONResponseBytes is the upper bound on JSON API response size (10 MB).
	maxJSONResponseBytes = 10 << 20

	cacheTTL = 10 * time.Minute
)

var (
	// ErrReleaseNotFound is returned when the API answers 404.
	ErrReleaseNotFound = errors.New("release not found")

	// ErrNoBinary is returned when an assets query lists no downloadable binary.
	ErrNoBinary = errors.New("no binary available")
)

type (
	// StatusError is returned for any unexpected non-200 response other than 404.
	StatusError struct {
		URL        string
		StatusCode int
	}

	// Client queries the Adoptium API and downloads runtime archives.
	Client struct {
		httpClient *http.Client
		baseURL    string
		imageType  string
		userAgent  string
		timeout    time.Duration
		cacheSize  int
		cache      *expirable.LRU[string, []byte]
		logger     *log.Logger
	}

	// ClientOption configures a Client during construction.
	ClientOption func(*Client)
)

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("request to %s failed: unexpected status %d", e.URL, e.StatusCode)
}

// WithHTTPClient sets a custom HTTP client, useful for tests or proxy configurations.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(a *Client) {
		a.httpClient = c
	}
}

// WithBaseURL overrides the API base URL, primarily for test servers.
func WithBaseURL(base string) ClientOption {
	return func(a *Client) {
		a.baseURL = strings.TrimRight(base, "/")
	}
}

// WithImageType overrides the requested image type ("jdk" by default).
func WithImageType(imageType string) ClientOption {
	return func(a *Client) {
		a.imageType = imageType
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) ClientOption {
	return func(a *Client) {
		a.userAgent = ua
	}
}

// WithTimeout bounds each JSON API request. Zero disables the bound.
func WithTimeout(d time.Duration) ClientOption {
	return func(a *Client) {
		a.timeout = d
	}
}

// WithCacheSize sets how many JSON responses are memoized. Zero or a negative
// value disables the cache.
func WithCacheSize(n int) ClientOption {
	return func(a *Client) {
		a.cacheSize = n
	}
}

// WithLogger sets the client's logger.
func WithLogger(l *log.Logger) ClientOption {
	return func(a *Client) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewClient creates a Client with sensible defaults.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		baseURL:    DefaultBaseURL,
		imageType:  DefaultImageType,
		userAgent:  "warp4j/dev",
		timeout:    DefaultTimeout,
		cacheSize:  DefaultCacheSize,
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cacheSize > 0 {
		c.cache = expirable.NewLRU[string, []byte](c.cacheSize, nil, cacheTTL)
	}
	return c
}

// Download streams the archive at rawURL into dest. The body is written to a
// temporary file next to dest and renamed into place, so dest never holds a
// partial download.
func (c *Client) Download(ctx context.Context, rawURL, dest string) (err error) {
	resp, err := c.doRequest(ctx, rawURL)
	if err != nil {
		return fmt.Errorf("downloading %s: %w", redactURL(rawURL), err)
	}
	defer func() { _ = resp.Body.Close() }() // read-only response body

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("downloading %s: %w", redactURL(rawURL), statusError(rawURL, resp.StatusCode))
	}

	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating download directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".download-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			// Best-effort removal of the partially written temp file.
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = io.Copy(tmp, resp.Body); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing %s: %w", filepath.Base(dest), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err = os.Rename(tmpName, dest); err != nil {
		return fmt.Errorf("moving download into place: %w", err)
	}
	return nil
}

// getJSON fetches path relative to the base URL and decodes the body into out.
// Successful bodies are memoized by URL.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	body, ok := c.cached(reqURL)
	if !ok {
		var err error
		if body, err = c.fetch(ctx, reqURL); err != nil {
			return err
		}
		if c.cache != nil {
			c.cache.Add(reqURL, body)
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding response from %s: %w", redactURL(reqURL), err)
	}
	return nil
}

func (c *Client) cached(reqURL string) ([]byte, bool) {
	if c.cache == nil {
		return nil, false
	}
	body, ok := c.cache.Get(reqURL)
	if ok {
		c.logger.Debug("distributor response served from cache", "url", redactURL(reqURL))
	}
	return body, ok
}

func (c *Client) fetch(ctx context.Context, reqURL string) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	c.logger.Debug("querying distributor", "url", redactURL(reqURL))
	resp, err := c.doRequest(ctx, reqURL)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", redactURL(reqURL), err)
	}
	defer func() { _ = resp.Body.Close() }() // read-only response body

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(reqURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxJSONResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", redactURL(reqURL), err)
	}
	return body, nil
}

// doRequest creates and executes a GET request with the common headers.
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	return resp, nil
}

func statusError(reqURL string, code int) error {
	if code == http.StatusNotFound {
		return fmt.Errorf("%s: %w", redactURL(reqURL), ErrReleaseNotFound)
	}
	return &StatusError{URL: redactURL(reqURL), StatusCode: code}
}

// redactURL strips query parameters and fragments from a URL for safe inclusion
// in error messages and logs.
func redactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<invalid-url>"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
