// internal/fetcher/fetcher.go

// Package fetcher retrieves page HTML for the crawl loop. Two
// implementations exist: a plain HTTP client with user-agent rotation and
// retries, and a headless-browser client for pages that render their
// content with JavaScript.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/valpere/MovieScrapexter/internal/utils"
)

// Fetcher retrieves one page. The returned final URL reflects redirects and
// is the base for resolving relative links found on the page.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (html string, finalURL string, err error)
	Close() error
}

// Config defines options shared by fetcher implementations.
type Config struct {
	Timeout       time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
	UserAgents    []string
	Headers       map[string]string
	RateLimit     float64 // requests per second
	RateBurst     int
	WaitSelector  string // browser fetcher only
}

// HTTPFetcher fetches pages over plain HTTP with user-agent rotation,
// rate limiting, and retry with exponential backoff.
type HTTPFetcher struct {
	client        *http.Client
	userAgents    []string
	currentUA     int
	uaMutex       sync.Mutex
	rateLimiter   *rate.Limiter
	retryAttempts int
	retryDelay    time.Duration
	headers       map[string]string
	logger        utils.Logger
}

// NewHTTPFetcher creates an HTTP fetcher with the specified configuration.
// Zero-valued options get working defaults.
func NewHTTPFetcher(config Config, logger utils.Logger) *HTTPFetcher {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RetryAttempts == 0 {
		config.RetryAttempts = 3
	}
	if config.RetryDelay == 0 {
		config.RetryDelay = time.Second
	}
	if config.RateLimit == 0 {
		config.RateLimit = 1.0
	}
	if config.RateBurst == 0 {
		config.RateBurst = 1
	}
	if len(config.UserAgents) == 0 {
		config.UserAgents = defaultUserAgents()
	}
	if logger == nil {
		logger = utils.NewLogger()
	}

	client := &http.Client{
		Timeout: config.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	return &HTTPFetcher{
		client:        client,
		userAgents:    config.UserAgents,
		rateLimiter:   rate.NewLimiter(rate.Limit(config.RateLimit), config.RateBurst),
		retryAttempts: config.RetryAttempts,
		retryDelay:    config.RetryDelay,
		headers:       config.Headers,
		logger:        logger,
	}
}

// Fetch performs a GET with retry logic and returns the page body and the
// post-redirect URL.
func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string) (string, string, error) {
	if _, err := url.Parse(pageURL); err != nil {
		return "", "", utils.WrapError(utils.ErrCodeFetchFailed, "invalid URL "+pageURL, err)
	}

	var lastErr error

	for attempt := 0; attempt <= f.retryAttempts; attempt++ {
		if err := f.rateLimiter.Wait(ctx); err != nil {
			return "", "", utils.WrapError(utils.ErrCodeFetchFailed, "rate limiter interrupted", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return "", "", utils.WrapError(utils.ErrCodeFetchFailed, "building request for "+pageURL, err)
		}
		f.setRequestHeaders(req)

		resp, err := f.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request failed (attempt %d/%d): %w",
				attempt+1, f.retryAttempts+1, err)
			if ctx.Err() != nil {
				break
			}
			if attempt < f.retryAttempts {
				f.waitForRetry(ctx, attempt)
				continue
			}
			break
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			body, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			if err != nil {
				return "", "", utils.WrapError(utils.ErrCodeFetchFailed, "reading body of "+pageURL, err)
			}
			finalURL := pageURL
			if resp.Request != nil && resp.Request.URL != nil {
				finalURL = resp.Request.URL.String()
			}
			return string(body), finalURL, nil
		}

		resp.Body.Close()
		lastErr = fmt.Errorf("HTTP %d: %s (attempt %d/%d)",
			resp.StatusCode, resp.Status, attempt+1, f.retryAttempts+1)

		if !retryableStatus(resp.StatusCode) {
			break
		}
		if attempt < f.retryAttempts {
			f.waitForRetry(ctx, attempt)
		}
	}

	return "", "", utils.WrapError(utils.ErrCodeFetchFailed, "fetching "+pageURL, lastErr)
}

// Close releases idle connections.
func (f *HTTPFetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}

// setRequestHeaders configures headers including user-agent rotation.
func (f *HTTPFetcher) setRequestHeaders(req *http.Request) {
	req.Header.Set("User-Agent", f.nextUserAgent())
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("DNT", "1")
	req.Header.Set("Upgrade-Insecure-Requests", "1")

	for key, value := range f.headers {
		req.Header.Set(key, value)
	}
}

// nextUserAgent returns the next user agent in rotation.
func (f *HTTPFetcher) nextUserAgent() string {
	f.uaMutex.Lock()
	defer f.uaMutex.Unlock()

	if len(f.userAgents) == 0 {
		return "MovieScrapexter/1.0"
	}
	ua := f.userAgents[f.currentUA]
	f.currentUA = (f.currentUA + 1) % len(f.userAgents)
	return ua
}

// waitForRetry sleeps with exponential backoff and jitter, honoring context
// cancellation.
func (f *HTTPFetcher) waitForRetry(ctx context.Context, attempt int) {
	backoff := f.retryDelay * time.Duration(1<<uint(attempt))
	jitter := time.Duration(rand.Int63n(int64(backoff/2) + 1))
	delay := backoff + jitter
	if delay > 30*time.Second {
		delay = 30 * time.Second
	}

	select {
	case <-time.After(delay):
	case <-ctx.Done():
	}
}

// retryableStatus reports whether a status code warrants a retry.
func retryableStatus(statusCode int) bool {
	switch statusCode {
	case 429, 500, 502, 503, 504, 520, 521, 522, 523, 524:
		return true
	}
	return false
}

// defaultUserAgents returns a set of realistic user agent strings.
func defaultUserAgents() []string {
	return []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:109.0) Gecko/20100101 Firefox/119.0",
		"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
		"Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/119.0",
	}
}
