package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/valpere/MovieScrapexter/internal/utils"
)

func newTestFetcher(config Config) *HTTPFetcher {
	// High rate and no retry delay keep the tests fast.
	if config.RateLimit == 0 {
		config.RateLimit = 1000
	}
	if config.RateBurst == 0 {
		config.RateBurst = 100
	}
	if config.RetryDelay == 0 {
		config.RetryDelay = time.Millisecond
	}
	return NewHTTPFetcher(config, nil)
}

func TestHTTPFetcherFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer server.Close()

	fetcher := newTestFetcher(Config{})
	defer fetcher.Close()

	html, finalURL, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if html != "<html><body>ok</body></html>" {
		t.Errorf("unexpected body: %q", html)
	}
	if finalURL != server.URL {
		t.Errorf("final URL = %q, want %q", finalURL, server.URL)
	}
}

func TestHTTPFetcherFollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/landed", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/landed", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("landed"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	fetcher := newTestFetcher(Config{})
	defer fetcher.Close()

	html, finalURL, err := fetcher.Fetch(context.Background(), server.URL+"/start")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if html != "landed" {
		t.Errorf("unexpected body: %q", html)
	}
	if finalURL != server.URL+"/landed" {
		t.Errorf("final URL must reflect the redirect, got %q", finalURL)
	}
}

func TestHTTPFetcherRetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("recovered"))
	}))
	defer server.Close()

	fetcher := newTestFetcher(Config{RetryAttempts: 3})
	defer fetcher.Close()

	html, _, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("fetch should recover after retries: %v", err)
	}
	if html != "recovered" {
		t.Errorf("unexpected body: %q", html)
	}
	if atomic.LoadInt32(&calls) != 3 {
		t.Errorf("expected 3 attempts, got %d", calls)
	}
}

func TestHTTPFetcherDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := newTestFetcher(Config{RetryAttempts: 3})
	defer fetcher.Close()

	_, _, err := fetcher.Fetch(context.Background(), server.URL)
	if err == nil {
		t.Fatal("404 must surface an error")
	}
	if utils.CodeOf(err) != utils.ErrCodeFetchFailed {
		t.Errorf("error code = %q", utils.CodeOf(err))
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("404 must not be retried, got %d attempts", calls)
	}
}

func TestHTTPFetcherRotatesUserAgents(t *testing.T) {
	var agents []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agents = append(agents, r.Header.Get("User-Agent"))
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	fetcher := newTestFetcher(Config{UserAgents: []string{"agent-a", "agent-b"}})
	defer fetcher.Close()

	for i := 0; i < 3; i++ {
		if _, _, err := fetcher.Fetch(context.Background(), server.URL); err != nil {
			t.Fatalf("fetch %d failed: %v", i, err)
		}
	}

	want := []string{"agent-a", "agent-b", "agent-a"}
	for i, agent := range want {
		if agents[i] != agent {
			t.Errorf("request %d user agent = %q, want %q", i, agents[i], agent)
		}
	}
}

func TestHTTPFetcherSendsCustomHeaders(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("X-Custom")
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	fetcher := newTestFetcher(Config{Headers: map[string]string{"X-Custom": "yes"}})
	defer fetcher.Close()

	if _, _, err := fetcher.Fetch(context.Background(), server.URL); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if got != "yes" {
		t.Errorf("custom header = %q", got)
	}
}

func TestHTTPFetcherContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer server.Close()

	fetcher := newTestFetcher(Config{})
	defer fetcher.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, _, err := fetcher.Fetch(ctx, server.URL); err == nil {
		t.Error("cancelled context must abort the fetch")
	}
}
