// internal/fetcher/browser.go
package fetcher

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/valpere/MovieScrapexter/internal/utils"
)

// BrowserFetcher renders pages in headless Chrome before snapshotting the
// DOM. Used for sites that assemble their catalogue with JavaScript; the
// plain HTTP fetcher is preferred everywhere else.
type BrowserFetcher struct {
	allocCtx     context.Context
	allocCancel  context.CancelFunc
	browserCtx   context.Context
	browserStop  context.CancelFunc
	timeout      time.Duration
	waitSelector string
	logger       utils.Logger
}

// NewBrowserFetcher starts a headless browser. The caller must Close it to
// release the Chrome process.
func NewBrowserFetcher(config Config, logger utils.Logger) (*BrowserFetcher, error) {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = utils.NewLogger()
	}

	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.DisableGPU,
		chromedp.Headless,
		chromedp.NoSandbox, // required inside containers
	}
	if len(config.UserAgents) > 0 {
		opts = append(opts, chromedp.UserAgent(config.UserAgents[0]))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserStop := chromedp.NewContext(allocCtx)

	f := &BrowserFetcher{
		allocCtx:     allocCtx,
		allocCancel:  allocCancel,
		browserCtx:   browserCtx,
		browserStop:  browserStop,
		timeout:      config.Timeout,
		waitSelector: config.WaitSelector,
		logger:       logger,
	}

	if err := chromedp.Run(browserCtx, chromedp.EmulateViewport(1366, 768)); err != nil {
		f.Close()
		return nil, utils.WrapError(utils.ErrCodeFetchFailed, "starting headless browser", err)
	}

	return f, nil
}

// Fetch navigates to the page, waits for it to render, and returns the
// resulting DOM and the post-redirect location.
func (f *BrowserFetcher) Fetch(ctx context.Context, pageURL string) (string, string, error) {
	runCtx, cancel := context.WithTimeout(f.browserCtx, f.timeout)
	defer cancel()

	tasks := []chromedp.Action{
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body"),
	}
	if f.waitSelector != "" {
		tasks = append(tasks, chromedp.WaitVisible(f.waitSelector))
	}

	var html, location string
	tasks = append(tasks,
		chromedp.Location(&location),
		chromedp.OuterHTML("html", &html),
	)

	if err := chromedp.Run(runCtx, tasks...); err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			return "", "", utils.WrapError(utils.ErrCodeFetchTimeout, "rendering "+pageURL, err)
		}
		return "", "", utils.WrapError(utils.ErrCodeFetchFailed, "rendering "+pageURL, err)
	}

	if location == "" {
		location = pageURL
	}
	return html, location, nil
}

// Close shuts the browser down.
func (f *BrowserFetcher) Close() error {
	if f.browserStop != nil {
		f.browserStop()
	}
	if f.allocCancel != nil {
		f.allocCancel()
	}
	return nil
}
