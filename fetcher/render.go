package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// Renderer produces the post-script document of a page.
type Renderer interface {
	Render(ctx context.Context, rawURL string) (*goquery.Document, error)
}

// ChromeRenderer renders pages in a headless Chrome. One browser process is
// started on first use and shared; every render gets its own tab, which is
// closed on every exit path. Close stops the browser.
type ChromeRenderer struct {
	config ClientConfig

	allocCtx      context.Context
	cancelAlloc   context.CancelFunc
	browserCtx    context.Context
	cancelBrowser context.CancelFunc

	startOnce sync.Once
	startErr  error
	closeOnce sync.Once
}

// NewChromeRenderer prepares a headless browser allocator. No process is
// started until the first Render.
func NewChromeRenderer(config ClientConfig, opts ...chromedp.ExecAllocatorOption) *ChromeRenderer {
	if config.RenderTimeout <= 0 {
		config.RenderTimeout = DefaultClientConfig().RenderTimeout
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.UserAgent(config.UserAgent))
	allocOpts = append(allocOpts, opts...)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...any) {}))

	return &ChromeRenderer{
		config:        config,
		allocCtx:      allocCtx,
		cancelAlloc:   cancelAlloc,
		browserCtx:    browserCtx,
		cancelBrowser: cancelBrowser,
	}
}

// start launches the browser process once.
func (r *ChromeRenderer) start() error {
	r.startOnce.Do(func() {
		if err := chromedp.Run(r.browserCtx); err != nil {
			r.startErr = fmt.Errorf("failed to start browser: %w", err)
		}
	})
	return r.startErr
}

// Render navigates a fresh tab to rawURL, waits for the network to go idle
// and returns the resulting DOM. Failures are returned as *RenderError.
func (r *ChromeRenderer) Render(ctx context.Context, rawURL string) (*goquery.Document, error) {
	if err := r.start(); err != nil {
		return nil, &RenderError{URL: rawURL, Err: err}
	}

	tabCtx, cancelTab := chromedp.NewContext(r.browserCtx)
	defer cancelTab()

	// The tab descends from the browser context, so the caller's context is
	// bridged in explicitly.
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	runCtx, cancel := context.WithTimeout(tabCtx, r.config.RenderTimeout)
	defer cancel()

	var html string
	err := chromedp.Run(runCtx,
		navigateAndWaitIdle(rawURL),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		if ctx.Err() != nil {
			err = errors.Join(err, ctx.Err())
		}
		return nil, &RenderError{URL: rawURL, Err: err}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &RenderError{URL: rawURL, Err: fmt.Errorf("failed to parse rendered HTML: %w", err)}
	}
	if u, err := url.Parse(rawURL); err == nil {
		doc.Url = u
	}

	return doc, nil
}

// Close stops the browser process. It is safe to call more than once.
func (r *ChromeRenderer) Close() error {
	r.closeOnce.Do(func() {
		r.cancelBrowser()
		r.cancelAlloc()
	})
	return nil
}

// navigateAndWaitIdle navigates the tab and blocks until Chrome reports the
// networkIdle lifecycle event for the new document.
func navigateAndWaitIdle(rawURL string) chromedp.ActionFunc {
	return func(ctx context.Context) error {
		idle := make(chan struct{})
		var committed atomic.Bool
		var once sync.Once

		listenCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		// Lifecycle events restart with "init" on every navigation; an idle
		// event before that belongs to the blank start page.
		chromedp.ListenTarget(listenCtx, func(ev any) {
			e, ok := ev.(*page.EventLifecycleEvent)
			if !ok {
				return
			}
			switch e.Name {
			case "init":
				committed.Store(true)
			case "networkIdle":
				if committed.Load() {
					once.Do(func() { close(idle) })
				}
			}
		})

		if err := page.SetLifecycleEventsEnabled(true).Do(ctx); err != nil {
			return fmt.Errorf("failed to enable lifecycle events: %w", err)
		}
		if err := chromedp.Navigate(rawURL).Do(ctx); err != nil {
			return fmt.Errorf("failed to navigate: %w", err)
		}

		select {
		case <-idle:
			return nil
		case <-ctx.Done():
			return fmt.Errorf("waiting for network idle: %w", ctx.Err())
		}
	}
}
