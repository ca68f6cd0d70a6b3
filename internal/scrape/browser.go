package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/donaldgifford/market-price-tracker/internal/metrics"
	"github.com/donaldgifford/market-price-tracker/pkg/textnorm"
	domain "github.com/donaldgifford/market-price-tracker/pkg/types"
)

// BrowserBackend renders pages in headless Chrome for sites that build
// their markup client-side. The rendered HTML goes through the same
// selector profile as HTTPBackend.
type BrowserBackend struct {
	parser     *parser
	allocCtx   context.Context
	cancel     context.CancelFunc
	timeout    time.Duration
	settle     time.Duration
	limiter    *RateLimiter
	retry      retryPolicy
	maxResults int
	log        *slog.Logger

	execPath  string
	userAgent string
}

// BrowserOption configures a BrowserBackend.
type BrowserOption func(*BrowserBackend)

// WithBrowserTimeout bounds each page render.
func WithBrowserTimeout(d time.Duration) BrowserOption {
	return func(b *BrowserBackend) {
		if d > 0 {
			b.timeout = d
		}
	}
}

// WithSettleDelay waits after the page is ready, for late scripts.
func WithSettleDelay(d time.Duration) BrowserOption {
	return func(b *BrowserBackend) {
		b.settle = d
	}
}

// WithExecPath points at a specific Chrome binary.
func WithExecPath(p string) BrowserOption {
	return func(b *BrowserBackend) {
		b.execPath = p
	}
}

// WithBrowserUserAgent overrides the browser's User-Agent.
func WithBrowserUserAgent(ua string) BrowserOption {
	return func(b *BrowserBackend) {
		b.userAgent = ua
	}
}

// WithBrowserRateLimiter gates every page load through r.
func WithBrowserRateLimiter(r *RateLimiter) BrowserOption {
	return func(b *BrowserBackend) {
		b.limiter = r
	}
}

// WithBrowserSearchRetry sets the total search attempts and pause.
func WithBrowserSearchRetry(attempts int, wait time.Duration) BrowserOption {
	return func(b *BrowserBackend) {
		b.retry = retryPolicy{attempts: attempts, wait: wait}
	}
}

// WithBrowserLogger sets the logger.
func WithBrowserLogger(l *slog.Logger) BrowserOption {
	return func(b *BrowserBackend) {
		b.log = l
	}
}

// NewBrowserBackend starts a headless Chrome allocator. Call Close to stop it.
func NewBrowserBackend(profile SiteProfile, opts ...BrowserOption) *BrowserBackend {
	b := &BrowserBackend{
		parser:     newParser(profile),
		timeout:    DefaultTimeout,
		retry:      retryPolicy{attempts: DefaultSearchAttempts, wait: DefaultSearchWait},
		maxResults: DefaultMaxResults,
		log:        slog.Default(),
		userAgent:  DefaultUserAgents[0],
	}
	for _, opt := range opts {
		opt(b)
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(b.userAgent),
	)
	if b.execPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(b.execPath))
	}
	b.allocCtx, b.cancel = chromedp.NewExecAllocator(context.Background(), allocOpts...)
	return b
}

// Close shuts down the browser.
func (b *BrowserBackend) Close() {
	b.cancel()
}

// FetchListing renders a product page. Failures are not retried.
func (b *BrowserBackend) FetchListing(ctx context.Context, pageURL string) (*domain.RawListing, error) {
	if err := ValidateURL(pageURL); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "scrape.browser.FetchListing")
	defer span.End()
	span.SetAttributes(attribute.String("site", b.parser.site()), attribute.String("url", pageURL))

	start := time.Now()
	doc, err := b.render(ctx, pageURL)
	metrics.FetchDuration.WithLabelValues(b.parser.site(), "fetch").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.FetchErrorsTotal.WithLabelValues(b.parser.site(), "fetch").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return nil, err
	}
	return b.parser.listing(doc, pageURL), nil
}

// SearchListings renders a search page, retrying failed renders.
func (b *BrowserBackend) SearchListings(ctx context.Context, query, hint string) ([]domain.RawListing, error) {
	searchURL := fmt.Sprintf(b.parser.profile.SearchURL, url.QueryEscape(textnorm.SearchQuery(query, hint)))

	ctx, span := tracer.Start(ctx, "scrape.browser.SearchListings")
	defer span.End()
	span.SetAttributes(attribute.String("site", b.parser.site()), attribute.String("url", searchURL))

	start := time.Now()
	var doc *goquery.Document
	err := b.retry.run(ctx, func() error {
		var err error
		doc, err = b.render(ctx, searchURL)
		return err
	}, func(err error, wait time.Duration) {
		b.log.Warn("browser search attempt failed, retrying",
			"site", b.parser.site(), "url", searchURL, "wait", wait, "error", err)
	})
	metrics.FetchDuration.WithLabelValues(b.parser.site(), "search").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.FetchErrorsTotal.WithLabelValues(b.parser.site(), "search").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "search unavailable")
		return nil, fmt.Errorf("%w: searching %s: %w", domain.ErrMatchUnavailable, b.parser.site(), err)
	}
	return b.parser.results(doc, b.maxResults), nil
}

func (b *BrowserBackend) render(ctx context.Context, target string) (*goquery.Document, error) {
	if b.limiter != nil {
		if err := b.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrFetch, err)
		}
	}

	tabCtx, cancelTab := chromedp.NewContext(b.allocCtx, chromedp.WithLogf(func(string, ...any) {}))
	defer cancelTab()
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, b.timeout)
	defer cancelTimeout()

	// The tab lives under the allocator, so tie it to the caller by hand.
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	actions := []chromedp.Action{
		chromedp.Navigate(target),
		chromedp.WaitReady("body", chromedp.ByQuery),
	}
	if b.settle > 0 {
		actions = append(actions, chromedp.Sleep(b.settle))
	}
	var html string
	actions = append(actions, chromedp.OuterHTML("html", &html, chromedp.ByQuery))

	if err := chromedp.Run(tabCtx, actions...); err != nil {
		return nil, fmt.Errorf("%w: rendering %s: %w", domain.ErrFetch, target, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %w", domain.ErrFetch, target, err)
	}
	return doc, nil
}
