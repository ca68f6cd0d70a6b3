package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/donaldgifford/market-price-tracker/internal/metrics"
	"github.com/donaldgifford/market-price-tracker/pkg/textnorm"
	domain "github.com/donaldgifford/market-price-tracker/pkg/types"
)

var tracer = otel.Tracer("github.com/donaldgifford/market-price-tracker/internal/scrape")

// HTTPBackend fetches static HTML with net/http and extracts fields with
// goquery.
type HTTPBackend struct {
	parser     *parser
	client     *http.Client
	agents     []string
	next       atomic.Uint64
	limiter    *RateLimiter
	retry      retryPolicy
	maxResults int
	log        *slog.Logger
}

// HTTPOption configures an HTTPBackend.
type HTTPOption func(*HTTPBackend)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(b *HTTPBackend) {
		b.client = c
	}
}

// WithTimeout sets the per-request timeout on the default client.
func WithTimeout(d time.Duration) HTTPOption {
	return func(b *HTTPBackend) {
		if d > 0 {
			b.client.Timeout = d
		}
	}
}

// WithUserAgents sets the User-Agent rotation.
func WithUserAgents(agents []string) HTTPOption {
	return func(b *HTTPBackend) {
		if len(agents) > 0 {
			b.agents = agents
		}
	}
}

// WithRateLimiter gates every request through r.
func WithRateLimiter(r *RateLimiter) HTTPOption {
	return func(b *HTTPBackend) {
		b.limiter = r
	}
}

// WithSearchRetry sets the total search attempts and the pause between them.
func WithSearchRetry(attempts int, wait time.Duration) HTTPOption {
	return func(b *HTTPBackend) {
		b.retry = retryPolicy{attempts: attempts, wait: wait}
	}
}

// WithMaxResults bounds the number of search results returned.
func WithMaxResults(n int) HTTPOption {
	return func(b *HTTPBackend) {
		if n > 0 {
			b.maxResults = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) HTTPOption {
	return func(b *HTTPBackend) {
		b.log = l
	}
}

// NewHTTPBackend creates a backend for the site described by profile.
func NewHTTPBackend(profile SiteProfile, opts ...HTTPOption) *HTTPBackend {
	b := &HTTPBackend{
		parser:     newParser(profile),
		client:     &http.Client{Timeout: DefaultTimeout},
		agents:     DefaultUserAgents,
		retry:      retryPolicy{attempts: DefaultSearchAttempts, wait: DefaultSearchWait},
		maxResults: DefaultMaxResults,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// FetchListing loads a product page. It does not retry: a network failure
// or non-200 status is returned at once wrapped in domain.ErrFetch.
func (b *HTTPBackend) FetchListing(ctx context.Context, pageURL string) (*domain.RawListing, error) {
	if err := ValidateURL(pageURL); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "scrape.FetchListing")
	defer span.End()
	span.SetAttributes(attribute.String("site", b.parser.site()), attribute.String("url", pageURL))

	start := time.Now()
	doc, err := b.get(ctx, pageURL)
	metrics.FetchDuration.WithLabelValues(b.parser.site(), "fetch").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.FetchErrorsTotal.WithLabelValues(b.parser.site(), "fetch").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return nil, err
	}

	return b.parser.listing(doc, pageURL), nil
}

// SearchListings runs a site search. Transient failures are retried; when
// every attempt fails the error wraps domain.ErrMatchUnavailable.
func (b *HTTPBackend) SearchListings(ctx context.Context, query, hint string) ([]domain.RawListing, error) {
	searchURL := fmt.Sprintf(b.parser.profile.SearchURL, url.QueryEscape(textnorm.SearchQuery(query, hint)))

	ctx, span := tracer.Start(ctx, "scrape.SearchListings")
	defer span.End()
	span.SetAttributes(attribute.String("site", b.parser.site()), attribute.String("url", searchURL))

	start := time.Now()
	var doc *goquery.Document
	err := b.retry.run(ctx, func() error {
		var err error
		doc, err = b.get(ctx, searchURL)
		return err
	}, func(err error, wait time.Duration) {
		b.log.Warn("search attempt failed, retrying",
			"site", b.parser.site(), "url", searchURL, "wait", wait, "error", err)
	})
	metrics.FetchDuration.WithLabelValues(b.parser.site(), "search").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.FetchErrorsTotal.WithLabelValues(b.parser.site(), "search").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "search unavailable")
		return nil, fmt.Errorf("%w: searching %s: %w", domain.ErrMatchUnavailable, b.parser.site(), err)
	}

	results := b.parser.results(doc, b.maxResults)
	span.SetAttributes(attribute.Int("results", len(results)))
	return results, nil
}

func (b *HTTPBackend) get(ctx context.Context, target string) (*goquery.Document, error) {
	if b.limiter != nil {
		if err := b.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrFetch, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %w", domain.ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", b.userAgent())
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Accept-Language", acceptLanguage)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: requesting %s: %w", domain.ErrFetch, target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetch, &StatusError{Code: resp.StatusCode, URL: target})
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", domain.ErrFetch, target, err)
	}
	return doc, nil
}

func (b *HTTPBackend) userAgent() string {
	n := b.next.Add(1) - 1
	return b.agents[n%uint64(len(b.agents))]
}
