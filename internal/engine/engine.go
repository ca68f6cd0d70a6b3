package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/donaldgifford/market-price-tracker/internal/history"
	"github.com/donaldgifford/market-price-tracker/internal/metrics"
	"github.com/donaldgifford/market-price-tracker/internal/notify"
	"github.com/donaldgifford/market-price-tracker/internal/scrape"
	"github.com/donaldgifford/market-price-tracker/internal/store"
	"github.com/donaldgifford/market-price-tracker/pkg/matcher"
	"github.com/donaldgifford/market-price-tracker/pkg/price"
	"github.com/donaldgifford/market-price-tracker/pkg/textnorm"
	"github.com/donaldgifford/market-price-tracker/pkg/trend"
	domain "github.com/donaldgifford/market-price-tracker/pkg/types"
)

var tracer = otel.Tracer("github.com/donaldgifford/market-price-tracker/internal/engine")

// Engine orchestrates fetching, matching, history and alerting.
type Engine struct {
	source       scrape.ListingFetcher
	sourceSearch scrape.ListingSearcher
	target       scrape.ListingSearcher
	history      *history.Store
	notifier     notify.Notifier
	log          *slog.Logger
	now          func() time.Time

	maxWords     int
	candidateCap int
	relatedCap   int
	trendOpts    []trend.Option
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = l
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// WithSourceSearcher enables tracking by free-text description.
func WithSourceSearcher(s scrape.ListingSearcher) EngineOption {
	return func(e *Engine) {
		e.sourceSearch = s
	}
}

// WithMaxKeywords sets how many title words drive the target search.
func WithMaxKeywords(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.maxWords = n
		}
	}
}

// WithCandidateCap sets how many search results the matcher scores.
func WithCandidateCap(n int) EngineOption {
	return func(e *Engine) {
		e.candidateCap = n
	}
}

// WithRelatedCap sets how many related listings a no-match carries.
func WithRelatedCap(n int) EngineOption {
	return func(e *Engine) {
		e.relatedCap = n
	}
}

// WithTrendOptions passes options through to anomaly detection.
func WithTrendOptions(opts ...trend.Option) EngineOption {
	return func(e *Engine) {
		e.trendOpts = opts
	}
}

// NewEngine creates a new Engine with injected dependencies.
func NewEngine(
	source scrape.ListingFetcher,
	target scrape.ListingSearcher,
	h *history.Store,
	n notify.Notifier,
	opts ...EngineOption,
) *Engine {
	eng := &Engine{
		source:       source,
		target:       target,
		history:      h,
		notifier:     n,
		log:          slog.Default(),
		now:          time.Now,
		maxWords:     textnorm.DefaultMaxWords,
		candidateCap: matcher.DefaultCandidateCap,
		relatedCap:   matcher.DefaultRelatedCap,
	}
	for _, opt := range opts {
		opt(eng)
	}
	return eng
}

// TrackRequest asks to record the current price of a source listing.
type TrackRequest struct {
	URL       string
	Email     string
	Threshold *float64
}

// QueryRequest asks to track the best source listing for a description.
type QueryRequest struct {
	Query     string
	Email     string
	Threshold *float64
}

// ManualRequest records a user-supplied price without fetching.
type ManualRequest struct {
	URL       string
	Name      string
	Price     float64
	Email     string
	Threshold *float64
}

// TrackResult is the outcome of one tracking action.
type TrackResult struct {
	Product    *domain.TrackedProduct `json:"product"`
	Comparison *domain.Comparison     `json:"comparison,omitempty"`
	Triggered  bool                   `json:"triggered"`
	AlertSent  bool                   `json:"alert_sent"`
}

// Compare fetches the source listing, searches the target site and matches
// the results. Nothing is persisted. A source fetch failure is returned as
// is; a failed target search degrades to SearchUnavailable.
func (eng *Engine) Compare(ctx context.Context, url string) (*domain.Comparison, error) {
	ctx, span := tracer.Start(ctx, "engine.Compare")
	defer span.End()
	span.SetAttributes(attribute.String("url", url))

	listing, err := eng.fetchSource(ctx, url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "source fetch failed")
		return nil, err
	}
	return eng.compareListing(ctx, listing), nil
}

func (eng *Engine) fetchSource(ctx context.Context, url string) (*domain.RawListing, error) {
	if err := scrape.ValidateURL(url); err != nil {
		return nil, err
	}
	listing, err := eng.source.FetchListing(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetching source listing: %w", err)
	}
	if !listing.HasTitle() && !listing.HasPrice() {
		return nil, fmt.Errorf("%w: no title or price found at %s", domain.ErrParse, url)
	}
	return listing, nil
}

func (eng *Engine) compareListing(ctx context.Context, listing *domain.RawListing) *domain.Comparison {
	cmp := &domain.Comparison{
		Source:      *listing,
		SourcePrice: domain.Price(price.Normalize(listing.PriceText)),
		TargetPrice: domain.Unavailable,
		Match:       domain.MatchResult{Confidence: domain.ConfidenceNone},
	}

	if listing.HasTitle() {
		phrase := textnorm.KeywordPhrase(listing.Title, eng.maxWords)
		cmp.SearchQuery = textnorm.SearchQuery(phrase, listing.ModelNumber)

		candidates, err := eng.target.SearchListings(ctx, phrase, listing.ModelNumber)
		if err != nil {
			eng.searchUnavailable(cmp, err)
		} else {
			src := matcher.SourceFromTitle(listing.Title, listing.ModelNumber)
			cmp.Match = eng.match(ctx, src, candidates)
		}
	}

	eng.finishComparison(cmp)
	return cmp
}

func (eng *Engine) searchUnavailable(cmp *domain.Comparison, err error) {
	cmp.SearchUnavailable = true
	metrics.SearchUnavailableTotal.Inc()
	if !errors.Is(err, domain.ErrMatchUnavailable) {
		err = fmt.Errorf("%w: %w", domain.ErrMatchUnavailable, err)
	}
	eng.log.Warn("target search unavailable", "query", cmp.SearchQuery, "error", err)
}

func (eng *Engine) match(ctx context.Context, src matcher.Source, candidates []domain.RawListing) domain.MatchResult {
	_, span := tracer.Start(ctx, "engine.Match")
	defer span.End()

	res := matcher.Match(src, candidates,
		matcher.WithCandidateCap(eng.candidateCap),
		matcher.WithRelatedCap(eng.relatedCap),
	)
	metrics.MatchOutcomesTotal.WithLabelValues(string(res.Confidence)).Inc()
	if res.Best != nil {
		metrics.MatchScore.Observe(float64(res.Best.Score))
	}
	span.SetAttributes(
		attribute.Int("candidates", len(candidates)),
		attribute.String("confidence", string(res.Confidence)),
		attribute.Bool("fallback", res.Fallback),
	)
	return res
}

func (eng *Engine) finishComparison(cmp *domain.Comparison) {
	if cmp.Match.Best != nil {
		cmp.TargetPrice = domain.Price(price.Normalize(cmp.Match.Best.Listing.PriceText))
	}
	cmp.Difference = price.Compare(float64(cmp.SourcePrice), float64(cmp.TargetPrice))
}

// Track compares a source listing and appends its price to the history.
// The triggered flag reflects the threshold after the append. A repository
// failure is returned alongside the result, whose in-memory state stands.
func (eng *Engine) Track(ctx context.Context, req TrackRequest) (*TrackResult, error) {
	res, alert, err := eng.track(ctx, req)
	if alert != nil {
		res.AlertSent = eng.dispatch(ctx, []notify.AlertPayload{*alert}) == nil
	}
	return res, err
}

func (eng *Engine) track(ctx context.Context, req TrackRequest) (*TrackResult, *notify.AlertPayload, error) {
	start := time.Now()
	defer func() {
		metrics.TrackDuration.Observe(time.Since(start).Seconds())
	}()

	ctx, span := tracer.Start(ctx, "engine.Track")
	defer span.End()
	span.SetAttributes(attribute.String("url", req.URL))

	cmp, err := eng.Compare(ctx, req.URL)
	if err != nil {
		return nil, nil, err
	}

	return eng.record(ctx, req.URL, cmp, req.Email, req.Threshold)
}

func (eng *Engine) record(
	ctx context.Context,
	key string,
	cmp *domain.Comparison,
	email string,
	threshold *float64,
) (*TrackResult, *notify.AlertPayload, error) {
	var name string
	if cmp.Source.HasTitle() {
		name = cmp.Source.Title
	}

	pt := domain.PricePoint{
		Timestamp: eng.now().Format(domain.TimestampLayout),
		Price:     cmp.SourcePrice,
	}

	product, err := eng.history.Append(ctx, key, name, pt, appendOptions(email, threshold)...)
	if product == nil {
		return nil, nil, err
	}

	res := &TrackResult{Product: product, Comparison: cmp}
	alert := eng.evaluate(product, cmp)
	res.Triggered = alert != nil
	return res, alert, err
}

func appendOptions(email string, threshold *float64) []history.AppendOption {
	var opts []history.AppendOption
	if email = strings.TrimSpace(email); email != "" {
		opts = append(opts, history.WithOwnerEmail(email))
	}
	if threshold != nil {
		opts = append(opts, history.WithThreshold(*threshold))
	}
	return opts
}

// TrackByQuery searches both marketplaces for a description in parallel,
// tracks the first usable source result and matches it against the target
// results.
func (eng *Engine) TrackByQuery(ctx context.Context, req QueryRequest) (*TrackResult, error) {
	if eng.sourceSearch == nil {
		return nil, errors.New("tracking by description is not configured")
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrParse)
	}

	ctx, span := tracer.Start(ctx, "engine.TrackByQuery")
	defer span.End()

	var (
		sourceResults []domain.RawListing
		targetResults []domain.RawListing
		targetErr     error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(2)
	g.Go(func() error {
		var err error
		sourceResults, err = eng.sourceSearch.SearchListings(gctx, query, "")
		if err != nil {
			return fmt.Errorf("searching source site: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		// Target failure degrades the comparison instead of failing the group.
		targetResults, targetErr = eng.target.SearchListings(gctx, query, "")
		return nil
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	var listing *domain.RawListing
	for i := range sourceResults {
		if sourceResults[i].Actionable() && sourceResults[i].URL != "" {
			listing = &sourceResults[i]
			break
		}
	}
	if listing == nil {
		return nil, fmt.Errorf("%w: no source listing found for %q", domain.ErrParse, query)
	}

	cmp := &domain.Comparison{
		Source:      *listing,
		SourcePrice: domain.Price(price.Normalize(listing.PriceText)),
		TargetPrice: domain.Unavailable,
		SearchQuery: query,
		Match:       domain.MatchResult{Confidence: domain.ConfidenceNone},
	}
	if targetErr != nil {
		eng.searchUnavailable(cmp, targetErr)
	} else {
		src := matcher.SourceFromTitle(listing.Title, listing.ModelNumber)
		cmp.Match = eng.match(ctx, src, targetResults)
	}
	eng.finishComparison(cmp)

	res, alert, err := eng.record(ctx, listing.URL, cmp, req.Email, req.Threshold)
	if alert != nil {
		res.AlertSent = eng.dispatch(ctx, []notify.AlertPayload{*alert}) == nil
	}
	return res, err
}

// ManualEntry appends a user-supplied price. It is the fallback when the
// source page cannot be fetched or parsed.
func (eng *Engine) ManualEntry(ctx context.Context, req ManualRequest) (*TrackResult, error) {
	if err := scrape.ValidateURL(req.URL); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: manual entry needs a name", domain.ErrParse)
	}
	if req.Price <= 0 || price.IsUnavailable(req.Price) {
		return nil, fmt.Errorf("%w: manual entry needs a positive price", domain.ErrParse)
	}

	cmp := &domain.Comparison{
		Source: domain.RawListing{
			Title:     name,
			PriceText: price.Format(req.Price),
			URL:       req.URL,
		},
		SourcePrice: domain.Price(req.Price),
		TargetPrice: domain.Unavailable,
		Match:       domain.MatchResult{Confidence: domain.ConfidenceNone},
	}
	cmp.Difference = price.Compare(req.Price, float64(domain.Unavailable))

	res, alert, err := eng.record(ctx, req.URL, cmp, req.Email, req.Threshold)
	if res != nil {
		res.Comparison = nil
	}
	if alert != nil {
		res.AlertSent = eng.dispatch(ctx, []notify.AlertPayload{*alert}) == nil
	}
	return res, err
}

// Product returns the tracked product stored under key.
func (eng *Engine) Product(key string) (*domain.TrackedProduct, error) {
	p, ok := eng.history.Get(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotTracked, key)
	}
	return p, nil
}

// Products lists tracked products through the repository.
func (eng *Engine) Products(ctx context.Context, q *store.ProductQuery) ([]domain.TrackedProduct, int, error) {
	return eng.history.Query(ctx, q)
}

// Analyze forecasts the next price and flags anomalous observations.
func (eng *Engine) Analyze(key string) (*trend.Analysis, error) {
	p, err := eng.Product(key)
	if err != nil {
		return nil, err
	}
	a := trend.Analyze(p, eng.trendOpts...)
	return &a, nil
}

// Untrack removes a product and its history.
func (eng *Engine) Untrack(ctx context.Context, key string) error {
	return eng.history.Delete(ctx, key)
}

// Ready checks the repository connection.
func (eng *Engine) Ready(ctx context.Context) error {
	return eng.history.Ping(ctx)
}

// RefreshSummary reports a refresh run.
type RefreshSummary struct {
	Refreshed int      `json:"refreshed"`
	Failed    int      `json:"failed"`
	Triggered int      `json:"triggered"`
	Errors    []string `json:"errors,omitempty"`
}

// RefreshAll re-tracks every product sequentially, keeping each product's
// owner and threshold. Triggered alerts are dispatched together at the end.
func (eng *Engine) RefreshAll(ctx context.Context) (*RefreshSummary, error) {
	ctx, span := tracer.Start(ctx, "engine.RefreshAll")
	defer span.End()

	if err := eng.history.Load(ctx); err != nil {
		metrics.RefreshRunsTotal.WithLabelValues("failed").Inc()
		return nil, err
	}

	sum := &RefreshSummary{}
	var alerts []notify.AlertPayload
	for _, key := range eng.history.Keys() {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		res, alert, err := eng.track(ctx, TrackRequest{URL: key})
		if err != nil {
			sum.Failed++
			sum.Errors = append(sum.Errors, fmt.Sprintf("%s: %v", key, err))
			eng.log.Error("refresh failed", "key", key, "error", err)
			if res == nil {
				continue
			}
		} else {
			sum.Refreshed++
		}
		if alert != nil {
			sum.Triggered++
			alerts = append(alerts, *alert)
		}
	}

	if len(alerts) > 0 {
		if err := eng.dispatch(ctx, alerts); err != nil {
			eng.log.Error("refresh alert dispatch failed", "error", err)
		}
	}

	switch {
	case sum.Failed == 0:
		metrics.RefreshRunsTotal.WithLabelValues("success").Inc()
		metrics.RefreshLastSuccessTimestamp.SetToCurrentTime()
	case sum.Refreshed > 0:
		metrics.RefreshRunsTotal.WithLabelValues("partial").Inc()
	default:
		metrics.RefreshRunsTotal.WithLabelValues("failed").Inc()
	}
	span.SetAttributes(attribute.Int("refreshed", sum.Refreshed), attribute.Int("failed", sum.Failed))
	eng.log.Info("refresh complete",
		"refreshed", sum.Refreshed, "failed", sum.Failed, "triggered", sum.Triggered)
	return sum, nil
}

// Stats summarizes the tracked working set.
type Stats struct {
	Products      int `json:"products"`
	PricePoints   int `json:"price_points"`
	WithThreshold int `json:"with_threshold"`
	Triggered     int `json:"triggered"`
	Unavailable   int `json:"unavailable"`
}

// Stats counts products and observations in the working set. Triggered
// counts products whose latest price is at or below their threshold.
func (eng *Engine) Stats(ctx context.Context) (*Stats, error) {
	if err := eng.history.Load(ctx); err != nil {
		return nil, err
	}
	st := &Stats{}
	for _, p := range eng.history.All() {
		st.Products++
		st.PricePoints += len(p.Prices)
		if p.Threshold != nil {
			st.WithThreshold++
		}
		latest, ok := p.Latest()
		if !ok {
			continue
		}
		if Triggered(float64(latest.Price), p.Threshold) {
			st.Triggered++
		}
		if latest.Price.IsUnavailable() {
			st.Unavailable++
		}
	}
	return st, nil
}
