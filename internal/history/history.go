// Package history maintains the in-memory working set of tracked products
// and flushes every mutation to the product repository.
package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/donaldgifford/market-price-tracker/internal/metrics"
	"github.com/donaldgifford/market-price-tracker/internal/store"
	domain "github.com/donaldgifford/market-price-tracker/pkg/types"
)

// Store is the price history working set. It is loaded from the repository
// once per session; reads are served from memory and every write is flushed.
type Store struct {
	repo   store.ProductRepository
	log    *slog.Logger
	mu     sync.RWMutex
	items  map[string]*domain.TrackedProduct
	loaded bool
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		s.log = l
	}
}

// New creates a Store backed by repo.
func New(repo store.ProductRepository, opts ...Option) *Store {
	s := &Store{
		repo:  repo,
		log:   slog.Default(),
		items: make(map[string]*domain.TrackedProduct),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load populates the working set from the repository. Subsequent calls are
// no-ops; use Reload to force a refresh.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return nil
	}
	return s.loadLocked(ctx)
}

// Reload discards the working set and reads it again from the repository.
func (s *Store) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *Store) loadLocked(ctx context.Context) error {
	products, _, err := s.repo.List(ctx, nil)
	if err != nil {
		return fmt.Errorf("loading tracked products: %w", err)
	}

	items := make(map[string]*domain.TrackedProduct, len(products))
	for i := range products {
		p := products[i]
		items[p.Key] = &p
	}
	s.items = items
	s.loaded = true
	metrics.TrackedProducts.Set(float64(len(items)))
	s.log.Debug("history loaded", "products", len(items))
	return nil
}

type appendOptions struct {
	ownerEmail *string
	threshold  *float64
	clearLimit bool
}

// AppendOption sets product metadata alongside an append.
type AppendOption func(*appendOptions)

// WithOwnerEmail sets the product's owner address.
func WithOwnerEmail(email string) AppendOption {
	return func(o *appendOptions) {
		o.ownerEmail = &email
	}
}

// WithThreshold sets the product's alert threshold.
func WithThreshold(v float64) AppendOption {
	return func(o *appendOptions) {
		o.threshold = &v
		o.clearLimit = false
	}
}

// WithoutThreshold removes any alert threshold.
func WithoutThreshold() AppendOption {
	return func(o *appendOptions) {
		o.threshold = nil
		o.clearLimit = true
	}
}

// Append records pt for key. An unknown key creates a new product with a
// single point, unless the repository already holds a row for it (see
// adoptLocked). For a known key the point replaces any existing point with
// the same timestamp, and is otherwise inserted in timestamp order (in
// practice at the end). A non-empty name replaces the stored name.
//
// The mutation is flushed to the repository. If that fails the in-memory
// change is kept and the returned error wraps domain.ErrPersistence.
func (s *Store) Append(
	ctx context.Context,
	key, name string,
	pt domain.PricePoint,
	opts ...AppendOption,
) (*domain.TrackedProduct, error) {
	var o appendOptions
	for _, opt := range opts {
		opt(&o)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		if err := s.loadLocked(ctx); err != nil {
			return nil, err
		}
	}

	p, ok := s.items[key]
	if !ok {
		var err error
		if p, err = s.adoptLocked(ctx, key, name); err != nil {
			return nil, err
		}
	} else if name != "" {
		p.Name = name
	}

	p.Prices = merge(p.Prices, pt)
	if o.ownerEmail != nil {
		p.OwnerEmail = *o.ownerEmail
	}
	switch {
	case o.threshold != nil:
		p.Threshold = o.threshold
	case o.clearLimit:
		p.Threshold = nil
	}
	metrics.PricePointsRecordedTotal.Inc()

	out := p.Clone()
	if err := s.repo.Upsert(ctx, p); err != nil {
		metrics.StoreWriteFailuresTotal.Inc()
		s.log.Error("flushing price history", "key", key, "error", err)
		return out, errors.Join(domain.ErrPersistence, err)
	}
	return out, nil
}

// adoptLocked resolves a key missing from the working set. The repository
// is consulted first: a row written since Load is adopted, and a row that
// Load skipped because its series could not be decoded is never replaced,
// since the upsert would erase that history.
func (s *Store) adoptLocked(ctx context.Context, key, name string) (*domain.TrackedProduct, error) {
	p, err := s.repo.Get(ctx, key)
	switch {
	case errors.Is(err, store.ErrNotFound):
		p = &domain.TrackedProduct{Key: key, Name: name}
	case errors.Is(err, store.ErrSeriesSyntax):
		s.log.Error("refusing to overwrite unreadable price history", "key", key, "error", err)
		return nil, errors.Join(domain.ErrPersistence, fmt.Errorf("stored history for %s is unreadable: %w", key, err))
	case err != nil:
		return nil, errors.Join(domain.ErrPersistence, fmt.Errorf("looking up %s: %w", key, err))
	default:
		if name != "" {
			p.Name = name
		}
	}
	s.items[key] = p
	metrics.TrackedProducts.Set(float64(len(s.items)))
	return p, nil
}

// merge inserts pt into the ordered series, replacing an equal timestamp.
func merge(points []domain.PricePoint, pt domain.PricePoint) []domain.PricePoint {
	n := len(points)
	if n == 0 || points[n-1].Timestamp < pt.Timestamp {
		return append(points, pt)
	}

	i := sort.Search(n, func(i int) bool {
		return points[i].Timestamp >= pt.Timestamp
	})
	if i < n && points[i].Timestamp == pt.Timestamp {
		points[i] = pt
		return points
	}
	points = append(points, domain.PricePoint{})
	copy(points[i+1:], points[i:])
	points[i] = pt
	return points
}

// Get returns a copy of the product stored under key.
func (s *Store) Get(key string) (*domain.TrackedProduct, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.items[key]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

// All returns copies of every product keyed by product key.
func (s *Store) All() map[string]*domain.TrackedProduct {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]*domain.TrackedProduct, len(s.items))
	for k, p := range s.items {
		out[k] = p.Clone()
	}
	return out
}

// Keys returns every product key in sorted order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.items))
	for k := range s.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Query reads a filtered page of products straight from the repository.
func (s *Store) Query(ctx context.Context, q *store.ProductQuery) ([]domain.TrackedProduct, int, error) {
	products, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("querying tracked products: %w", err)
	}
	return products, total, nil
}

// Ping checks the repository connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// Len reports the number of products in the working set.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Delete removes a product from the repository and the working set.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Delete(ctx, key); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			if _, ok := s.items[key]; !ok {
				return domain.ErrNotTracked
			}
		} else {
			return errors.Join(domain.ErrPersistence, err)
		}
	}
	delete(s.items, key)
	metrics.TrackedProducts.Set(float64(len(s.items)))
	return nil
}
