package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	domain "github.com/donaldgifford/market-price-tracker/pkg/types"
)

// MemoryStore is a process-local ProductRepository. Nothing survives a
// restart; it backs tests and throwaway sessions.
type MemoryStore struct {
	mu       sync.RWMutex
	products map[string]*domain.TrackedProduct
	updated  map[string]time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products: make(map[string]*domain.TrackedProduct),
		updated:  make(map[string]time.Time),
	}
}

// Upsert stores a copy of p.
func (s *MemoryStore) Upsert(_ context.Context, p *domain.TrackedProduct) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.Key] = p.Clone()
	s.updated[p.Key] = time.Now()
	return nil
}

// Get returns a copy of the product stored under key.
func (s *MemoryStore) Get(_ context.Context, key string) (*domain.TrackedProduct, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[key]
	if !ok {
		return nil, ErrNotFound
	}
	return p.Clone(), nil
}

// List returns copies of the products matching q.
func (s *MemoryStore) List(_ context.Context, q *ProductQuery) ([]domain.TrackedProduct, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var needle string
	if q != nil {
		needle = strings.ToLower(strings.TrimSpace(q.Search))
	}

	matched := make([]domain.TrackedProduct, 0, len(s.products))
	for _, p := range s.products {
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Key), needle) {
			continue
		}
		matched = append(matched, *p.Clone())
	}

	var orderBy string
	if q != nil {
		orderBy = q.OrderBy
	}
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		switch orderBy {
		case orderByName:
			if a.Name != b.Name {
				return a.Name < b.Name
			}
		case orderByUpdated:
			ta, tb := s.updated[a.Key], s.updated[b.Key]
			if !ta.Equal(tb) {
				return ta.After(tb)
			}
		}
		return a.Key < b.Key
	})

	total := len(matched)
	if q == nil {
		return matched, total, nil
	}

	limit, offset := q.limits()
	if offset >= total {
		return []domain.TrackedProduct{}, total, nil
	}
	end := min(offset+limit, total)
	return matched[offset:end], total, nil
}

// Delete removes the product stored under key.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[key]; !ok {
		return ErrNotFound
	}
	delete(s.products, key)
	delete(s.updated, key)
	return nil
}

// Ping always succeeds.
func (*MemoryStore) Ping(context.Context) error { return nil }

// Close is a no-op.
func (*MemoryStore) Close() {}
