package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/donaldgifford/market-price-tracker/pkg/types"
)

func ptr[T any](v T) *T { return &v }

func testProduct(key, name string, prices ...float64) *domain.TrackedProduct {
	p := &domain.TrackedProduct{Key: key, Name: name}
	for i, v := range prices {
		p.Prices = append(p.Prices, domain.PricePoint{
			Timestamp: "2024-05-0" + string(rune('1'+i)) + " 10:00:00",
			Price:     domain.Price(v),
		})
	}
	return p
}

// repositoryContract exercises behavior every backend must share.
func repositoryContract(t *testing.T, repo ProductRepository) {
	t.Helper()
	ctx := context.Background()

	_, err := repo.Get(ctx, "https://s.example/dp/MISSING000")
	require.ErrorIs(t, err, ErrNotFound)

	p := testProduct("https://s.example/dp/B000000001", "Acme Blender", 3499, 3299)
	p.OwnerEmail = "owner@example.com"
	p.Threshold = ptr(3000.0)
	require.NoError(t, repo.Upsert(ctx, p))

	got, err := repo.Get(ctx, p.Key)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	// Upsert replaces wholesale and is idempotent.
	p.Prices = append(p.Prices, domain.PricePoint{Timestamp: "2024-05-09 10:00:00", Price: domain.Unavailable})
	p.Threshold = nil
	require.NoError(t, repo.Upsert(ctx, p))
	require.NoError(t, repo.Upsert(ctx, p))

	got, err = repo.Get(ctx, p.Key)
	require.NoError(t, err)
	require.Len(t, got.Prices, 3)
	assert.True(t, got.Prices[2].Price.IsUnavailable())
	assert.Nil(t, got.Threshold)

	require.NoError(t, repo.Upsert(ctx, testProduct("https://s.example/dp/B000000002", "Widget Mixer", 999)))
	require.NoError(t, repo.Upsert(ctx, testProduct("https://s.example/dp/B000000003", "Kettle", 1299)))

	all, total, err := repo.List(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, all, 3)
	assert.Equal(t, "https://s.example/dp/B000000001", all[0].Key)

	page, total, err := repo.List(ctx, &ProductQuery{Search: "MIXER"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, page, 1)
	assert.Equal(t, "Widget Mixer", page[0].Name)

	page, total, err = repo.List(ctx, &ProductQuery{OrderBy: "name", Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, page, 1)
	assert.Equal(t, "Kettle", page[0].Name)

	// Wildcard characters in a search are literal on every backend.
	for _, term := range []string{"%", "_", "0_"} {
		_, total, err = repo.List(ctx, &ProductQuery{Search: term})
		require.NoError(t, err)
		assert.Zero(t, total, "search %q", term)
	}
	require.NoError(t, repo.Upsert(ctx, testProduct("https://s.example/dp/B000000004", "Towel 100% Cotton", 499)))
	page, total, err = repo.List(ctx, &ProductQuery{Search: "100%"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, page, 1)
	assert.Equal(t, "Towel 100% Cotton", page[0].Name)
	require.NoError(t, repo.Delete(ctx, "https://s.example/dp/B000000004"))

	require.NoError(t, repo.Delete(ctx, "https://s.example/dp/B000000003"))
	require.ErrorIs(t, repo.Delete(ctx, "https://s.example/dp/B000000003"), ErrNotFound)

	require.NoError(t, repo.Ping(ctx))
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()
	repositoryContract(t, NewMemoryStore())
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := NewMemoryStore()
	p := testProduct("k", "name", 10)
	require.NoError(t, s.Upsert(ctx, p))

	p.Prices[0].Price = 1
	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.InDelta(t, 10.0, float64(got.Prices[0].Price), 0)

	got.Name = "changed"
	again, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "name", again.Name)
}

func TestSQLiteStore(t *testing.T) {
	t.Parallel()

	s, err := NewSQLiteStore(context.Background(), t.TempDir()+"/products.db", nil)
	require.NoError(t, err)
	t.Cleanup(s.Close)

	repositoryContract(t, s)
}

func TestSQLiteStore_OpensLegacyDatabase(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := t.TempDir() + "/products.db"

	// Seed a database in the shape written by the earlier tracker.
	legacy, err := NewSQLiteStore(ctx, path, nil)
	require.NoError(t, err)
	_, err = legacy.db.ExecContext(ctx,
		"INSERT INTO tracked_products (url, name, prices) VALUES (?, ?, ?)",
		"https://s.example/dp/B0LEGACY01", "Old Product",
		"[('2024-01-01 10:00:00', 1499.0), ('2024-01-02 10:00:00', inf)]",
	)
	require.NoError(t, err)
	_, err = legacy.db.ExecContext(ctx,
		"INSERT INTO tracked_products (url, name, prices) VALUES (?, ?, ?)",
		"https://s.example/dp/B0CORRUPT1", "Corrupt", "__import__('os')",
	)
	require.NoError(t, err)
	legacy.Close()

	s, err := NewSQLiteStore(ctx, path, nil)
	require.NoError(t, err)
	t.Cleanup(s.Close)

	got, err := s.Get(ctx, "https://s.example/dp/B0LEGACY01")
	require.NoError(t, err)
	require.Len(t, got.Prices, 2)
	assert.InDelta(t, 1499.0, float64(got.Prices[0].Price), 0)
	assert.True(t, got.Prices[1].Price.IsUnavailable())

	_, err = s.Get(ctx, "https://s.example/dp/B0CORRUPT1")
	require.ErrorIs(t, err, ErrSeriesSyntax)

	all, total, err := s.List(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, all, 1)
}

func TestOpen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo, err := Open(ctx, DriverMemory, "", nil)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, repo)

	_, err = Open(ctx, "oracle", "", nil)
	require.Error(t, err)
}
