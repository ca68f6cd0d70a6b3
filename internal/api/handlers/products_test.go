package handlers_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/market-price-tracker/internal/api/handlers"
	"github.com/donaldgifford/market-price-tracker/internal/engine"
	"github.com/donaldgifford/market-price-tracker/internal/store"
	"github.com/donaldgifford/market-price-tracker/pkg/trend"
	domain "github.com/donaldgifford/market-price-tracker/pkg/types"
)

// fakeCatalog implements handlers.Catalog over a fixed product set.
type fakeCatalog struct {
	products []domain.TrackedProduct
	listErr  error
	delErr   error
	gotQuery *store.ProductQuery
	deleted  string
}

func (f *fakeCatalog) Product(key string) (*domain.TrackedProduct, error) {
	for i := range f.products {
		if f.products[i].Key == key {
			return f.products[i].Clone(), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrNotTracked, key)
}

func (f *fakeCatalog) Products(_ context.Context, q *store.ProductQuery) ([]domain.TrackedProduct, int, error) {
	f.gotQuery = q
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	return f.products, len(f.products), nil
}

func (f *fakeCatalog) Analyze(key string) (*trend.Analysis, error) {
	p, err := f.Product(key)
	if err != nil {
		return nil, err
	}
	a := trend.Analyze(p)
	return &a, nil
}

func (f *fakeCatalog) Untrack(_ context.Context, key string) error {
	if f.delErr != nil {
		return f.delErr
	}
	if _, err := f.Product(key); err != nil {
		return err
	}
	f.deleted = key
	return nil
}

func (f *fakeCatalog) Stats(context.Context) (*engine.Stats, error) {
	return &engine.Stats{Products: len(f.products)}, nil
}

func catalogFixture() *fakeCatalog {
	th := 3000.0
	return &fakeCatalog{products: []domain.TrackedProduct{
		{
			Key:  listingURL,
			Name: "Acme Blender X100",
			Prices: []domain.PricePoint{
				{Timestamp: "2024-05-01 10:00:00", Price: 3499},
				{Timestamp: "2024-05-02 10:00:00", Price: 3399},
			},
			Threshold: &th,
		},
		{
			Key:    "https://www.example.in/dp/B0ZZZZZZZ1",
			Name:   "Discontinued Kettle",
			Prices: []domain.PricePoint{{Timestamp: "2024-05-02 10:00:00", Price: domain.Unavailable}},
		},
	}}
}

func keyPath(path, key string) string {
	return path + "?key=" + url.QueryEscape(key)
}

func TestProductsHandler_List(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		path       string
		listErr    error
		wantStatus int
		wantBody   []string
	}{
		{
			name:       "lists latest prices",
			path:       "/api/v1/products",
			wantStatus: http.StatusOK,
			wantBody: []string{
				`"total":2`,
				`"latest":3399`,
				`"updated_at":"2024-05-02 10:00:00"`,
				`"latest":null`,
				`"limit":50`,
			},
		},
		{
			name:       "invalid order returns 422",
			path:       "/api/v1/products?order_by=price",
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "repository failure returns 500",
			path:       "/api/v1/products",
			listErr:    errors.New("conn refused"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   []string{"listing products"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := catalogFixture()
			c.listErr = tt.listErr
			_, api := humatest.New(t)
			handlers.RegisterProductRoutes(api, handlers.NewProductsHandler(c))

			resp := api.Get(tt.path)
			require.Equal(t, tt.wantStatus, resp.Code, resp.Body.String())
			for _, w := range tt.wantBody {
				assert.Contains(t, resp.Body.String(), w)
			}
		})
	}
}

func TestProductsHandler_ListPassesFilters(t *testing.T) {
	t.Parallel()

	c := catalogFixture()
	_, api := humatest.New(t)
	handlers.RegisterProductRoutes(api, handlers.NewProductsHandler(c))

	resp := api.Get("/api/v1/products?search=kettle&limit=5&offset=1&order_by=updated")
	require.Equal(t, http.StatusOK, resp.Code)
	require.NotNil(t, c.gotQuery)
	assert.Equal(t, store.ProductQuery{Search: "kettle", Limit: 5, Offset: 1, OrderBy: "updated"}, *c.gotQuery)
}

func TestProductsHandler_Lookup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "returns full series",
			path:       keyPath("/api/v1/products/lookup", listingURL),
			wantStatus: http.StatusOK,
			wantBody:   `"timestamp":"2024-05-01 10:00:00"`,
		},
		{
			name:       "unknown key returns 404",
			path:       keyPath("/api/v1/products/lookup", "https://www.example.in/dp/NOPE"),
			wantStatus: http.StatusNotFound,
			wantBody:   "product not tracked",
		},
		{
			name:       "missing key returns 422",
			path:       "/api/v1/products/lookup",
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, api := humatest.New(t)
			handlers.RegisterProductRoutes(api, handlers.NewProductsHandler(catalogFixture()))

			resp := api.Get(tt.path)
			require.Equal(t, tt.wantStatus, resp.Code, resp.Body.String())
			if tt.wantBody != "" {
				assert.Contains(t, resp.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestProductsHandler_Analysis(t *testing.T) {
	t.Parallel()

	_, api := humatest.New(t)
	handlers.RegisterProductRoutes(api, handlers.NewProductsHandler(catalogFixture()))

	resp := api.Get(keyPath("/api/v1/products/analysis", listingURL))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Contains(t, resp.Body.String(), `"points":2`)
	assert.Contains(t, resp.Body.String(), `"anomalies":[]`)

	resp = api.Get(keyPath("/api/v1/products/analysis", "https://www.example.in/dp/NOPE"))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestProductsHandler_Delete(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		key        string
		delErr     error
		wantStatus int
	}{
		{name: "removes product", key: listingURL, wantStatus: http.StatusNoContent},
		{name: "unknown key returns 404", key: "https://www.example.in/dp/NOPE", wantStatus: http.StatusNotFound},
		{
			name:       "persistence failure returns 500",
			key:        listingURL,
			delErr:     errors.Join(domain.ErrPersistence, errors.New("read-only")),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := catalogFixture()
			c.delErr = tt.delErr
			_, api := humatest.New(t)
			handlers.RegisterProductRoutes(api, handlers.NewProductsHandler(c))

			resp := api.Delete(keyPath("/api/v1/products", tt.key))
			require.Equal(t, tt.wantStatus, resp.Code, resp.Body.String())
			if tt.wantStatus == http.StatusNoContent {
				assert.Equal(t, tt.key, c.deleted)
			}
		})
	}
}

func TestProductsHandler_Stats(t *testing.T) {
	t.Parallel()

	_, api := humatest.New(t)
	handlers.RegisterProductRoutes(api, handlers.NewProductsHandler(catalogFixture()))

	resp := api.Get("/api/v1/system/state")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"products":2`)
}
