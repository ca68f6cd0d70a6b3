package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/market-price-tracker/internal/engine"
	domain "github.com/donaldgifford/market-price-tracker/pkg/types"
)

const listingURL = "https://www.example.in/dp/B0ABCDEF12"

func TestClient_ConnectionRefused(t *testing.T) {
	t.Parallel()

	c := New("http://127.0.0.1:1") // nothing listening
	_, err := c.ListProducts(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API server not running")
}

func TestClient_HTTPError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		status     int
		body       string
		wantDetail string
		wantManual bool
		wantNotFnd bool
	}{
		{
			name:       "problem body with manual entry hint",
			status:     http.StatusBadGateway,
			body:       `{"title":"Bad Gateway","status":502,"detail":"tracking product: fetch failed","errors":[{"location":"manual_entry","message":"record the price by hand"}]}`,
			wantDetail: "tracking product: fetch failed",
			wantManual: true,
		},
		{
			name:       "not found",
			status:     http.StatusNotFound,
			body:       `{"title":"Not Found","status":404,"detail":"looking up product: product not tracked"}`,
			wantDetail: "product not tracked",
			wantNotFnd: true,
		},
		{
			name:       "plain text body",
			status:     http.StatusInternalServerError,
			body:       "internal",
			wantDetail: "internal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := New(srv.URL).GetProduct(context.Background(), listingURL)
			require.Error(t, err)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Contains(t, apiErr.Detail, tt.wantDetail)
			assert.Equal(t, tt.wantManual, apiErr.ManualEntrySuggested())
			assert.Equal(t, tt.wantNotFnd, apiErr.NotFound())
			assert.Contains(t, err.Error(), "API error (HTTP")
		})
	}
}

func TestClient_ListProducts(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/products", r.URL.Path)
		assert.Equal(t, "kettle", r.URL.Query().Get("search"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"products":[{"key":"` + listingURL + `","name":"Kettle","latest":null,"points":1}],"total":1,"limit":5,"offset":0}`))
	}))
	defer srv.Close()

	resp, err := New(srv.URL).ListProducts(context.Background(), &ListProductsParams{Search: "kettle", Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Products, 1)
	assert.True(t, resp.Products[0].Latest.IsUnavailable())
}

func TestClient_KeyTravelsAsQuery(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		// Echo the routing details back so the test reads them from the body.
		_ = json.NewEncoder(w).Encode(domain.TrackedProduct{
			Key:  r.URL.Query().Get("key"),
			Name: r.URL.Path,
		})
	}))
	defer srv.Close()

	key := listingURL + "?ref=abc&th=1"
	p, err := New(srv.URL).GetProduct(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/products/lookup", p.Name)
	assert.Equal(t, key, p.Key)
}

func TestClient_Track(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/track", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, listingURL, body["url"])
		assert.InDelta(t, 3500.0, body["threshold"], 0)
		_, hasQuery := body["query"]
		assert.False(t, hasQuery)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(engine.TrackResult{
			Product:   &domain.TrackedProduct{Key: listingURL, Name: "Acme"},
			Triggered: true,
		})
	}))
	defer srv.Close()

	th := 3500.0
	res, err := New(srv.URL).Track(context.Background(), listingURL, TrackParams{Threshold: &th})
	require.NoError(t, err)
	assert.True(t, res.Triggered)
	assert.Equal(t, "Acme", res.Product.Name)
}

func TestClient_ManualEntryAndRefresh(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/v1/products/manual":
			var body map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "Acme", body["name"])
			_ = json.NewEncoder(w).Encode(engine.TrackResult{Product: &domain.TrackedProduct{Key: listingURL}})
		case "/api/v1/refresh":
			_ = json.NewEncoder(w).Encode(engine.RefreshSummary{Refreshed: 2})
		case "/api/v1/products":
			assert.Equal(t, http.MethodDelete, r.Method)
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	ctx := context.Background()

	res, err := c.ManualEntry(ctx, listingURL, "Acme", 2500, TrackParams{})
	require.NoError(t, err)
	assert.Equal(t, listingURL, res.Product.Key)

	sum, err := c.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Refreshed)

	require.NoError(t, c.DeleteProduct(ctx, listingURL))
}

func TestWithHTTPClient(t *testing.T) {
	t.Parallel()

	custom := &http.Client{}
	c := New("http://localhost:8080", WithHTTPClient(custom))
	assert.Same(t, custom, c.httpClient)

	c = New("http://localhost:8080/", WithTimeout(5*time.Second))
	assert.Equal(t, 5*time.Second, c.httpClient.Timeout)
	assert.Equal(t, "http://localhost:8080", c.baseURL)
}
