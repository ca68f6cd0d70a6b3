package client

import (
	"context"
	"net/url"
	"strconv"

	"github.com/donaldgifford/market-price-tracker/internal/api/handlers"
	"github.com/donaldgifford/market-price-tracker/internal/engine"
	"github.com/donaldgifford/market-price-tracker/pkg/trend"
	domain "github.com/donaldgifford/market-price-tracker/pkg/types"
)

// ProductsResponse wraps a paginated product list.
type ProductsResponse struct {
	Products []handlers.ProductSummary `json:"products"`
	Total    int                       `json:"total"`
	Limit    int                       `json:"limit"`
	Offset   int                       `json:"offset"`
}

// ListProductsParams defines query parameters for product listings.
type ListProductsParams struct {
	Search  string
	Limit   int
	Offset  int
	OrderBy string
}

// ListProducts returns tracked products with their latest price.
func (c *Client) ListProducts(ctx context.Context, params *ListProductsParams) (*ProductsResponse, error) {
	q := url.Values{}
	if params != nil {
		if params.Search != "" {
			q.Set("search", params.Search)
		}
		if params.Limit > 0 {
			q.Set("limit", strconv.Itoa(params.Limit))
		}
		if params.Offset > 0 {
			q.Set("offset", strconv.Itoa(params.Offset))
		}
		if params.OrderBy != "" {
			q.Set("order_by", params.OrderBy)
		}
	}

	path := "/api/v1/products"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp ProductsResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func keyQuery(path, key string) string {
	return path + "?" + url.Values{"key": {key}}.Encode()
}

// GetProduct returns a tracked product with its full price series.
func (c *Client) GetProduct(ctx context.Context, key string) (*domain.TrackedProduct, error) {
	var p domain.TrackedProduct
	if err := c.get(ctx, keyQuery("/api/v1/products/lookup", key), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// AnalyzeProduct returns the forecast and anomaly flags for a product.
func (c *Client) AnalyzeProduct(ctx context.Context, key string) (*trend.Analysis, error) {
	var a trend.Analysis
	if err := c.get(ctx, keyQuery("/api/v1/products/analysis", key), &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// DeleteProduct stops tracking a product.
func (c *Client) DeleteProduct(ctx context.Context, key string) error {
	return c.del(ctx, keyQuery("/api/v1/products", key), nil)
}

// SystemState returns counts over the tracked working set.
func (c *Client) SystemState(ctx context.Context) (*engine.Stats, error) {
	var st engine.Stats
	if err := c.get(ctx, "/api/v1/system/state", &st); err != nil {
		return nil, err
	}
	return &st, nil
}
