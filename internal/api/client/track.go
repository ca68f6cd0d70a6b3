package client

import (
	"context"

	"github.com/donaldgifford/market-price-tracker/internal/engine"
	domain "github.com/donaldgifford/market-price-tracker/pkg/types"
)

// TrackParams are the optional settings for a tracking request.
type TrackParams struct {
	Email     string
	Threshold *float64
}

type trackRequest struct {
	URL       string   `json:"url,omitempty"`
	Query     string   `json:"query,omitempty"`
	Name      string   `json:"name,omitempty"`
	Price     float64  `json:"price,omitempty"`
	Email     string   `json:"email,omitempty"`
	Threshold *float64 `json:"threshold,omitempty"`
}

// Track records the current price of a source listing.
func (c *Client) Track(ctx context.Context, listingURL string, p TrackParams) (*engine.TrackResult, error) {
	var res engine.TrackResult
	req := trackRequest{URL: listingURL, Email: p.Email, Threshold: p.Threshold}
	if err := c.post(ctx, "/api/v1/track", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// TrackByQuery tracks the best source listing for a description.
func (c *Client) TrackByQuery(ctx context.Context, query string, p TrackParams) (*engine.TrackResult, error) {
	var res engine.TrackResult
	req := trackRequest{Query: query, Email: p.Email, Threshold: p.Threshold}
	if err := c.post(ctx, "/api/v1/track/query", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ManualEntry records a hand-entered price for a listing.
func (c *Client) ManualEntry(
	ctx context.Context,
	listingURL, name string,
	price float64,
	p TrackParams,
) (*engine.TrackResult, error) {
	var res engine.TrackResult
	req := trackRequest{URL: listingURL, Name: name, Price: price, Email: p.Email, Threshold: p.Threshold}
	if err := c.post(ctx, "/api/v1/products/manual", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Compare returns the cross-site comparison for a listing without
// recording it.
func (c *Client) Compare(ctx context.Context, listingURL string) (*domain.Comparison, error) {
	var cmp domain.Comparison
	if err := c.post(ctx, "/api/v1/compare", map[string]string{"url": listingURL}, &cmp); err != nil {
		return nil, err
	}
	return &cmp, nil
}

// Refresh re-tracks every product.
func (c *Client) Refresh(ctx context.Context) (*engine.RefreshSummary, error) {
	var sum engine.RefreshSummary
	if err := c.post(ctx, "/api/v1/refresh", nil, &sum); err != nil {
		return nil, err
	}
	return &sum, nil
}
