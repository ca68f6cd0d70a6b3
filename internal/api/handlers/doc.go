// Package handlers serves the market-price-tracker HTTP API. The liveness
// and readiness checks are bare echo handlers so they stay out of the
// OpenAPI document; everything under /api/v1 is a huma operation.
package handlers
