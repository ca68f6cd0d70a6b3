package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"

	domain "github.com/donaldgifford/market-price-tracker/pkg/types"
)

// manualEntryHint is attached to fetch and parse failures so clients can
// offer the manual price form.
var manualEntryHint = &huma.ErrorDetail{
	Location: "manual_entry",
	Message:  "record the price by hand with POST /api/v1/products/manual",
}

// apiError maps an engine error onto an HTTP status.
func apiError(op string, err error) error {
	msg := op + ": " + err.Error()
	switch {
	case errors.Is(err, domain.ErrInvalidURL):
		return huma.Error400BadRequest(msg)
	case errors.Is(err, domain.ErrNotTracked):
		return huma.Error404NotFound(msg)
	case errors.Is(err, domain.ErrFetch), errors.Is(err, domain.ErrParse):
		return huma.Error502BadGateway(msg, manualEntryHint)
	case errors.Is(err, domain.ErrMatchUnavailable):
		return huma.Error502BadGateway(msg)
	case errors.Is(err, context.DeadlineExceeded):
		return huma.Error504GatewayTimeout(msg)
	default:
		return huma.Error500InternalServerError(msg)
	}
}
