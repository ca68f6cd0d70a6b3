package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/market-price-tracker/internal/engine"
	domain "github.com/donaldgifford/market-price-tracker/pkg/types"
)

// Tracker records prices and compares listings across sites.
type Tracker interface {
	Track(ctx context.Context, req engine.TrackRequest) (*engine.TrackResult, error)
	TrackByQuery(ctx context.Context, req engine.QueryRequest) (*engine.TrackResult, error)
	ManualEntry(ctx context.Context, req engine.ManualRequest) (*engine.TrackResult, error)
	Compare(ctx context.Context, url string) (*domain.Comparison, error)
}

// TrackHandler handles tracking and comparison requests.
type TrackHandler struct {
	tracker Tracker
}

// NewTrackHandler creates a new TrackHandler.
func NewTrackHandler(t Tracker) *TrackHandler {
	return &TrackHandler{tracker: t}
}

// --- Input/Output types ---

// TrackInput is the request body for tracking a listing URL.
type TrackInput struct {
	Body struct {
		URL       string   `json:"url"                 minLength:"1" doc:"Source listing URL"                     example:"https://www.amazon.in/dp/B0ABCDEF12"`
		Email     string   `json:"email,omitempty"     format:"email" doc:"Address that receives threshold alerts"`
		Threshold *float64 `json:"threshold,omitempty" minimum:"0"   doc:"Alert when the price drops to or below this"`
	}
}

// TrackQueryInput is the request body for tracking by description.
type TrackQueryInput struct {
	Body struct {
		Query     string   `json:"query"               minLength:"1" doc:"Free-text product description" example:"acme blender x100"`
		Email     string   `json:"email,omitempty"     format:"email" doc:"Address that receives threshold alerts"`
		Threshold *float64 `json:"threshold,omitempty" minimum:"0"   doc:"Alert when the price drops to or below this"`
	}
}

// ManualInput is the request body for a hand-entered price.
type ManualInput struct {
	Body struct {
		URL       string   `json:"url"                 minLength:"1" doc:"Source listing URL used as the product key"`
		Name      string   `json:"name"                minLength:"1" doc:"Product name"`
		Price     float64  `json:"price"               exclusiveMinimum:"0" doc:"Observed price"`
		Email     string   `json:"email,omitempty"     format:"email" doc:"Address that receives threshold alerts"`
		Threshold *float64 `json:"threshold,omitempty" minimum:"0"   doc:"Alert when the price drops to or below this"`
	}
}

// TrackOutput is the response for tracking operations.
type TrackOutput struct {
	Body *engine.TrackResult
}

// CompareInput is the request body for a one-off comparison.
type CompareInput struct {
	Body struct {
		URL string `json:"url" minLength:"1" doc:"Source listing URL"`
	}
}

// CompareOutput is the response for a comparison.
type CompareOutput struct {
	Body *domain.Comparison
}

// --- Handlers ---

// Track fetches the listing, matches it on the target site and records the
// price.
func (h *TrackHandler) Track(ctx context.Context, input *TrackInput) (*TrackOutput, error) {
	res, err := h.tracker.Track(ctx, engine.TrackRequest{
		URL:       input.Body.URL,
		Email:     input.Body.Email,
		Threshold: input.Body.Threshold,
	})
	if err != nil {
		return nil, apiError("tracking product", err)
	}
	return &TrackOutput{Body: res}, nil
}

// TrackByQuery finds the best source listing for a description and tracks it.
func (h *TrackHandler) TrackByQuery(ctx context.Context, input *TrackQueryInput) (*TrackOutput, error) {
	res, err := h.tracker.TrackByQuery(ctx, engine.QueryRequest{
		Query:     input.Body.Query,
		Email:     input.Body.Email,
		Threshold: input.Body.Threshold,
	})
	if err != nil {
		return nil, apiError("tracking by query", err)
	}
	return &TrackOutput{Body: res}, nil
}

// Manual records a user-supplied price without fetching the listing.
func (h *TrackHandler) Manual(ctx context.Context, input *ManualInput) (*TrackOutput, error) {
	res, err := h.tracker.ManualEntry(ctx, engine.ManualRequest{
		URL:       input.Body.URL,
		Name:      input.Body.Name,
		Price:     input.Body.Price,
		Email:     input.Body.Email,
		Threshold: input.Body.Threshold,
	})
	if errors.Is(err, domain.ErrParse) {
		return nil, huma.Error400BadRequest("recording manual price: " + err.Error())
	}
	if err != nil {
		return nil, apiError("recording manual price", err)
	}
	return &TrackOutput{Body: res}, nil
}

// Compare matches a listing on the target site without recording anything.
func (h *TrackHandler) Compare(ctx context.Context, input *CompareInput) (*CompareOutput, error) {
	cmp, err := h.tracker.Compare(ctx, input.Body.URL)
	if err != nil {
		return nil, apiError("comparing listing", err)
	}
	return &CompareOutput{Body: cmp}, nil
}

// RegisterTrackRoutes registers tracking endpoints with the Huma API.
func RegisterTrackRoutes(api huma.API, h *TrackHandler) {
	upstream := []int{
		http.StatusBadRequest,
		http.StatusBadGateway,
		http.StatusInternalServerError,
	}

	huma.Register(api, huma.Operation{
		OperationID: "track-product",
		Method:      http.MethodPost,
		Path:        "/api/v1/track",
		Summary:     "Track a listing",
		Description: "Fetches the source listing, finds the closest target-site match, " +
			"records the price and evaluates the alert threshold.",
		Tags:   []string{"tracking"},
		Errors: upstream,
	}, h.Track)

	huma.Register(api, huma.Operation{
		OperationID: "track-by-query",
		Method:      http.MethodPost,
		Path:        "/api/v1/track/query",
		Summary:     "Track by description",
		Description: "Searches both sites in parallel and tracks the best source result.",
		Tags:        []string{"tracking"},
		Errors:      upstream,
	}, h.TrackByQuery)

	huma.Register(api, huma.Operation{
		OperationID: "compare-listing",
		Method:      http.MethodPost,
		Path:        "/api/v1/compare",
		Summary:     "Compare a listing",
		Description: "Returns the cross-site comparison without recording a price.",
		Tags:        []string{"tracking"},
		Errors:      []int{http.StatusBadRequest, http.StatusBadGateway},
	}, h.Compare)

	huma.Register(api, huma.Operation{
		OperationID: "record-manual-price",
		Method:      http.MethodPost,
		Path:        "/api/v1/products/manual",
		Summary:     "Record a price by hand",
		Description: "Appends a user-supplied price when the listing cannot be fetched.",
		Tags:        []string{"products"},
		Errors:      []int{http.StatusBadRequest, http.StatusInternalServerError},
	}, h.Manual)
}
