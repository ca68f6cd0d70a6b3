package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/market-price-tracker/internal/engine"
)

// Refresher re-tracks every product.
type Refresher interface {
	RefreshAll(ctx context.Context) (*engine.RefreshSummary, error)
}

// RefreshHandler handles manual refresh requests.
type RefreshHandler struct {
	refresher Refresher
}

// NewRefreshHandler creates a new RefreshHandler.
func NewRefreshHandler(r Refresher) *RefreshHandler {
	return &RefreshHandler{refresher: r}
}

// RefreshOutput is the response body for the refresh endpoint.
type RefreshOutput struct {
	Body *engine.RefreshSummary
}

// Refresh records a fresh price for every tracked product. Individual
// product failures are reported in the summary, not as an error status.
func (h *RefreshHandler) Refresh(ctx context.Context, _ *struct{}) (*RefreshOutput, error) {
	sum, err := h.refresher.RefreshAll(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("refresh failed: " + err.Error())
	}
	return &RefreshOutput{Body: sum}, nil
}

// RegisterRefreshRoutes registers the refresh endpoint with the Huma API.
func RegisterRefreshRoutes(api huma.API, h *RefreshHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "refresh-products",
		Method:      http.MethodPost,
		Path:        "/api/v1/refresh",
		Summary:     "Refresh all tracked products",
		Description: "Re-fetches every tracked listing, records the new prices " +
			"and sends alerts for crossed thresholds.",
		Tags:   []string{"tracking"},
		Errors: []int{http.StatusInternalServerError},
	}, h.Refresh)
}
