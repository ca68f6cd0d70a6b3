package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/market-price-tracker/internal/api/handlers"
	"github.com/donaldgifford/market-price-tracker/internal/engine"
)

// fakeRefresher implements handlers.Refresher for testing.
type fakeRefresher struct {
	sum    *engine.RefreshSummary
	err    error
	called bool
}

func (f *fakeRefresher) RefreshAll(context.Context) (*engine.RefreshSummary, error) {
	f.called = true
	return f.sum, f.err
}

func TestRefreshHandler_Refresh(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		sum        *engine.RefreshSummary
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name: "partial failures are reported in the summary",
			sum: &engine.RefreshSummary{
				Refreshed: 3, Failed: 1, Triggered: 1,
				Errors: []string{"https://www.example.in/dp/B0ZZZZZZZ1: fetch failed"},
			},
			wantStatus: http.StatusOK,
			wantBody:   `"failed":1`,
		},
		{
			name:       "load failure returns 500",
			err:        errors.New("conn refused"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   "refresh failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := &fakeRefresher{sum: tt.sum, err: tt.err}
			_, api := humatest.New(t)
			handlers.RegisterRefreshRoutes(api, handlers.NewRefreshHandler(r))

			resp := api.Post("/api/v1/refresh")
			require.Equal(t, tt.wantStatus, resp.Code, resp.Body.String())
			assert.True(t, r.called)
			assert.Contains(t, resp.Body.String(), tt.wantBody)
		})
	}
}
