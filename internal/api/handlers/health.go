package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Pinger reports whether the product repository answers.
type Pinger interface {
	Ready(ctx context.Context) error
}

// HealthResponse is the body of both health checks. Reason is set only when the
// server is not ready.
type HealthResponse struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// HealthHandler serves /healthz and /readyz.
type HealthHandler struct {
	pinger Pinger
}

// NewHealthHandler returns a HealthHandler probing p.
func NewHealthHandler(p Pinger) *HealthHandler {
	return &HealthHandler{pinger: p}
}

// Healthz answers as long as the process can serve HTTP.
func (*HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// Readyz answers 503 while the repository is unreachable. The underlying
// error stays in the server log; callers only see a fixed reason.
func (h *HealthHandler) Readyz(c echo.Context) error {
	if err := h.pinger.Ready(c.Request().Context()); err != nil {
		c.Logger().Warnf("readiness check failed: %v", err)
		return c.JSON(http.StatusServiceUnavailable, HealthResponse{
			Status: "unavailable",
			Reason: "product repository unreachable",
		})
	}
	return c.JSON(http.StatusOK, HealthResponse{Status: "ready"})
}
