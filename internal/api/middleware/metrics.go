// Package middleware provides Echo middleware for market-price-tracker.
package middleware

import (
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/donaldgifford/market-price-tracker/internal/metrics"
)

// unmatchedRoute labels requests that hit no registered route, so scanners
// probing random paths cannot grow label cardinality.
const unmatchedRoute = "unmatched"

// healthGauges maps health check paths to their up/down gauge. Health checks and /metrics
// are excluded from request histograms.
var healthGauges = map[string]prometheus.Gauge{
	"/healthz": metrics.HealthzUp,
	"/readyz":  metrics.ReadyzUp,
}

// Metrics returns Echo middleware that records request duration and status
// by route template.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			route := c.Path()

			if g, ok := healthGauges[route]; ok {
				err := next(c)
				if ok2xx(c.Response().Status) {
					g.Set(1)
				} else {
					g.Set(0)
				}
				return err
			}
			if route == "/metrics" {
				return next(c)
			}

			start := time.Now()
			err := next(c)
			if err != nil {
				// Let the error handler commit the real status before it is read.
				c.Error(err)
			}
			if route == "" || errors.Is(err, echo.ErrNotFound) {
				route = unmatchedRoute
			}

			status := strconv.Itoa(c.Response().Status)
			method := c.Request().Method
			metrics.HTTPRequestDuration.
				WithLabelValues(method, route, status).
				Observe(time.Since(start).Seconds())
			metrics.HTTPRequestsTotal.
				WithLabelValues(method, route, status).
				Inc()

			return err
		}
	}
}

func ok2xx(status int) bool {
	return status >= 200 && status < 300
}
