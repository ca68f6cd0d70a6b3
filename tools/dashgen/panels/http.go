package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// RequestRate returns a timeseries panel showing the HTTP request rate.
func RequestRate() *timeseries.PanelBuilder {
	return series("Request Rate", "HTTP requests per second").
		Span(8).
		WithTarget(PromQuery(`mpt:http_requests:rate5m`, "req/s", "A")).
		Unit("reqps").
		Legend(TableLegend("mean", "max"))
}

// LatencyPercentiles returns a timeseries panel showing p50, p95 and p99
// HTTP request latencies. Track requests fetch two marketplaces, so the
// tail is expected to sit in seconds.
func LatencyPercentiles() *timeseries.PanelBuilder {
	const h = "mpt_http_request_duration_seconds"
	return series("Latency Percentiles", "HTTP request duration percentiles").
		Span(8).
		WithTarget(PromQuery(quantile(0.50, h, ""), "p50", "A")).
		WithTarget(PromQuery(quantile(0.95, h, ""), "p95", "B")).
		WithTarget(PromQuery(quantile(0.99, h, ""), "p99", "C")).
		Unit("s").
		Legend(TableLegend("mean", "max"))
}

// ErrorRate returns a timeseries panel showing the HTTP 5xx error rate
// as a percentage.
func ErrorRate() *timeseries.PanelBuilder {
	return series("Error Rate %", "HTTP 5xx error rate as percentage of total requests").
		Span(8).
		WithTarget(PromQuery(
			`mpt:http_errors:rate5m / mpt:http_requests:rate5m * 100`,
			"error %", "A",
		)).
		Unit("percent").
		Thresholds(ThresholdsGreenYellowRed(1, 5)).
		ColorScheme(ColorSchemeThresholds())
}
