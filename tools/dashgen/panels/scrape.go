package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// FetchLatency returns a timeseries panel showing p95 fetch and search
// latency per marketplace.
func FetchLatency() *timeseries.PanelBuilder {
	return series("Fetch Latency (p95)", "95th percentile product page fetch and site search duration").
		Span(StatWidth).
		WithTarget(PromQuery(quantile(0.95, "mpt_fetch_duration_seconds", "site, op"), "{{site}} {{op}}", "A")).
		Unit("s")
}

// FetchErrors returns a timeseries panel showing the fraction of fetches
// and searches that failed, per marketplace.
func FetchErrors() *timeseries.PanelBuilder {
	return series("Fetch Error %", "Failed fetches and searches as a percentage of attempts").
		Span(StatWidth).
		WithTarget(PromQuery(`mpt:fetch_errors:rate5m / mpt:fetches:rate5m * 100`, "{{site}} {{op}}", "A")).
		Unit("percent").
		Thresholds(ThresholdsGreenYellowRed(10, 50)).
		ColorScheme(ColorSchemeThresholds())
}

// MissingFields returns a timeseries panel showing how often a field fell
// through every selector. A rising line usually means a site changed its
// page layout.
func MissingFields() *timeseries.PanelBuilder {
	return series("Missing Fields / min", "Listings where a field matched no selector").
		Span(StatWidth).
		WithTarget(PromQuery(
			`sum by (site, field) (rate(mpt_missing_fields_total{`+Job+`}[5m])) * 60`,
			"{{site}} {{field}}", "A",
		))
}

// SearchRetries returns a timeseries panel showing target search retries.
func SearchRetries() *timeseries.PanelBuilder {
	return series("Search Retries / min", "Target searches retried after a transient failure").
		Span(StatWidth).
		WithTarget(PromQuery(`sum(rate(mpt_search_retries_total{`+Job+`}[5m])) * 60`, "retries/min", "A")).
		Thresholds(ThresholdsGreenYellowRed(1, 5)).
		ColorScheme(ColorSchemeThresholds())
}
