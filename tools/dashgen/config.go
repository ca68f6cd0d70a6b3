package main

import "errors"

// KnownMetrics is the set of metric names exported by market-price-tracker
// plus recording rule names referenced in dashboards and alerts.
var KnownMetrics = map[string]bool{
	// HTTP metrics.
	"mpt_http_request_duration_seconds": true,
	"mpt_http_requests_total":           true,
	"mpt_http_panics_total":             true,

	// Health metrics.
	"mpt_healthz_up": true,
	"mpt_readyz_up":  true,

	// Marketplace metrics.
	"mpt_fetch_duration_seconds":   true,
	"mpt_fetch_errors_total":       true,
	"mpt_search_retries_total":     true,
	"mpt_search_unavailable_total": true,
	"mpt_missing_fields_total":     true,

	// Matching metrics.
	"mpt_match_outcomes_total": true,
	"mpt_match_score":          true,

	// Tracking metrics.
	"mpt_track_duration_seconds":         true,
	"mpt_price_points_recorded_total":    true,
	"mpt_store_write_failures_total":     true,
	"mpt_tracked_products":               true,
	"mpt_refresh_runs_total":             true,
	"mpt_refresh_last_success_timestamp": true,

	// Alert metrics.
	"mpt_threshold_triggers_total":      true,
	"mpt_notifications_sent_total":      true,
	"mpt_notification_failures_total":   true,
	"mpt_notification_duration_seconds": true,

	// Recording rules.
	"mpt:http_requests:rate5m":         true,
	"mpt:http_errors:rate5m":           true,
	"mpt:fetches:rate5m":               true,
	"mpt:fetch_errors:rate5m":          true,
	"mpt:match_outcomes:rate5m":        true,
	"mpt:notification_duration:p95_5m": true,

	// Standard Prometheus metrics referenced in dashboards.
	"up":                         true,
	"process_start_time_seconds": true,
}

// Config controls which artifacts the generator produces and where they go.
type Config struct {
	OutputDir        string
	DashboardEnabled bool
	RulesEnabled     bool
}

// DefaultConfig returns a Config that generates all artifacts into ../../deploy
// (relative to tools/dashgen/).
func DefaultConfig() Config {
	return Config{
		OutputDir:        "../../deploy",
		DashboardEnabled: true,
		RulesEnabled:     true,
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	if !c.DashboardEnabled && !c.RulesEnabled {
		return errors.New("at least one of dashboard or rules must be enabled")
	}
	return nil
}
