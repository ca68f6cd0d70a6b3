package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// PricePointsRate returns a timeseries panel showing price points recorded
// per minute.
func PricePointsRate() *timeseries.PanelBuilder {
	return series("Price Points / min", "Price observations appended to product histories").
		Span(StatWidth).
		WithTarget(PromQuery(`sum(rate(mpt_price_points_recorded_total{`+Job+`}[5m])) * 60`, "points/min", "A"))
}

// TrackDuration returns a timeseries panel showing the p95 duration of a
// track operation end to end.
func TrackDuration() *timeseries.PanelBuilder {
	return series("Track Duration (p95)", "95th percentile fetch, compare and record duration").
		Span(StatWidth).
		WithTarget(PromQuery(quantile(0.95, "mpt_track_duration_seconds", ""), "p95", "A")).
		Unit("s")
}

// LastRefresh returns a stat panel showing time since the last refresh run
// that completed without error.
func LastRefresh() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Last Refresh").
		Description("Time since the last successful scheduled refresh").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`time() - mpt_refresh_last_success_timestamp{`+Job+`}`, "", "A")).
		Unit("s").
		Thresholds(ThresholdsGreenYellowRed(86400, 172800)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeNone)
}

// StoreWriteFailures returns a stat panel showing failed repository writes
// in the past 24 hours.
func StoreWriteFailures() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Store Write Failures (24h)").
		Description("Price points that could not be persisted").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`increase(mpt_store_write_failures_total{`+Job+`}[24h])`, "", "A")).
		Thresholds(ThresholdsGreenYellowRed(1, 5)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}
