package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// ThresholdTriggers returns a timeseries panel showing how often a recorded
// price reached its owner's threshold, next to delivered notifications.
func ThresholdTriggers() *timeseries.PanelBuilder {
	return series("Threshold Triggers", "Triggered thresholds and delivered notifications per hour").
		Span(8).
		WithTarget(PromQuery(`sum(rate(mpt_threshold_triggers_total{`+Job+`}[5m])) * 3600`, "triggered/h", "A")).
		WithTarget(PromQuery(`sum(rate(mpt_notifications_sent_total{`+Job+`}[5m])) * 3600`, "sent/h", "B"))
}

// NotificationLatency returns a timeseries panel showing the p95
// notification latency per backend.
func NotificationLatency() *timeseries.PanelBuilder {
	return series("Notification Latency (p95)", "95th percentile email and Discord delivery latency").
		Span(8).
		WithTarget(PromQuery(`mpt:notification_duration:p95_5m`, "{{backend}}", "A")).
		Unit("s").
		Thresholds(ThresholdsGreenYellowRed(1, 5))
}

// NotificationFailures returns a stat panel showing notification failures
// in the past 24 hours.
func NotificationFailures() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Notification Failures (24h)").
		Description("Failed alert deliveries in the last 24 hours").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(`increase(mpt_notification_failures_total{`+Job+`}[24h])`, "", "A")).
		Thresholds(ThresholdsGreenYellowRed(1, 5)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}
