package rules

// RecordingRules returns the resource holding pre-computed rate
// expressions used by dashboards and alert rules.
func RecordingRules() PrometheusRule {
	return newResource("mpt-recording-rules",
		RuleGroup{
			Name: "mpt-recording",
			Rules: []Rule{
				{
					Record: "mpt:http_requests:rate5m",
					Expr:   `sum(rate(mpt_http_requests_total[5m]))`,
				},
				{
					Record: "mpt:http_errors:rate5m",
					Expr:   `sum(rate(mpt_http_requests_total{status=~"5.."}[5m]))`,
				},
				{
					Record: "mpt:fetches:rate5m",
					Expr:   `sum by (site, op) (rate(mpt_fetch_duration_seconds_count[5m]))`,
				},
				{
					Record: "mpt:fetch_errors:rate5m",
					Expr:   `sum by (site, op) (rate(mpt_fetch_errors_total[5m]))`,
				},
				{
					Record: "mpt:match_outcomes:rate5m",
					Expr:   `sum by (confidence) (rate(mpt_match_outcomes_total[5m]))`,
				},
				{
					Record: "mpt:notification_duration:p95_5m",
					Expr:   `histogram_quantile(0.95, sum(rate(mpt_notification_duration_seconds_bucket[5m])) by (backend, le))`,
				},
			},
		},
	)
}
