package rules

// AlertRules returns the resource holding alert rules for
// market-price-tracker operational monitoring.
func AlertRules() PrometheusRule {
	return newResource("mpt-alerts",
		RuleGroup{
			Name: "mpt-alerts",
			Rules: []Rule{
				{
					Alert: "MptDown",
					Expr:  `absent(up{job="market-price-tracker"})`,
					For:   "2m",
					Labels: map[string]string{
						"severity": "critical",
					},
					Annotations: map[string]string{
						"summary":     "Market Price Tracker is down",
						"description": "The market-price-tracker job has been absent for more than 2 minutes.",
					},
				},
				{
					Alert: "MptReadinessDown",
					Expr:  `mpt_readyz_up == 0`,
					For:   "2m",
					Labels: map[string]string{
						"severity": "critical",
					},
					Annotations: map[string]string{
						"summary":     "Market Price Tracker readiness check is failing",
						"description": "The price history store has been unreachable for more than 2 minutes.",
					},
				},
				{
					Alert: "MptHighErrorRate",
					Expr:  `mpt:http_errors:rate5m / mpt:http_requests:rate5m > 0.05`,
					For:   "5m",
					Labels: map[string]string{
						"severity": "warning",
					},
					Annotations: map[string]string{
						"summary":     "High HTTP error rate on Market Price Tracker",
						"description": "More than 5% of HTTP requests are returning 5xx errors over the last 5 minutes.",
					},
				},
				{
					Alert: "MptSourceFetchFailing",
					Expr:  `mpt:fetch_errors:rate5m{site="source", op="fetch"} / mpt:fetches:rate5m{site="source", op="fetch"} > 0.5`,
					For:   "15m",
					Labels: map[string]string{
						"severity": "warning",
					},
					Annotations: map[string]string{
						"summary":     "Most source listing fetches are failing",
						"description": "More than half of source product page fetches failed over 15 minutes. The site may be blocking requests.",
					},
				},
				{
					Alert: "MptLayoutDrift",
					Expr:  `sum by (site, field) (increase(mpt_missing_fields_total{field="title"}[1h])) > 10`,
					For:   "0m",
					Labels: map[string]string{
						"severity": "warning",
					},
					Annotations: map[string]string{
						"summary":     "Listing titles are not being found",
						"description": "No title selector matched on more than 10 pages in the last hour. The site layout has probably changed.",
					},
				},
				{
					Alert: "MptRefreshStale",
					Expr:  `time() - mpt_refresh_last_success_timestamp > 172800`,
					For:   "10m",
					Labels: map[string]string{
						"severity": "warning",
					},
					Annotations: map[string]string{
						"summary":     "Scheduled refresh has not succeeded in two days",
						"description": "No refresh run has completed without error in 48 hours. Price histories are going stale.",
					},
				},
				{
					Alert: "MptStoreWriteFailures",
					Expr:  `increase(mpt_store_write_failures_total[5m]) > 0`,
					For:   "1m",
					Labels: map[string]string{
						"severity": "critical",
					},
					Annotations: map[string]string{
						"summary":     "Price points are not being persisted",
						"description": "Repository writes are failing. Recorded prices only live in memory until the store recovers.",
					},
				},
				{
					Alert: "MptNotificationFailures",
					Expr:  `increase(mpt_notification_failures_total[5m]) > 0`,
					For:   "1m",
					Labels: map[string]string{
						"severity": "warning",
					},
					Annotations: map[string]string{
						"summary":     "Notification delivery failures detected",
						"description": "One or more threshold alerts (email or Discord) have failed to send.",
					},
				},
			},
		},
	)
}
