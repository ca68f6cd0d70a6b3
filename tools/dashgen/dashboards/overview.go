// Package dashboards assembles Grafana dashboard definitions from panel builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/donaldgifford/market-price-tracker/tools/dashgen/panels"
)

// BuildOverview constructs the MPT Overview dashboard with all metric rows.
func BuildOverview() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("MPT Overview").
		Uid("mpt-overview").
		Tags([]string{"mpt", "market-price-tracker"}).
		Refresh("30s").
		Time("now-24h", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair).
		WithVariable(datasourceVar())

	// Row 1: Overview.
	b.WithRow(dashboard.NewRowBuilder("Overview").
		WithPanel(panels.HealthzStat()).
		WithPanel(panels.ReadyzStat()).
		WithPanel(panels.TrackedProductsStat()).
		WithPanel(panels.UptimeStat()))

	// Row 2: HTTP.
	b.WithRow(dashboard.NewRowBuilder("HTTP").
		WithPanel(panels.RequestRate()).
		WithPanel(panels.LatencyPercentiles()).
		WithPanel(panels.ErrorRate()))

	// Row 3: Marketplaces.
	b.WithRow(dashboard.NewRowBuilder("Marketplaces").
		WithPanel(panels.FetchLatency()).
		WithPanel(panels.FetchErrors()).
		WithPanel(panels.MissingFields()).
		WithPanel(panels.SearchRetries()))

	// Row 4: Matching.
	b.WithRow(dashboard.NewRowBuilder("Matching").
		WithPanel(panels.MatchOutcomes()).
		WithPanel(panels.MatchScoreDistribution()).
		WithPanel(panels.SearchUnavailable()))

	// Row 5: Tracking.
	b.WithRow(dashboard.NewRowBuilder("Tracking").
		WithPanel(panels.PricePointsRate()).
		WithPanel(panels.TrackDuration()).
		WithPanel(panels.LastRefresh()).
		WithPanel(panels.StoreWriteFailures()))

	// Row 6: Alerts.
	b.WithRow(dashboard.NewRowBuilder("Alerts").
		WithPanel(panels.ThresholdTriggers()).
		WithPanel(panels.NotificationLatency()).
		WithPanel(panels.NotificationFailures()))

	return b
}

func datasourceVar() *dashboard.DatasourceVariableBuilder {
	return dashboard.NewDatasourceVariableBuilder("datasource").
		Label("Datasource").
		Type("prometheus")
}
