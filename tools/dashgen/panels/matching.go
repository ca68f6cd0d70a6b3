package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/bargauge"
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// MatchOutcomes returns a timeseries panel showing match outcomes per
// confidence tier, filled heavier than the other series.
func MatchOutcomes() *timeseries.PanelBuilder {
	return series("Match Outcomes / min", "Cross-marketplace match outcomes by confidence tier").
		Span(8).
		WithTarget(PromQuery(`mpt:match_outcomes:rate5m * 60`, "{{confidence}}", "A")).
		FillOpacity(30).
		LineWidth(1)
}

// MatchScoreDistribution returns a bar gauge panel showing winning match
// scores across histogram buckets.
func MatchScoreDistribution() *bargauge.PanelBuilder {
	return bargauge.NewPanelBuilder().
		Title("Match Score Distribution").
		Description("Scores of selected matches over the last hour").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			`sum(increase(mpt_match_score_bucket{`+Job+`}[1h])) by (le)`,
			"{{le}}", "A",
		)).
		Orientation(common.VizOrientationHorizontal).
		Min(0).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic())
}

// SearchUnavailable returns a stat panel counting comparisons that had no
// target results to match against in the last 24 hours.
func SearchUnavailable() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Search Unavailable (24h)").
		Description("Comparisons degraded because every target search attempt failed").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(`increase(mpt_search_unavailable_total{`+Job+`}[24h])`, "", "A")).
		Thresholds(ThresholdsGreenYellowRed(1, 10)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}
