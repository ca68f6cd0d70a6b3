package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	apiclient "github.com/donaldgifford/market-price-tracker/internal/api/client"
	"github.com/donaldgifford/market-price-tracker/internal/engine"
	"github.com/donaldgifford/market-price-tracker/pkg/trend"
	domain "github.com/donaldgifford/market-price-tracker/pkg/types"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func formatPrice(p domain.Price) string {
	if p.IsUnavailable() {
		return "-"
	}
	return strconv.FormatFloat(float64(p), 'f', 2, 64)
}

func formatThreshold(t *float64) string {
	if t == nil {
		return "-"
	}
	return strconv.FormatFloat(*t, 'f', 2, 64)
}

func printComparison(w io.Writer, c *domain.Comparison) error {
	tw := newTabWriter(w)
	tw.writef("Source:\t%s\n", c.Source.Title)
	tw.writef("Source URL:\t%s\n", c.Source.URL)
	tw.writef("Source Price:\t%s\n", formatPrice(c.SourcePrice))
	if c.Source.ModelNumber != "" {
		tw.writef("Model:\t%s\n", c.Source.ModelNumber)
	}
	tw.writef("Search Query:\t%s\n", c.SearchQuery)
	switch {
	case c.SearchUnavailable:
		tw.writef("Match:\tsearch unavailable\n")
	case c.Match.Best != nil:
		tw.writef("Match:\t%s\n", c.Match.Best.Listing.Title)
		tw.writef("Match URL:\t%s\n", c.Match.Best.Listing.URL)
		tw.writef("Match Price:\t%s\n", formatPrice(c.TargetPrice))
		tw.writef("Confidence:\t%s (score %d)\n", c.Match.Confidence, c.Match.Best.Score)
	default:
		tw.writef("Match:\tnone\n")
		for i := range c.Match.Related {
			tw.writef("Related:\t%s\n", truncate(c.Match.Related[i].Title, 60))
		}
	}
	if c.Difference.Cheaper != domain.SiteNone {
		tw.writef("Cheaper:\t%s", c.Difference.Cheaper)
		if c.Difference.Amount != "" {
			tw.writef(" by %s (%.1f%%)", c.Difference.Amount, c.Difference.Percent)
		}
		tw.writef("\n")
	}
	return tw.finish()
}

func printTrackResult(w io.Writer, r *engine.TrackResult) error {
	if r.Product != nil {
		if err := printProductDetail(w, r.Product); err != nil {
			return err
		}
	}
	if r.Comparison != nil {
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
		if err := printComparison(w, r.Comparison); err != nil {
			return err
		}
	}
	if r.Triggered {
		_, err := fmt.Fprintf(w, "\nThreshold reached (alert sent: %v)\n", r.AlertSent)
		return err
	}
	return nil
}

func printProductsTable(w io.Writer, resp *apiclient.ProductsResponse) error {
	tw := newTabWriter(w)
	tw.writef("NAME\tLATEST\tPOINTS\tTHRESHOLD\tUPDATED\tKEY\n")
	for i := range resp.Products {
		p := &resp.Products[i]
		tw.writef("%s\t%s\t%d\t%s\t%s\t%s\n",
			truncate(p.Name, 40),
			formatPrice(p.Latest),
			p.Points,
			formatThreshold(p.Threshold),
			p.UpdatedAt,
			p.Key,
		)
	}
	tw.writef("\nShowing %d of %d\n", len(resp.Products), resp.Total)
	return tw.finish()
}

func printProductDetail(w io.Writer, p *domain.TrackedProduct) error {
	tw := newTabWriter(w)
	tw.writef("Name:\t%s\n", p.Name)
	tw.writef("Key:\t%s\n", p.Key)
	tw.writef("Threshold:\t%s\n", formatThreshold(p.Threshold))
	if p.OwnerEmail != "" {
		tw.writef("Owner:\t%s\n", p.OwnerEmail)
	}
	tw.writef("Prices:\n")
	for i := range p.Prices {
		tw.writef("  %s\t%s\n", p.Prices[i].Timestamp, formatPrice(p.Prices[i].Price))
	}
	return tw.finish()
}

func printAnalysis(w io.Writer, a *trend.Analysis) error {
	tw := newTabWriter(w)
	tw.writef("Key:\t%s\n", a.Key)
	tw.writef("Points:\t%d\n", a.Points)
	tw.writef("Latest:\t%s\n", formatPrice(a.Latest))
	tw.writef("Min:\t%s\n", formatPrice(a.Min))
	tw.writef("Max:\t%s\n", formatPrice(a.Max))
	tw.writef("Forecast:\t%s\n", formatThreshold(a.Forecast))
	if len(a.Anomalies) == 0 {
		tw.writef("Anomalies:\tnone\n")
	} else {
		tw.writef("Anomalies:\t%v\n", a.Anomalies)
	}
	return tw.finish()
}

func printRefreshSummary(w io.Writer, s *engine.RefreshSummary) error {
	tw := newTabWriter(w)
	tw.writef("Refreshed:\t%d\n", s.Refreshed)
	tw.writef("Failed:\t%d\n", s.Failed)
	tw.writef("Triggered:\t%d\n", s.Triggered)
	for _, e := range s.Errors {
		tw.writef("Error:\t%s\n", e)
	}
	return tw.finish()
}

func printStats(w io.Writer, s *engine.Stats) error {
	tw := newTabWriter(w)
	tw.writef("Products:\t%d\n", s.Products)
	tw.writef("Price Points:\t%d\n", s.PricePoints)
	tw.writef("With Threshold:\t%d\n", s.WithThreshold)
	tw.writef("Triggered:\t%d\n", s.Triggered)
	tw.writef("Unavailable:\t%d\n", s.Unavailable)
	return tw.finish()
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
