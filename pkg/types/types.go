// Package domain defines the core business types for the market price tracker.
package domain

import (
	"encoding/json"
	"math"
	"strings"
)

// Sentinel strings carried by RawListing when a mandatory field could not be
// scraped. Downstream code compares against these instead of branching on
// empty values.
const (
	TitleNotFound    = "Title Not Found"
	PriceUnavailable = "Price Not Available"
)

// TimestampLayout is the format of PricePoint timestamps. It sorts
// lexicographically in chronological order.
const TimestampLayout = "2006-01-02 15:04:05"

// Site identifies which marketplace a listing came from.
type Site string

// Site constants.
const (
	SiteSource Site = "source"
	SiteTarget Site = "target"
	SiteEqual  Site = "equal"
	SiteNone   Site = ""
)

// RawListing is the result of fetching or searching one marketplace entry.
type RawListing struct {
	Title       string `json:"title"`
	PriceText   string `json:"price_text"`
	URL         string `json:"url"`
	ImageURL    string `json:"image_url,omitempty"`
	Identifier  string `json:"identifier,omitempty"`
	ModelNumber string `json:"model_number,omitempty"`
}

// HasTitle reports whether the listing carries a real title.
func (l *RawListing) HasTitle() bool {
	t := strings.TrimSpace(l.Title)
	return t != "" && t != TitleNotFound
}

// HasPrice reports whether the listing carries a real price string.
func (l *RawListing) HasPrice() bool {
	p := strings.TrimSpace(l.PriceText)
	return p != "" && p != PriceUnavailable
}

// Actionable reports whether both mandatory fields are present.
func (l *RawListing) Actionable() bool {
	return l.HasTitle() && l.HasPrice()
}

// Price is a normalized numeric price. The unavailable value is positive
// infinity so that minimization treats it as worse than any real price.
// It encodes to JSON null since JSON has no infinity literal.
type Price float64

// Unavailable is the distinguished "no price" value.
var Unavailable = Price(math.Inf(1))

// IsUnavailable reports whether p is not a usable price.
func (p Price) IsUnavailable() bool {
	return math.IsInf(float64(p), 0) || math.IsNaN(float64(p))
}

// MarshalJSON implements json.Marshaler.
func (p Price) MarshalJSON() ([]byte, error) {
	if p.IsUnavailable() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(p))
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Price) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*p = Unavailable
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*p = Price(f)
	return nil
}

// Confidence is the qualitative bucket derived from a match score.
type Confidence string

// Confidence tiers, lowest to highest.
const (
	ConfidenceNone     Confidence = "none"
	ConfidenceLow      Confidence = "low"
	ConfidenceModerate Confidence = "moderate"
	ConfidenceHigh     Confidence = "high"
	ConfidenceVeryHigh Confidence = "very_high"
)

// MatchCandidate is a target-site listing with its match score.
type MatchCandidate struct {
	Listing    RawListing `json:"listing"`
	Score      int        `json:"score"`
	Confidence Confidence `json:"confidence"`
}

// MatchResult is the outcome of cross-marketplace matching. A nil Best is
// the no-match outcome; Related then holds candidates for manual inspection.
type MatchResult struct {
	Best       *MatchCandidate `json:"best,omitempty"`
	Related    []RawListing    `json:"related,omitempty"`
	Confidence Confidence      `json:"confidence"`
	Fallback   bool            `json:"fallback,omitempty"`
}

// Matched reports whether a candidate was selected.
func (r *MatchResult) Matched() bool {
	return r.Best != nil
}

// PricePoint is one timestamped price observation.
type PricePoint struct {
	Timestamp string `json:"timestamp"`
	Price     Price  `json:"price"`
}

// TrackedProduct is the aggregate root: one source-site product and its
// price history.
type TrackedProduct struct {
	Key        string       `json:"key"`
	Name       string       `json:"name"`
	Prices     []PricePoint `json:"prices"`
	OwnerEmail string       `json:"owner_email,omitempty"`
	Threshold  *float64     `json:"threshold,omitempty"`
}

// Latest returns the most recent price point.
func (p *TrackedProduct) Latest() (PricePoint, bool) {
	if len(p.Prices) == 0 {
		return PricePoint{}, false
	}
	return p.Prices[len(p.Prices)-1], true
}

// Values returns the price series as plain floats in timestamp order.
func (p *TrackedProduct) Values() []float64 {
	out := make([]float64, len(p.Prices))
	for i := range p.Prices {
		out[i] = float64(p.Prices[i].Price)
	}
	return out
}

// Clone returns a deep copy.
func (p *TrackedProduct) Clone() *TrackedProduct {
	c := *p
	c.Prices = append([]PricePoint(nil), p.Prices...)
	if p.Threshold != nil {
		t := *p.Threshold
		c.Threshold = &t
	}
	return &c
}

// PriceDifference describes which site is cheaper and by how much.
type PriceDifference struct {
	Cheaper Site    `json:"cheaper"`
	Amount  string  `json:"amount,omitempty"`
	Percent float64 `json:"percent,omitempty"`
}

// Comparison is the full cross-marketplace comparison for one source listing.
type Comparison struct {
	Source            RawListing      `json:"source"`
	SourcePrice       Price           `json:"source_price"`
	Match             MatchResult     `json:"match"`
	TargetPrice       Price           `json:"target_price"`
	Difference        PriceDifference `json:"difference"`
	SearchQuery       string          `json:"search_query"`
	SearchUnavailable bool            `json:"search_unavailable,omitempty"`
}
