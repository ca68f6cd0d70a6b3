// Package price converts scraped price strings into comparable numbers and
// compares prices across marketplaces.
package price

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	domain "github.com/donaldgifford/market-price-tracker/pkg/types"
)

// Normalize converts a human-formatted price string to a number. Everything
// except ASCII digits and '.' is discarded before parsing. Empty input, the
// PriceUnavailable sentinel and anything that fails to parse yield +Inf so
// that unavailable prices lose every "cheaper" comparison.
func Normalize(text string) float64 {
	text = strings.TrimSpace(text)
	if text == "" || text == domain.PriceUnavailable {
		return math.Inf(1)
	}

	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		if (c >= '0' && c <= '9') || c == '.' {
			b.WriteByte(c)
		}
	}

	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return math.Inf(1)
	}
	return v
}

// IsUnavailable reports whether v is the unavailable marker (or otherwise
// not a usable price).
func IsUnavailable(v float64) bool {
	return math.IsInf(v, 0) || math.IsNaN(v)
}

// Cheaper reports which side carries the lower price. Unavailable prices never
// win. When both sides are unavailable the result is SiteNone.
func Cheaper(source, target float64) domain.Site {
	srcOK, tgtOK := !IsUnavailable(source), !IsUnavailable(target)
	switch {
	case !srcOK && !tgtOK:
		return domain.SiteNone
	case !tgtOK:
		return domain.SiteSource
	case !srcOK:
		return domain.SiteTarget
	case source < target:
		return domain.SiteSource
	case target < source:
		return domain.SiteTarget
	default:
		return domain.SiteEqual
	}
}

// Compare computes the absolute difference between two prices and the
// saving as a percentage of the more expensive side. Amount and percent are
// rounded to two decimal places. When either side is unavailable only the
// Cheaper field is populated.
func Compare(source, target float64) domain.PriceDifference {
	diff := domain.PriceDifference{Cheaper: Cheaper(source, target)}
	if IsUnavailable(source) || IsUnavailable(target) {
		return diff
	}
	if diff.Cheaper == domain.SiteEqual {
		diff.Amount = decimal.Zero.StringFixed(2)
		return diff
	}

	s := decimal.NewFromFloat(source)
	t := decimal.NewFromFloat(target)
	amount := s.Sub(t).Abs()
	high := decimal.Max(s, t)

	diff.Amount = amount.StringFixed(2)
	if high.IsPositive() {
		pct, _ := amount.Div(high).Mul(decimal.NewFromInt(100)).Round(2).Float64()
		diff.Percent = pct
	}
	return diff
}

// Format renders a price with two decimals. Unavailable prices render as
// the PriceUnavailable sentinel.
func Format(v float64) string {
	if IsUnavailable(v) {
		return domain.PriceUnavailable
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}
