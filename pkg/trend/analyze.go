package trend

import (
	"math"

	domain "github.com/donaldgifford/market-price-tracker/pkg/types"
)

// Analysis summarizes one product's price history.
type Analysis struct {
	Key       string       `json:"key"`
	Points    int          `json:"points"`
	Latest    domain.Price `json:"latest"`
	Min       domain.Price `json:"min"`
	Max       domain.Price `json:"max"`
	Forecast  *float64     `json:"forecast,omitempty"`
	Anomalies []int        `json:"anomalies"`
}

// Analyze runs the forecast and anomaly detection over a product's series.
func Analyze(p *domain.TrackedProduct, opts ...Option) Analysis {
	vals := p.Values()
	a := Analysis{
		Key:       p.Key,
		Points:    len(vals),
		Latest:    domain.Unavailable,
		Min:       domain.Unavailable,
		Max:       domain.Unavailable,
		Anomalies: []int{},
	}

	if latest, ok := p.Latest(); ok {
		a.Latest = latest.Price
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range vals {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if !math.IsInf(lo, 1) {
		a.Min = domain.Price(lo)
		a.Max = domain.Price(hi)
	}

	if next, ok := ForecastNext(vals); ok {
		a.Forecast = &next
	}
	if idx := FindAnomalies(vals, opts...); idx != nil {
		a.Anomalies = idx
	}
	return a
}
