// Package trend forecasts the next price of a series and flags anomalous
// observations in it.
package trend

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// ForecastNext fits an ordinary least-squares line mapping series position
// to price and evaluates it at the next position. Non-finite values are left
// out of the fit but keep their positions. ok is false when fewer than two
// finite points remain.
func ForecastNext(prices []float64) (next float64, ok bool) {
	xs := make([]float64, 0, len(prices))
	ys := make([]float64, 0, len(prices))
	for i, p := range prices {
		if math.IsInf(p, 0) || math.IsNaN(p) {
			continue
		}
		xs = append(xs, float64(i))
		ys = append(ys, p)
	}
	if len(xs) < 2 {
		return 0, false
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	next = alpha + beta*float64(len(prices))
	if math.IsNaN(next) || math.IsInf(next, 0) {
		return 0, false
	}
	return next, true
}
