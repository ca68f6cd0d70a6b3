package trend

import (
	"math"
	"sort"

	"github.com/e-XpertSolutions/go-iforest/v2/iforest"
)

// Isolation forest defaults.
const (
	DefaultTrees         = 100
	DefaultSubsample     = 256
	DefaultContamination = 0.1
)

type forestConfig struct {
	trees         int
	subsample     int
	contamination float64
}

// Option configures FindAnomalies.
type Option func(*forestConfig)

// WithTrees sets the number of isolation trees.
func WithTrees(n int) Option {
	return func(c *forestConfig) {
		if n > 0 {
			c.trees = n
		}
	}
}

// WithSubsample sets the per-tree sample size.
func WithSubsample(n int) Option {
	return func(c *forestConfig) {
		if n > 1 {
			c.subsample = n
		}
	}
}

// WithContamination sets the expected anomaly fraction, in (0, 0.5].
func WithContamination(f float64) Option {
	return func(c *forestConfig) {
		if f > 0 && f <= 0.5 {
			c.contamination = f
		}
	}
}

// FindAnomalies scores every finite price with an isolation forest and
// returns the sorted positions whose score falls in the top contamination
// fraction. Non-finite values are not scored. Fewer than two finite points
// yield nil. Very short series give unstable results.
func FindAnomalies(prices []float64, opts ...Option) []int {
	cfg := forestConfig{
		trees:         DefaultTrees,
		subsample:     DefaultSubsample,
		contamination: DefaultContamination,
	}
	for _, o := range opts {
		o(&cfg)
	}

	idx := make([]int, 0, len(prices))
	rows := make([][]float64, 0, len(prices))
	for i, p := range prices {
		if math.IsInf(p, 0) || math.IsNaN(p) {
			continue
		}
		idx = append(idx, i)
		rows = append(rows, []float64{p})
	}
	if len(rows) < 2 {
		return nil
	}

	// The forest samples without replacement, so the subsample cannot
	// exceed the series.
	forest := iforest.NewForest(cfg.trees, min(cfg.subsample, len(rows)), cfg.contamination)
	forest.Train(rows)
	forest.Test(rows)
	if len(forest.AnomalyScores) != len(rows) {
		return nil
	}

	// Only points scoring strictly above the contamination percentile
	// count, so a flat series where every score ties flags nothing.
	scores := make([]float64, len(rows))
	for i := range rows {
		scores[i] = forest.AnomalyScores[i]
	}
	bound := percentile(scores, (1-cfg.contamination)*100)

	var out []int
	for i, s := range scores {
		if s > bound {
			out = append(out, idx[i])
		}
	}
	return out
}

// percentile uses linear interpolation between closest ranks.
func percentile(vals []float64, p float64) float64 {
	s := append([]float64(nil), vals...)
	sort.Float64s(s)
	if len(s) == 1 {
		return s[0]
	}
	rank := p / 100 * float64(len(s)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	frac := rank - float64(lo)
	return s[lo] + frac*(s[hi]-s[lo])
}
