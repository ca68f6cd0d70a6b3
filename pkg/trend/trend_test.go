package trend

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/donaldgifford/market-price-tracker/pkg/types"
)

func TestForecastNext(t *testing.T) {
	t.Parallel()

	inf := math.Inf(1)
	tests := []struct {
		name   string
		prices []float64
		want   float64
		wantOK bool
	}{
		{name: "empty", prices: nil, wantOK: false},
		{name: "single point", prices: []float64{100}, wantOK: false},
		{name: "two points", prices: []float64{100, 200}, want: 300, wantOK: true},
		{name: "flat", prices: []float64{50, 50, 50}, want: 50, wantOK: true},
		{name: "declining", prices: []float64{400, 300, 200, 100}, want: 0, wantOK: true},
		{name: "unavailable keeps position", prices: []float64{100, inf, 300}, want: 400, wantOK: true},
		{name: "only one finite", prices: []float64{inf, 100, inf}, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ForecastNext(tt.prices)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.want, got, 1e-6)
			}
		})
	}
}

func TestFindAnomalies(t *testing.T) {
	t.Parallel()

	t.Run("spike is flagged", func(t *testing.T) {
		t.Parallel()
		prices := []float64{100, 101, 99, 100, 102, 100, 98, 101, 500, 100}
		assert.Equal(t, []int{8}, FindAnomalies(prices))
	})

	t.Run("too short", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, FindAnomalies(nil))
		assert.Nil(t, FindAnomalies([]float64{100}))
	})

	t.Run("constant series has no anomalies", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, FindAnomalies([]float64{10, 10, 10, 10, 10}))
	})

	t.Run("unavailable values are not scored", func(t *testing.T) {
		t.Parallel()
		inf := math.Inf(1)
		prices := []float64{100, 101, inf, 99, 100, 102, 100, 98, 101, 900, 100}
		got := FindAnomalies(prices)
		assert.Contains(t, got, 9)
		assert.NotContains(t, got, 2)
	})

	t.Run("repeated runs agree on clear outliers", func(t *testing.T) {
		t.Parallel()
		prices := []float64{10, 12, 11, 13, 50, 12, 11, 10, 14, 12, 11, 11}
		for range 5 {
			assert.Equal(t, []int{4}, FindAnomalies(prices))
		}
	})

	t.Run("subsample larger than the series", func(t *testing.T) {
		t.Parallel()
		prices := []float64{100, 100, 101, 900}
		got := FindAnomalies(prices, WithTrees(50), WithSubsample(1024))
		assert.Equal(t, []int{3}, got)
	})

	t.Run("indices are sorted", func(t *testing.T) {
		t.Parallel()
		prices := make([]float64, 0, 40)
		for i := range 40 {
			prices = append(prices, 100+float64(i%3))
		}
		prices[5] = 900
		prices[30] = 1
		got := FindAnomalies(prices, WithContamination(0.05))
		assert.IsIncreasing(t, got)
		assert.Equal(t, []int{5, 30}, got)
	})
}

func TestAnalyze(t *testing.T) {
	t.Parallel()

	p := &domain.TrackedProduct{
		Key:  "https://s.example/dp/B000000001",
		Name: "Widget",
		Prices: []domain.PricePoint{
			{Timestamp: "2024-05-01 10:00:00", Price: 100},
			{Timestamp: "2024-05-02 10:00:00", Price: domain.Unavailable},
			{Timestamp: "2024-05-03 10:00:00", Price: 300},
		},
	}

	a := Analyze(p)
	assert.Equal(t, 3, a.Points)
	assert.InDelta(t, 300.0, float64(a.Latest), 0)
	assert.InDelta(t, 100.0, float64(a.Min), 0)
	assert.InDelta(t, 300.0, float64(a.Max), 0)
	require.NotNil(t, a.Forecast)
	assert.InDelta(t, 400.0, *a.Forecast, 1e-6)
	assert.NotNil(t, a.Anomalies)

	empty := Analyze(&domain.TrackedProduct{Key: "k"})
	assert.Nil(t, empty.Forecast)
	assert.True(t, empty.Latest.IsUnavailable())
	assert.True(t, empty.Min.IsUnavailable())
	assert.Empty(t, empty.Anomalies)
}
