package store

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/donaldgifford/market-price-tracker/pkg/types"
)

func TestEncodeSeries(t *testing.T) {
	t.Parallel()

	got := EncodeSeries([]domain.PricePoint{
		{Timestamp: "2024-01-01 10:00:00", Price: 1499},
		{Timestamp: "2024-01-02 10:00:00", Price: 1399.75},
		{Timestamp: "2024-01-03 10:00:00", Price: domain.Unavailable},
	})
	assert.Equal(t,
		"[('2024-01-01 10:00:00', 1499.0), ('2024-01-02 10:00:00', 1399.75), ('2024-01-03 10:00:00', inf)]",
		got,
	)
	assert.Equal(t, "[]", EncodeSeries(nil))
}

func TestSeriesRoundTrip(t *testing.T) {
	t.Parallel()

	in := []domain.PricePoint{
		{Timestamp: "2024-01-01 10:00:00", Price: 0.1},
		{Timestamp: "2024-01-01 11:00:00", Price: 123456789.123456},
		{Timestamp: "2024-01-01 12:00:00", Price: domain.Unavailable},
		{Timestamp: "2024-01-01 13:00:00", Price: 1e-7},
	}

	out, err := DecodeSeries(EncodeSeries(in))
	require.NoError(t, err)
	require.Len(t, out, len(in))
	for i := range in {
		assert.Equal(t, in[i].Timestamp, out[i].Timestamp)
		if in[i].Price.IsUnavailable() {
			assert.True(t, math.IsInf(float64(out[i].Price), 1))
			continue
		}
		assert.Equal(t, in[i].Price, out[i].Price)
	}
}

func TestDecodeSeries_Accepts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want int
	}{
		{name: "empty list", in: "[]", want: 0},
		{name: "padded empty list", in: "  [ ]  ", want: 0},
		{name: "integer price", in: "[('2024-01-01 10:00:00', 1499)]", want: 1},
		{name: "double quoted", in: `[("2024-01-01 10:00:00", 1499.0)]`, want: 1},
		{name: "float inf literal", in: "[('2024-01-01 10:00:00', float('inf'))]", want: 1},
		{name: "exponent", in: "[('2024-01-01 10:00:00', 1.5e+16)]", want: 1},
		{name: "trailing comma", in: "[('a', 1.0), ('b', 2.0),]", want: 2},
		{name: "multiline", in: "[\n ('a', 1.0),\n ('b', inf)\n]", want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := DecodeSeries(tt.in)
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestDecodeSeries_Rejects(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"None",
		"[('2024-01-01', 1.0)",
		"[('2024-01-01', 1.0)] extra",
		"[('2024-01-01', __import__('os').system('rm -rf /'))]",
		"[('2024-01-01', nan)]",
		"[(2024, 1.0)]",
		"[('2024-01-01' 1.0)]",
		"[('2024-01-01', 1.0, 2.0)]",
		"[('2024-01-01\\'', 1.0)]",
		"{'a': 1}",
		"[('2024-01-01', 1..0)]",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			t.Parallel()
			_, err := DecodeSeries(in)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSeriesSyntax)
		})
	}
}
