package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/donaldgifford/market-price-tracker/pkg/types"
)

func listing(title, price, url string) domain.RawListing {
	return domain.RawListing{Title: title, PriceText: price, URL: url}
}

func TestConfidenceFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score int
		want  domain.Confidence
	}{
		{score: 0, want: domain.ConfidenceNone},
		{score: 1, want: domain.ConfidenceLow},
		{score: 2, want: domain.ConfidenceLow},
		{score: 3, want: domain.ConfidenceModerate},
		{score: 5, want: domain.ConfidenceModerate},
		{score: 6, want: domain.ConfidenceHigh},
		{score: 9, want: domain.ConfidenceHigh},
		{score: 10, want: domain.ConfidenceVeryHigh},
		{score: 14, want: domain.ConfidenceVeryHigh},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ConfidenceFor(tt.score), "score %d", tt.score)
	}
}

func TestScore(t *testing.T) {
	t.Parallel()

	src := Source{Keywords: []string{"Brand", "Wireless", "Mouse", "Mouse", "USB"}, Model: "XR200"}
	b := Score(src, "Brand XR200 Wireless Mouse")

	assert.True(t, b.ModelMatched)
	assert.Equal(t, 13, b.Total)
	assert.Equal(t, []string{"Brand", "Wireless", "Mouse"}, b.MatchedKeywords)
}

func TestMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		src            Source
		candidates     []domain.RawListing
		wantTitle      string
		wantScore      int
		wantConfidence domain.Confidence
		wantFallback   bool
		wantRelated    int
	}{
		{
			name: "model match is very high",
			src:  Source{Model: "XR200"},
			candidates: []domain.RawListing{
				listing("Brand XR200 Wireless Mouse", "₹799", "https://t.example/p/1"),
			},
			wantTitle:      "Brand XR200 Wireless Mouse",
			wantScore:      10,
			wantConfidence: domain.ConfidenceVeryHigh,
		},
		{
			name: "no overlap yields no match with related",
			src:  Source{Keywords: []string{"Stainless", "Kettle"}, Model: "K900"},
			candidates: []domain.RawListing{
				listing("Generic Juicer", "₹999", "https://t.example/p/1"),
				listing("Toaster Deluxe", "₹1,299", "https://t.example/p/2"),
				listing("Hand Mixer", "₹499", "https://t.example/p/3"),
				listing("Rice Cooker", "₹2,099", "https://t.example/p/4"),
			},
			wantConfidence: domain.ConfidenceNone,
			wantRelated:    3,
		},
		{
			name: "tie keeps the earlier candidate",
			src:  Source{Keywords: []string{"Acme", "Blender"}},
			candidates: []domain.RawListing{
				listing("Acme Blender Pro", "₹3,999", "https://t.example/p/1"),
				listing("Acme Blender Lite", "₹2,999", "https://t.example/p/2"),
			},
			wantTitle:      "Acme Blender Pro",
			wantScore:      2,
			wantConfidence: domain.ConfidenceLow,
		},
		{
			name: "candidates beyond the cap are ignored",
			src:  Source{Model: "Z9"},
			candidates: []domain.RawListing{
				listing("one", "₹1", "https://t.example/p/1"),
				listing("two", "₹1", "https://t.example/p/2"),
				listing("three", "₹1", "https://t.example/p/3"),
				listing("four", "₹1", "https://t.example/p/4"),
				listing("five", "₹1", "https://t.example/p/5"),
				listing("Z9 six", "₹1", "https://t.example/p/6"),
			},
			wantConfidence: domain.ConfidenceNone,
			wantRelated:    3,
		},
		{
			name: "incomplete candidates are skipped",
			src:  Source{Keywords: []string{"Acme", "Blender"}},
			candidates: []domain.RawListing{
				listing("Acme Blender", domain.PriceUnavailable, "https://t.example/p/1"),
				listing("Acme Blender Max", "₹4,999", "https://t.example/p/2"),
			},
			wantTitle:      "Acme Blender Max",
			wantScore:      2,
			wantConfidence: domain.ConfidenceLow,
		},
		{
			name: "no parsable candidate in window falls back",
			src:  Source{Keywords: []string{"Acme", "Blender"}},
			candidates: []domain.RawListing{
				listing("Acme Blender", domain.PriceUnavailable, "https://t.example/p/1"),
				listing(domain.TitleNotFound, "₹100", "https://t.example/p/2"),
				listing("Some Gadget", "₹100", "https://t.example/p/3"),
			},
			wantTitle:      "Some Gadget",
			wantScore:      0,
			wantConfidence: domain.ConfidenceNone,
			wantFallback:   true,
		},
		{
			name:           "empty candidate list",
			src:            Source{Keywords: []string{"Acme"}},
			wantConfidence: domain.ConfidenceNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Match(tt.src, tt.candidates)
			assert.Equal(t, tt.wantConfidence, got.Confidence)
			assert.Equal(t, tt.wantFallback, got.Fallback)
			assert.Len(t, got.Related, tt.wantRelated)

			if tt.wantTitle == "" {
				assert.False(t, got.Matched())
				return
			}
			require.True(t, got.Matched())
			assert.Equal(t, tt.wantTitle, got.Best.Listing.Title)
			assert.Equal(t, tt.wantScore, got.Best.Score)
			assert.Equal(t, tt.wantConfidence, got.Best.Confidence)
		})
	}
}

func TestMatch_FallbackBeyondWindow(t *testing.T) {
	t.Parallel()

	candidates := []domain.RawListing{
		listing("Broken", "", "https://t.example/p/1"),
		listing("Complete Listing", "₹10", "https://t.example/p/2"),
	}

	got := Match(Source{Keywords: []string{"Complete"}}, candidates, WithCandidateCap(1))
	require.True(t, got.Matched())
	assert.True(t, got.Fallback)
	assert.Equal(t, "Complete Listing", got.Best.Listing.Title)
	assert.Equal(t, 0, got.Best.Score)
}

func TestMatch_SourceListingScenario(t *testing.T) {
	t.Parallel()

	src := SourceFromTitle("Acme Blender X100 2L", "X100")
	candidates := []domain.RawListing{
		listing("Acme Blender X100 2 Litre", "₹3,299", "https://t.example/p/acme-x100"),
		listing("Generic Juicer", "₹999", "https://t.example/p/juicer"),
	}

	got := Match(src, candidates)
	require.True(t, got.Matched())
	assert.Equal(t, candidates[0], got.Best.Listing)
	assert.GreaterOrEqual(t, got.Best.Score, 11)
	assert.Equal(t, domain.ConfidenceVeryHigh, got.Confidence)
}

func TestSourceFromTitle_ScoresWholeTitle(t *testing.T) {
	t.Parallel()

	const title = "Samsung Galaxy M14 5G (Smoky Teal, 6GB, 128GB Storage) Dual Battery"

	tests := []struct {
		name       string
		candidate  string
		wantScore  int
		wantTier   domain.Confidence
		wantInList []string
	}{
		{
			name:       "punctuation and trailing words still score",
			candidate:  "SAMSUNG Galaxy M14 5G Smoky Teal 128 GB Storage Dual Battery",
			wantScore:  7,
			wantTier:   domain.ConfidenceHigh,
			wantInList: []string{"smoky", "teal", "storage", "dual", "battery"},
		},
		{
			name:       "only words past the seventh overlap",
			candidate:  "Portable Dual Battery Storage Case",
			wantScore:  3,
			wantTier:   domain.ConfidenceModerate,
			wantInList: []string{"storage", "dual", "battery"},
		},
	}

	src := SourceFromTitle(title, "")
	assert.NotContains(t, src.Keywords, "(smoky")
	assert.NotContains(t, src.Keywords, "teal,")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b := Score(src, tt.candidate)
			assert.Equal(t, tt.wantScore, b.Total)
			assert.Equal(t, tt.wantTier, ConfidenceFor(b.Total))
			for _, kw := range tt.wantInList {
				assert.Contains(t, b.MatchedKeywords, kw)
			}
		})
	}
}
