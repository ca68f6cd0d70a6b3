// Package matcher scores target-marketplace search results against a source
// listing and picks the best cross-marketplace match.
package matcher

import (
	"strings"
	"unicode/utf8"

	"github.com/donaldgifford/market-price-tracker/pkg/textnorm"
	domain "github.com/donaldgifford/market-price-tracker/pkg/types"
)

// Scoring weights.
const (
	ModelMatchPoints   = 10
	KeywordMatchPoints = 1
	minKeywordLen      = 4
)

// Default windows.
const (
	DefaultCandidateCap = 5
	DefaultRelatedCap   = 3
)

// Source is what the matcher knows about the source listing.
type Source struct {
	Keywords []string
	Model    string
}

// SourceFromTitle builds a Source from the full listing title. Every
// normalized token is a keyword, so punctuation never sticks to a word and
// long titles score on all of their words, not only the leading ones that
// make up the search phrase.
func SourceFromTitle(title, model string) Source {
	return Source{
		Keywords: textnorm.SortedTokens(title),
		Model:    strings.TrimSpace(model),
	}
}

// Breakdown records why a candidate scored what it did.
type Breakdown struct {
	Total           int      `json:"total"`
	ModelMatched    bool     `json:"model_matched"`
	MatchedKeywords []string `json:"matched_keywords,omitempty"`
}

type options struct {
	candidateCap int
	relatedCap   int
}

// Option configures Match.
type Option func(*options)

// WithCandidateCap bounds how many leading search results are scored.
func WithCandidateCap(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.candidateCap = n
		}
	}
}

// WithRelatedCap bounds how many related listings a no-match carries.
func WithRelatedCap(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.relatedCap = n
		}
	}
}

// Score computes the match score of one candidate title. Keywords shorter
// than four characters are ignored; matching is case-insensitive substring
// containment. Each distinct keyword counts once.
func Score(src Source, title string) Breakdown {
	var b Breakdown
	lt := strings.ToLower(title)

	if m := strings.ToLower(src.Model); m != "" && strings.Contains(lt, m) {
		b.ModelMatched = true
		b.Total += ModelMatchPoints
	}

	seen := make(map[string]struct{}, len(src.Keywords))
	for _, kw := range src.Keywords {
		k := strings.ToLower(kw)
		if utf8.RuneCountInString(k) < minKeywordLen {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		if strings.Contains(lt, k) {
			b.MatchedKeywords = append(b.MatchedKeywords, kw)
			b.Total += KeywordMatchPoints
		}
	}
	return b
}

// ConfidenceFor maps a score onto its confidence tier.
func ConfidenceFor(score int) domain.Confidence {
	switch {
	case score >= 10:
		return domain.ConfidenceVeryHigh
	case score >= 6:
		return domain.ConfidenceHigh
	case score >= 3:
		return domain.ConfidenceModerate
	case score > 0:
		return domain.ConfidenceLow
	default:
		return domain.ConfidenceNone
	}
}

// Match ranks the leading candidates and returns the best one.
//
// Only complete candidates (title, price and URL present) are scored. The
// first candidate with the highest positive score wins. When candidates were
// scored but none scored above zero, the result is a no-match carrying the
// first few raw candidates. When no candidate in the window was complete, the
// first complete candidate anywhere in the list is returned with score zero
// and Fallback set.
func Match(src Source, candidates []domain.RawListing, opts ...Option) domain.MatchResult {
	o := options{candidateCap: DefaultCandidateCap, relatedCap: DefaultRelatedCap}
	for _, opt := range opts {
		opt(&o)
	}

	window := candidates
	if len(window) > o.candidateCap {
		window = window[:o.candidateCap]
	}

	var (
		best      *domain.MatchCandidate
		bestScore int
		parsable  int
	)
	for i := range window {
		c := &window[i]
		if !complete(c) {
			continue
		}
		parsable++

		s := Score(src, c.Title).Total
		if s > bestScore {
			bestScore = s
			best = &domain.MatchCandidate{
				Listing:    *c,
				Score:      s,
				Confidence: ConfidenceFor(s),
			}
		}
	}

	if best != nil {
		return domain.MatchResult{Best: best, Confidence: best.Confidence}
	}

	if parsable == 0 {
		for i := range candidates {
			if complete(&candidates[i]) {
				return domain.MatchResult{
					Best: &domain.MatchCandidate{
						Listing:    candidates[i],
						Confidence: domain.ConfidenceNone,
					},
					Confidence: domain.ConfidenceNone,
					Fallback:   true,
				}
			}
		}
	}

	related := window
	if len(related) > o.relatedCap {
		related = related[:o.relatedCap]
	}
	return domain.MatchResult{
		Related:    append([]domain.RawListing(nil), related...),
		Confidence: domain.ConfidenceNone,
	}
}

func complete(l *domain.RawListing) bool {
	return l.Actionable() && strings.TrimSpace(l.URL) != ""
}
