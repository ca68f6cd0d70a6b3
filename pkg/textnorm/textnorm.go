// Package textnorm normalizes free-text product titles into token sets and
// short keyword phrases suitable for marketplace search queries.
package textnorm

import (
	"sort"
	"strings"
	"unicode"
)

// DefaultMaxWords bounds keyword phrases so search queries stay short enough
// to return results.
const DefaultMaxWords = 7

var stopWords = map[string]struct{}{
	"with": {}, "for": {}, "and": {}, "the": {}, "a": {}, "an": {},
	"by": {}, "in": {}, "on": {}, "at": {}, "to": {}, "of": {},
}

// IsStopWord reports whether w (any case) is on the stop-word list.
func IsStopWord(w string) bool {
	_, ok := stopWords[strings.ToLower(w)]
	return ok
}

// TokenizeText lowercases s and drops every rune that is not a letter, digit
// or whitespace.
func TokenizeText(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			return unicode.ToLower(r)
		case unicode.IsSpace(r):
			return r
		default:
			return -1
		}
	}, s)
}

// Tokenize returns the set of normalized tokens in s.
func Tokenize(s string) map[string]struct{} {
	fields := strings.Fields(TokenizeText(s))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// SortedTokens returns Tokenize(s) as a sorted slice.
func SortedTokens(s string) []string {
	set := Tokenize(s)
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// KeywordPhrase takes the first maxWords words of title, removes stop words
// and collapses whitespace. A maxWords <= 0 uses DefaultMaxWords.
func KeywordPhrase(title string, maxWords int) string {
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}

	words := strings.Fields(title)
	if len(words) > maxWords {
		words = words[:maxWords]
	}

	kept := words[:0:0]
	for _, w := range words {
		if !IsStopWord(w) {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}

// Keywords splits a phrase into its ordered words.
func Keywords(phrase string) []string {
	return strings.Fields(phrase)
}

// SearchQuery builds the target-site query from a keyword phrase. A model
// number longer than two characters is appended unless the phrase already
// contains it.
func SearchQuery(phrase, model string) string {
	phrase = strings.Join(strings.Fields(phrase), " ")
	model = strings.TrimSpace(model)
	if len(model) <= 2 || strings.Contains(strings.ToLower(phrase), strings.ToLower(model)) {
		return phrase
	}
	if phrase == "" {
		return model
	}
	return phrase + " " + model
}
