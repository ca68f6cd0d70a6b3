package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenizeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "punctuation stripped", in: "Acme Blender, X-100 (2L)!", want: "acme blender x100 2l"},
		{name: "already clean", in: "acme blender x100", want: "acme blender x100"},
		{name: "empty", in: "", want: ""},
		{name: "unicode letters kept", in: "Café Crème", want: "café crème"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, TokenizeText(tt.in))
		})
	}
}

func TestTokenize(t *testing.T) {
	t.Parallel()

	got := Tokenize("Wireless Mouse, wireless MOUSE 2.4GHz")
	assert.Equal(t, map[string]struct{}{
		"wireless": {},
		"mouse":    {},
		"24ghz":    {},
	}, got)
}

func TestTokenize_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"acme blender x100 2l",
		"brand xr200 wireless mouse",
		"one two  three",
		"",
	}

	for _, s := range inputs {
		t.Run(s, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, Tokenize(s), Tokenize(TokenizeText(s)))
		})
	}
}

func TestKeywordPhrase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		title    string
		maxWords int
		want     string
	}{
		{
			name:     "stop words removed",
			title:    "The Acme Blender with 2L Jar for the Kitchen",
			maxWords: 7,
			want:     "Acme Blender 2L Jar",
		},
		{
			name:     "default bound",
			title:    "one two three four five six seven eight nine",
			maxWords: 0,
			want:     "one two three four five six seven",
		},
		{
			name:     "whitespace collapsed",
			title:    "  Acme    Blender \t X100  ",
			maxWords: 7,
			want:     "Acme Blender X100",
		},
		{
			name:     "bounded before stop-word removal",
			title:    "a an the of Acme Blender",
			maxWords: 4,
			want:     "",
		},
		{
			name:     "case insensitive stop words",
			title:    "Mouse AND Keyboard By Logi",
			maxWords: 8,
			want:     "Mouse Keyboard Logi",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, KeywordPhrase(tt.title, tt.maxWords))
		})
	}
}

func TestSearchQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		phrase string
		model  string
		want   string
	}{
		{name: "model appended", phrase: "Acme Blender 2L", model: "X100", want: "Acme Blender 2L X100"},
		{name: "model already present", phrase: "Acme Blender X100", model: "x100", want: "Acme Blender X100"},
		{name: "short model ignored", phrase: "Acme Blender", model: "X1", want: "Acme Blender"},
		{name: "no phrase", phrase: "", model: "XR200", want: "XR200"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, SearchQuery(tt.phrase, tt.model))
		})
	}
}

func TestKeywords(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"Acme", "Blender", "X100"}, Keywords(" Acme  Blender X100 "))
	assert.Empty(t, Keywords(""))
}
