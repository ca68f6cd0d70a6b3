// Package identifier extracts stable product identifiers from marketplace
// URLs and model numbers from listing detail text.
package identifier

import (
	"regexp"
	"strings"
	"unicode"
)

// Rule is one named URL pattern. The first capture group is the identifier.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
}

// DefaultSourceRules recognise a 10-character catalog code in product-page,
// legacy product-page and query-parameter URL forms, in that order.
var DefaultSourceRules = []Rule{
	{Name: "dp", Pattern: regexp.MustCompile(`/dp/([A-Z0-9]{10})`)},
	{Name: "gp-product", Pattern: regexp.MustCompile(`/gp/product/([A-Z0-9]{10})`)},
	{Name: "query", Pattern: regexp.MustCompile(`[?&]asin=([A-Z0-9]{10})`)},
}

// Extractor applies an ordered set of rules to a URL.
type Extractor struct {
	rules []Rule
}

// New creates an Extractor. With no rules it uses DefaultSourceRules.
func New(rules ...Rule) *Extractor {
	if len(rules) == 0 {
		rules = DefaultSourceRules
	}
	return &Extractor{rules: rules}
}

// CompileRules builds rules from name/pattern pairs, as read from config.
// Each pattern must have at least one capture group.
func CompileRules(patterns map[string]string, order []string) ([]Rule, error) {
	rules := make([]Rule, 0, len(order))
	for _, name := range order {
		expr, ok := patterns[name]
		if !ok {
			continue
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, &RuleError{Name: name, Err: err}
		}
		if re.NumSubexp() < 1 {
			return nil, &RuleError{Name: name, Err: errNoCapture}
		}
		rules = append(rules, Rule{Name: name, Pattern: re})
	}
	return rules, nil
}

// Extract returns the capture of the first matching rule. ok is false when
// no rule matches; callers proceed without an identifier.
func (e *Extractor) Extract(url string) (id string, ok bool) {
	for _, r := range e.rules {
		if m := r.Pattern.FindStringSubmatch(url); len(m) > 1 && m[1] != "" {
			return m[1], true
		}
	}
	return "", false
}

// Rules returns the configured rules in evaluation order.
func (e *Extractor) Rules() []Rule {
	return append([]Rule(nil), e.rules...)
}

var (
	bulletModelRe      = regexp.MustCompile(`(?i)model\s*(?:number|name|no\.?|#)?\s*[:\s]\s*([A-Za-z0-9][A-Za-z0-9-]*)`)
	descriptionModelRe = regexp.MustCompile(`(?i)model\s*(?:number|#|no)?[:\s]+([A-Za-z0-9-]+)`)
)

// ModelNumber applies the model-number heuristics to a listing's detail
// bullets and then its free-text description. It returns "" when neither
// yields a value.
func ModelNumber(bullets []string, description string) string {
	for _, b := range bullets {
		b = clean(b)
		if !strings.Contains(strings.ToLower(b), "model") {
			continue
		}
		if m := bulletModelRe.FindStringSubmatch(b); len(m) > 1 {
			return strings.TrimSpace(m[1])
		}
	}

	if m := descriptionModelRe.FindStringSubmatch(clean(description)); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// clean drops invisible formatting runes (bidi marks are common in detail
// bullets) and collapses whitespace.
func clean(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Cf, r) {
			return -1
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}
