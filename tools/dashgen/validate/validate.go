// Package validate checks generated dashboards and rule files: every
// query must parse as PromQL and reference only known metrics.
package validate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/prometheus/prometheus/promql/parser"

	"github.com/donaldgifford/market-price-tracker/tools/dashgen/rules"
)

// Result collects validation findings. Errors fail generation; warnings
// are reported.
type Result struct {
	Errors   []string
	Warnings []string
}

// Ok reports whether no errors were found.
func (r *Result) Ok() bool {
	return len(r.Errors) == 0
}

func (r *Result) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// histogramSuffixes are the series a histogram exports besides its name.
var histogramSuffixes = []string{"_bucket", "_count", "_sum"}

func known(name string, metrics map[string]bool) bool {
	if metrics[name] {
		return true
	}
	for _, s := range histogramSuffixes {
		if base, ok := strings.CutSuffix(name, s); ok && metrics[base] {
			return true
		}
	}
	return false
}

// Expr parses expr and checks every selector it contains. where labels
// the findings.
func Expr(r *Result, where, expr string, metrics map[string]bool) {
	node, err := parser.ParseExpr(expr)
	if err != nil {
		r.errorf("%s: invalid PromQL %q: %v", where, expr, err)
		return
	}
	parser.Inspect(node, func(n parser.Node, _ []parser.Node) error {
		vs, ok := n.(*parser.VectorSelector)
		if !ok || vs.Name == "" {
			return nil
		}
		if !known(vs.Name, metrics) {
			r.errorf("%s: unknown metric %q", where, vs.Name)
		}
		return nil
	})
}

type jsonPanel struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Targets []struct {
		Expr string `json:"expr"`
	} `json:"targets"`
	Panels []jsonPanel `json:"panels"`
}

// Dashboard validates every panel query of a built dashboard.
func Dashboard(dash any, metrics map[string]bool) *Result {
	r := &Result{}

	data, err := json.Marshal(dash)
	if err != nil {
		r.errorf("encoding dashboard: %v", err)
		return r
	}
	var doc struct {
		Panels []jsonPanel `json:"panels"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		r.errorf("decoding dashboard: %v", err)
		return r
	}

	seen := make(map[string]bool)
	var walk func(panels []jsonPanel)
	walk = func(panels []jsonPanel) {
		for _, p := range panels {
			if p.Type == "row" {
				walk(p.Panels)
				continue
			}
			if seen[p.Title] {
				r.warnf("duplicate panel title %q", p.Title)
			}
			seen[p.Title] = true
			if len(p.Targets) == 0 {
				r.warnf("panel %q has no queries", p.Title)
			}
			for _, t := range p.Targets {
				Expr(r, "panel "+p.Title, t.Expr, metrics)
			}
		}
	}
	walk(doc.Panels)
	return r
}

// Rules validates a rule resource. Recording rule names become known to
// the rules after them and are reported so dashboards can use them.
func Rules(cr rules.PrometheusRule, metrics map[string]bool) *Result {
	r := &Result{}
	local := make(map[string]bool, len(metrics))
	for k, v := range metrics {
		local[k] = v
	}
	for _, g := range cr.Spec.Groups {
		for _, rule := range g.Rules {
			name := rule.Name()
			if name == "" {
				r.errorf("group %s: rule without record or alert name", g.Name)
				continue
			}
			Expr(r, g.Name+"/"+name, rule.Expr, local)
			if rule.Record != "" {
				local[rule.Record] = true
			}
		}
	}
	return r
}
