// Package main implements a mock marketplace server for local development.
// It serves a source site under /source and a target site under /target,
// both with the page structure the scrape profiles expect, so the tracker
// can run end to end without reaching a real marketplace.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"html/template"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"slices"
	"strings"
	"time"
)

// item is one product carried by both mock marketplaces.
type item struct {
	Code        string  `json:"code"` // 10-character source catalog code
	Title       string  `json:"title"`
	Model       string  `json:"model,omitempty"`
	Price       float64 `json:"price"`
	TargetID    string  `json:"target_id,omitempty"`
	TargetTitle string  `json:"target_title,omitempty"`
	TargetPrice float64 `json:"target_price,omitempty"`
}

// onTarget reports whether the target marketplace carries the item.
func (it *item) onTarget() bool {
	return it.TargetID != ""
}

// defaultCatalog is served when no fixture is given.
var defaultCatalog = []item{
	{
		Code: "B0ABCDEF12", Title: "Acme Steel Electric Kettle 1.5L", Model: "AK-150", Price: 1499,
		TargetID: "acme-kettle-ak150", TargetTitle: "Acme AK-150 Electric Kettle (1.5 L, Steel)", TargetPrice: 1399,
	},
	{
		Code: "B0HIJKLM34", Title: "Nimbus Wireless Mouse M220 Silent", Model: "M220", Price: 899,
		TargetID: "nimbus-m220", TargetTitle: "Nimbus M220 Silent Wireless Optical Mouse", TargetPrice: 949,
	},
	{
		Code: "B0NOPQRS56", Title: "Orbit 20000mAh Power Bank Fast Charge", Model: "PB-20K", Price: 2199,
	},
}

func main() {
	port := flag.Int("port", 8089, "port to listen on")
	fixtureFile := flag.String("fixture", "", "path to a JSON catalog fixture (default: built-in catalog)")
	drift := flag.Float64("drift", 0, "random price drift per request, as a fraction (0.05 = ±5%)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	catalog := defaultCatalog
	if *fixtureFile != "" {
		var err error
		catalog, err = loadFixture(*fixtureFile)
		if err != nil {
			logger.Error("failed to load fixture", "path", *fixtureFile, "error", err)
			os.Exit(1)
		}
	}
	logger.Info("loaded catalog", "items", len(catalog))

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock marketplace server", "addr", addr,
		"source", fmt.Sprintf("http://localhost%s/source", addr),
		"target", fmt.Sprintf("http://localhost%s/target", addr))

	srv := &http.Server{
		Addr:         addr,
		Handler:      requestLogger(logger, newMux(logger, catalog, *drift)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func loadFixture(path string) ([]item, error) {
	data, err := os.ReadFile(path) //nolint:gosec // fixture path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	var items []item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	return items, nil
}

func newMux(logger *slog.Logger, catalog []item, drift float64) *http.ServeMux {
	m := &marketplace{log: logger, items: catalog, drift: drift}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /source/dp/{code}", m.sourceProduct)
	mux.HandleFunc("GET /source/s", m.sourceSearch)
	mux.HandleFunc("GET /target/p/{id}", m.targetProduct)
	mux.HandleFunc("GET /target/search", m.targetSearch)
	return mux
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "query", r.URL.RawQuery)
		next.ServeHTTP(w, r)
	})
}

type marketplace struct {
	log   *slog.Logger
	items []item
	drift float64
}

func (m *marketplace) price(base float64) string {
	p := base
	if m.drift > 0 {
		p *= 1 + (rand.Float64()*2-1)*m.drift //nolint:gosec // price jitter, not security sensitive
	}
	return fmt.Sprintf("₹%.2f", p)
}

// search returns the items sharing at least one word with the query, most
// shared words first.
func (m *marketplace) search(query string, title func(*item) string, include func(*item) bool) []*item {
	words := strings.Fields(strings.ToLower(query))
	type hit struct {
		it    *item
		score int
	}
	var hits []hit
	for i := range m.items {
		it := &m.items[i]
		if !include(it) {
			continue
		}
		t := strings.ToLower(title(it))
		score := 0
		for _, w := range words {
			if strings.Contains(t, w) {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, hit{it, score})
		}
	}
	slices.SortStableFunc(hits, func(a, b hit) int { return b.score - a.score })
	out := make([]*item, len(hits))
	for i := range hits {
		out[i] = hits[i].it
	}
	return out
}

func (m *marketplace) find(match func(*item) bool) *item {
	for i := range m.items {
		if match(&m.items[i]) {
			return &m.items[i]
		}
	}
	return nil
}

func (m *marketplace) sourceProduct(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	it := m.find(func(it *item) bool { return it.Code == code })
	if it == nil {
		http.NotFound(w, r)
		return
	}
	m.render(w, sourceProductTmpl, map[string]any{
		"Title": it.Title, "Price": m.price(it.Price), "Model": it.Model,
	})
	m.log.Info("source product", "code", code)
}

func (m *marketplace) sourceSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("k")
	hits := m.search(q, func(it *item) string { return it.Title }, func(*item) bool { return true })
	rows := make([]map[string]string, 0, len(hits))
	for _, it := range hits {
		rows = append(rows, map[string]string{
			"Code": it.Code, "Title": it.Title, "Price": m.price(it.Price),
		})
	}
	m.render(w, sourceSearchTmpl, rows)
	m.log.Info("source search", "query", q, "matched", len(rows))
}

func (m *marketplace) targetProduct(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	it := m.find(func(it *item) bool { return it.onTarget() && it.TargetID == id })
	if it == nil {
		http.NotFound(w, r)
		return
	}
	m.render(w, targetProductTmpl, map[string]any{
		"Title": it.TargetTitle, "Price": m.price(it.TargetPrice),
	})
}

func (m *marketplace) targetSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	hits := m.search(q, func(it *item) string { return it.TargetTitle }, (*item).onTarget)
	rows := make([]map[string]string, 0, len(hits))
	for _, it := range hits {
		rows = append(rows, map[string]string{
			"ID": it.TargetID, "Title": it.TargetTitle, "Price": m.price(it.TargetPrice),
		})
	}
	m.render(w, targetSearchTmpl, rows)
	m.log.Info("target search", "query", q, "matched", len(rows))
}

func (m *marketplace) render(w http.ResponseWriter, tmpl *template.Template, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		m.log.Error("rendering page", "template", tmpl.Name(), "error", err)
	}
}

var sourceProductTmpl = template.Must(template.New("source-product").Parse(`<!doctype html>
<html><body>
<h1><span id="productTitle">{{.Title}}</span></h1>
<span class="a-price"><span class="a-offscreen">{{.Price}}</span></span>
<img id="landingImage" src="/static/{{.Title}}.jpg">
<div id="detailBullets_feature_div"><ul>
{{if .Model}}<li>Item model number : {{.Model}}</li>{{end}}
<li>Country of Origin : India</li>
</ul></div>
<div id="productDescription">{{.Title}}</div>
</body></html>`))

var sourceSearchTmpl = template.Must(template.New("source-search").Parse(`<!doctype html>
<html><body>
{{range .}}<div class="s-result-item" data-asin="{{.Code}}">
<h2><a href="/source/dp/{{.Code}}"><span>{{.Title}}</span></a></h2>
<span class="a-price"><span class="a-offscreen">{{.Price}}</span></span>
</div>
{{end}}<div class="s-result-item" data-asin=""></div>
</body></html>`))

var targetProductTmpl = template.Must(template.New("target-product").Parse(`<!doctype html>
<html><body>
<h1><span class="B_NuCI">{{.Title}}</span></h1>
<div class="_30jeq3 _16Jk6d">{{.Price}}</div>
</body></html>`))

var targetSearchTmpl = template.Must(template.New("target-search").Parse(`<!doctype html>
<html><body>
{{range .}}<div class="_1AtVbE">
<a class="_1fQZEK" href="/target/p/{{.ID}}"><div class="_4rR01T">{{.Title}}</div></a>
<div class="_30jeq3">{{.Price}}</div>
</div>
{{end}}
</body></html>`))
