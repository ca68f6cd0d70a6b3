package scrape

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/donaldgifford/market-price-tracker/internal/metrics"
	"github.com/donaldgifford/market-price-tracker/pkg/identifier"
	domain "github.com/donaldgifford/market-price-tracker/pkg/types"
)

// parser turns goquery documents into listings for one site profile.
type parser struct {
	profile   SiteProfile
	extractor *identifier.Extractor
}

func newParser(p SiteProfile) *parser {
	ps := &parser{profile: p}
	if len(p.Rules) > 0 {
		ps.extractor = identifier.New(p.Rules...)
	}
	return ps
}

func (p *parser) site() string {
	return string(p.profile.Site)
}

// listing reads a product page. Missing mandatory fields become sentinels;
// missing optional fields stay empty.
func (p *parser) listing(doc *goquery.Document, pageURL string) *domain.RawListing {
	root := doc.Selection
	l := &domain.RawListing{URL: pageURL}

	l.Title = firstText(root, p.profile.Title)
	if l.Title == "" {
		l.Title = domain.TitleNotFound
		metrics.MissingFieldsTotal.WithLabelValues(p.site(), "title").Inc()
	}

	l.PriceText = firstText(root, p.profile.Price)
	if l.PriceText == "" {
		l.PriceText = domain.PriceUnavailable
		metrics.MissingFieldsTotal.WithLabelValues(p.site(), "price").Inc()
	}

	l.ImageURL = firstAttr(root, p.profile.Image, p.profile.ImageAttrs)
	l.ModelNumber = identifier.ModelNumber(
		allText(root, p.profile.Bullets),
		firstText(root, p.profile.Description),
	)
	if p.extractor != nil {
		l.Identifier, _ = p.extractor.Extract(pageURL)
	}
	return l
}

// results reads up to limit search result containers. Containers with no
// title, link or price at all are layout filler and are skipped.
func (p *parser) results(doc *goquery.Document, limit int) []domain.RawListing {
	base, _ := url.Parse(p.profile.BaseURL)

	var out []domain.RawListing
	doc.Find(p.profile.Result).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		title := firstText(s, p.profile.ResultTitle)
		href := firstAttr(s, p.profile.ResultLink, []string{"href"})
		priceText := firstText(s, p.profile.ResultPrice)
		if title == "" && href == "" && priceText == "" {
			return true
		}

		l := domain.RawListing{
			Title:     title,
			PriceText: priceText,
			URL:       resolve(base, href),
			ImageURL:  firstAttr(s, p.profile.ResultImage, []string{"src", "data-src"}),
		}
		if l.Title == "" {
			l.Title = domain.TitleNotFound
		}
		if l.PriceText == "" {
			l.PriceText = domain.PriceUnavailable
		}
		if p.extractor != nil && l.URL != "" {
			l.Identifier, _ = p.extractor.Extract(l.URL)
		}

		out = append(out, l)
		return len(out) < limit
	})
	return out
}

func firstText(root *goquery.Selection, selectors []string) string {
	for _, sel := range selectors {
		if t := collapse(root.Find(sel).First().Text()); t != "" {
			return t
		}
	}
	return ""
}

func allText(root *goquery.Selection, selectors []string) []string {
	var out []string
	for _, sel := range selectors {
		root.Find(sel).Each(func(_ int, s *goquery.Selection) {
			if t := collapse(s.Text()); t != "" {
				out = append(out, t)
			}
		})
	}
	return out
}

func firstAttr(root *goquery.Selection, selectors, attrs []string) string {
	for _, sel := range selectors {
		s := root.Find(sel).First()
		if s.Length() == 0 {
			continue
		}
		for _, a := range attrs {
			if v, ok := s.Attr(a); ok && strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		}
	}
	return ""
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func resolve(base *url.URL, href string) string {
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base == nil || ref.IsAbs() {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}
