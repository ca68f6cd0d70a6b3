package scrape

import (
	"github.com/donaldgifford/market-price-tracker/pkg/identifier"
	domain "github.com/donaldgifford/market-price-tracker/pkg/types"
)

// SiteProfile holds everything site-specific: where to search and which
// selectors to try, in order, for each attribute. The first selector that
// yields a non-empty value wins.
type SiteProfile struct {
	Site domain.Site
	// BaseURL resolves relative result links.
	BaseURL string
	// SearchURL is a fmt template taking the query-escaped search terms.
	SearchURL string

	// Product page selectors.
	Title       []string
	Price       []string
	Image       []string
	ImageAttrs  []string
	Bullets     []string
	Description []string

	// Search result selectors, evaluated inside each Result container.
	Result      string
	ResultTitle []string
	ResultLink  []string
	ResultPrice []string
	ResultImage []string

	// Rules extract the listing identifier from its URL. Empty means the
	// site has no stable identifier.
	Rules []identifier.Rule
}

// SourceProfile returns the profile for the catalog-code keyed source site.
func SourceProfile() SiteProfile {
	return SiteProfile{
		Site:      domain.SiteSource,
		BaseURL:   "https://www.amazon.in",
		SearchURL: "https://www.amazon.in/s?k=%s",

		Title: []string{"#productTitle", "#title"},
		Price: []string{
			".a-price .a-offscreen",
			"#priceblock_ourprice",
			"#priceblock_dealprice",
			".a-price-whole",
		},
		Image:       []string{"#landingImage", "#imgBlkFront"},
		ImageAttrs:  []string{"src", "data-old-hires"},
		Bullets:     []string{"#detailBullets_feature_div li", "#productDetails_techSpec_section_1 tr"},
		Description: []string{"#productDescription"},

		Result:      `div.s-result-item[data-asin]`,
		ResultTitle: []string{"h2 a span", "h2 span"},
		ResultLink:  []string{"h2 a", "a.a-link-normal.s-no-outline"},
		ResultPrice: []string{".a-price .a-offscreen", ".a-price-whole"},
		ResultImage: []string{"img.s-image"},

		Rules: identifier.DefaultSourceRules,
	}
}

// TargetProfile returns the profile for the free-text searched target site.
func TargetProfile() SiteProfile {
	return SiteProfile{
		Site:      domain.SiteTarget,
		BaseURL:   "https://www.flipkart.com",
		SearchURL: "https://www.flipkart.com/search?q=%s",

		Title:       []string{"span.B_NuCI", "h1 span"},
		Price:       []string{"div._30jeq3._16Jk6d", "div._30jeq3"},
		Image:       []string{"img._396cs4", "img._2r_T1I"},
		ImageAttrs:  []string{"src"},
		Description: []string{"div._1mXcCf"},

		Result:      "div._1AtVbE",
		ResultTitle: []string{"div._4rR01T", "a.s1Q9rs"},
		ResultLink:  []string{"a._1fQZEK", "a.s1Q9rs"},
		ResultPrice: []string{"div._30jeq3"},
		ResultImage: []string{"img._396cs4"},
	}
}

// ProfileFor returns the default profile for site.
func ProfileFor(site domain.Site) (SiteProfile, bool) {
	switch site {
	case domain.SiteSource:
		return SourceProfile(), true
	case domain.SiteTarget:
		return TargetProfile(), true
	default:
		return SiteProfile{}, false
	}
}
