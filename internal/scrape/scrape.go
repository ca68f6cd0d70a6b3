// Package scrape fetches and searches marketplace listings. Backends turn
// HTML into domain.RawListing values using per-site selector profiles and
// substitute sentinels for mandatory fields they cannot find.
package scrape

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	domain "github.com/donaldgifford/market-price-tracker/pkg/types"
)

// ListingFetcher loads a single product page.
type ListingFetcher interface {
	FetchListing(ctx context.Context, url string) (*domain.RawListing, error)
}

// ListingSearcher runs a free-text search and returns the first page of
// results in site order. hint is an optional model number.
type ListingSearcher interface {
	SearchListings(ctx context.Context, query, hint string) ([]domain.RawListing, error)
}

// Backend is a site adapter that can both fetch and search.
type Backend interface {
	ListingFetcher
	ListingSearcher
}

// Backend names accepted in configuration.
const (
	BackendHTTP    = "http"
	BackendBrowser = "browser"
)

const (
	// DefaultTimeout bounds a single page load.
	DefaultTimeout = 10 * time.Second
	// DefaultSearchAttempts is the total number of search tries.
	DefaultSearchAttempts = 3
	// DefaultSearchWait is the fixed pause between search tries.
	DefaultSearchWait = 2 * time.Second
	// DefaultMaxResults bounds the search result page.
	DefaultMaxResults = 10
)

// DefaultUserAgents is the rotation used when none are configured.
var DefaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.114 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:90.0) Gecko/20100101 Firefox/90.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:90.0) Gecko/20100101 Firefox/90.0",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/92.0.4515.107 Safari/537.36",
}

const (
	acceptHeader   = "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8"
	acceptLanguage = "en-US,en;q=0.9"
)

// StatusError is a non-200 response from a marketplace.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned %d", e.URL, e.Code)
}

// Transient reports whether the status is worth retrying.
func (e *StatusError) Transient() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= http.StatusInternalServerError
}

// ValidateURL rejects anything that is not an absolute http(s) URL.
func ValidateURL(u string) error {
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		return fmt.Errorf("%w: %q", domain.ErrInvalidURL, u)
	}
	return nil
}
