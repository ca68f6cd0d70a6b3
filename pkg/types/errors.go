package domain

import "errors"

// Error taxonomy. Concrete failures wrap one of these so callers can branch
// with errors.Is.
var (
	// ErrFetch covers network, timeout and HTTP status failures.
	ErrFetch = errors.New("fetch failed")
	// ErrParse means a mandatory field was absent after all fallback selectors.
	ErrParse = errors.New("parse failed")
	// ErrMatchUnavailable means the target-site candidate search itself failed.
	ErrMatchUnavailable = errors.New("search unavailable")
	// ErrPersistence means the repository write failed.
	ErrPersistence = errors.New("persistence failed")
	// ErrInvalidURL is returned for URLs that are not http(s).
	ErrInvalidURL = errors.New("invalid url")
	// ErrNotTracked is returned when a key has no tracked product.
	ErrNotTracked = errors.New("product not tracked")
)
