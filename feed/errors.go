package feed

import "errors"

var (
	// ErrClosed indicates the hall served no real menu for the requested
	// week: a non-success status, an empty menu, or a fallback response
	// for a different hall. This is an expected absence, not a failure.
	ErrClosed = errors.New("hall closed for week")

	// ErrBaseURLRequired is returned when a feed base URL is not provided.
	ErrBaseURLRequired = errors.New("feed base URL required")

	// ErrClientRequired is returned when a feed client is not provided.
	ErrClientRequired = errors.New("feed client required")

	// ErrStoreRequired is returned when a raw store is not provided.
	ErrStoreRequired = errors.New("raw store required")

	// ErrNoHalls is returned when no hall slugs are configured.
	ErrNoHalls = errors.New("at least one hall slug required")

	// ErrNoMeals is returned when no meal types are configured.
	ErrNoMeals = errors.New("at least one meal type required")
)
