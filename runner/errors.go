package runner

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrLoaderRequired is returned when a runner is created without a
	// loader.
	ErrLoaderRequired = errors.New("loader is required")

	// ErrStateRepoRequired is returned when a runner is created without a
	// state repository.
	ErrStateRepoRequired = errors.New("state repository is required")
)
