package storage

import (
	"context"

	"github.com/poiesic/menusync/core"
)

// StateRepository persists resumable load run state, keyed by date.
// Implementations must be thread-safe and support concurrent access.
type StateRepository interface {
	// SaveState persists the state for its date, overwriting any previous
	// state. Sets UpdatedAt to the current time.
	SaveState(ctx context.Context, state *core.LoadState) error

	// LoadState retrieves the state for a date.
	// Returns nil, nil if no state exists for that date.
	LoadState(ctx context.Context, date string) (*core.LoadState, error)

	// DeleteState removes the state for a date. Deleting a date with no
	// state is not an error.
	DeleteState(ctx context.Context, date string) error

	// ListDates returns the dates that have persisted state, sorted
	// ascending.
	ListDates(ctx context.Context) ([]string, error)

	// Close closes the storage backend and releases resources.
	Close() error
}
