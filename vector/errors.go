package vector

import "errors"

var (
	// ErrHostRequired is returned when an index is configured without a host.
	ErrHostRequired = errors.New("vector index host is required")

	// ErrCollectionRequired is returned when an index is configured without
	// a collection name.
	ErrCollectionRequired = errors.New("vector collection name is required")

	// ErrIndexClosed is returned when an operation is attempted on a closed
	// index.
	ErrIndexClosed = errors.New("vector index is closed")
)
