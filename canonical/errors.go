package canonical

import "errors"

var (
	// ErrRawStoreRequired is returned when a raw payload store is not provided.
	ErrRawStoreRequired = errors.New("raw store required")

	// ErrDocStoreRequired is returned when a document store is not provided.
	ErrDocStoreRequired = errors.New("document store required")

	// ErrRootRequired is returned when a store root directory is not provided.
	ErrRootRequired = errors.New("store root required")
)
