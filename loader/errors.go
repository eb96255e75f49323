package loader

import (
	"errors"
	"fmt"
)

var (
	// ErrStoreRequired is returned when a loader is created without a
	// document store.
	ErrStoreRequired = errors.New("document store is required")

	// ErrEmbedderRequired is returned when a loader is created without an
	// embedder.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrIndexRequired is returned when a loader is created without a
	// vector index.
	ErrIndexRequired = errors.New("vector index is required")
)

// FlushError reports a failed upsert. Docs lists the documents whose
// staged points were dropped with the batch.
type FlushError struct {
	Docs []string
	Err  error
}

func (e *FlushError) Error() string {
	return fmt.Sprintf("flushing %d points: %v", len(e.Docs), e.Err)
}

func (e *FlushError) Unwrap() error { return e.Err }
