package vector

import "context"

// Index is the vector store the sync loader writes menu embeddings into.
// Implementations must be safe for concurrent use.
type Index interface {
	// EnsureCollection creates the backing collection with the given vector
	// dimension if it does not already exist. Idempotent.
	EnsureCollection(ctx context.Context, dimension int) error

	// EnsureFieldIndexes creates the keyword payload indexes the loader's
	// filtered queries depend on. Idempotent; safe to call on every run.
	EnsureFieldIndexes(ctx context.Context) error

	// Upsert writes a batch of points. Points with an existing ID are
	// overwritten.
	Upsert(ctx context.Context, points []Point) error

	// DeleteByTag removes every point whose sitetag payload matches tag.
	DeleteByTag(ctx context.Context, tag string) error

	// CountByTagAndDoc returns the number of points matching both the
	// sitetag and doc_id payload fields. The loader uses it to skip
	// documents that are already indexed.
	CountByTagAndDoc(ctx context.Context, tag, docID string) (uint64, error)

	// PointsByTag returns the payloads of every point whose sitetag matches
	// tag. Vectors are not returned.
	PointsByTag(ctx context.Context, tag string) ([]Payload, error)

	// Close releases the connection to the backing store.
	Close() error
}
