package mock

import (
	"context"
	"sync"

	"github.com/poiesic/menusync/core"
	"github.com/poiesic/menusync/vector"
)

// MockIndex is an in-memory test double for vector.Index.
// Function fields override individual operations for error injection.
type MockIndex struct {
	UpsertFunc      func(ctx context.Context, points []vector.Point) error
	DeleteByTagFunc func(ctx context.Context, tag string) error
	CountFunc       func(ctx context.Context, tag, docID string) (uint64, error)

	mu        sync.Mutex
	points    map[core.ID]vector.Point
	dimension int
	indexed   bool
	upserts   [][]vector.Point
	deletions []string
	closed    bool
}

// NewMockIndex creates an empty in-memory index.
func NewMockIndex() *MockIndex {
	return &MockIndex{
		points: make(map[core.ID]vector.Point),
	}
}

// EnsureCollection records the requested dimension.
func (m *MockIndex) EnsureCollection(ctx context.Context, dimension int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return vector.ErrIndexClosed
	}
	if m.dimension == 0 {
		m.dimension = dimension
	}
	return nil
}

// EnsureFieldIndexes records that indexes were requested.
func (m *MockIndex) EnsureFieldIndexes(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return vector.ErrIndexClosed
	}
	m.indexed = true
	return nil
}

// Upsert stores the batch, overwriting points with existing IDs.
func (m *MockIndex) Upsert(ctx context.Context, points []vector.Point) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, points)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return vector.ErrIndexClosed
	}
	m.upserts = append(m.upserts, points)
	for _, p := range points {
		m.points[p.ID] = p
	}
	return nil
}

// DeleteByTag removes every point whose sitetag matches tag.
func (m *MockIndex) DeleteByTag(ctx context.Context, tag string) error {
	if m.DeleteByTagFunc != nil {
		return m.DeleteByTagFunc(ctx, tag)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return vector.ErrIndexClosed
	}
	m.deletions = append(m.deletions, tag)
	for id, p := range m.points {
		if p.Payload.SiteTag == tag {
			delete(m.points, id)
		}
	}
	return nil
}

// CountByTagAndDoc counts stored points matching both fields.
func (m *MockIndex) CountByTagAndDoc(ctx context.Context, tag, docID string) (uint64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx, tag, docID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0, vector.ErrIndexClosed
	}
	var count uint64
	for _, p := range m.points {
		if p.Payload.SiteTag == tag && p.Payload.DocID == docID {
			count++
		}
	}
	return count, nil
}

// PointsByTag returns the payloads of stored points matching the tag.
func (m *MockIndex) PointsByTag(ctx context.Context, tag string) ([]vector.Payload, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, vector.ErrIndexClosed
	}
	var payloads []vector.Payload
	for _, p := range m.points {
		if p.Payload.SiteTag == tag {
			payloads = append(payloads, p.Payload)
		}
	}
	return payloads, nil
}

// Close marks the index closed; subsequent operations fail.
func (m *MockIndex) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// PointCount returns the number of stored points.
func (m *MockIndex) PointCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.points)
}

// Upserts returns the recorded upsert batches in call order.
func (m *MockIndex) Upserts() [][]vector.Point {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.upserts
}

// Deletions returns the sitetags deleted, in call order.
func (m *MockIndex) Deletions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deletions
}

// Dimension returns the dimension EnsureCollection was first called with.
func (m *MockIndex) Dimension() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dimension
}

// FieldIndexed reports whether EnsureFieldIndexes was called.
func (m *MockIndex) FieldIndexed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.indexed
}
