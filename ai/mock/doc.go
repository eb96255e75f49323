// Package mock provides a test double for the ai.Embedder interface.
//
// The mock embedder produces deterministic vectors derived from the input
// text, so tests can assert on stable embeddings without a live service.
// Custom behavior can be injected through function fields.
package mock
