// Package mock provides an in-memory vector.Index for tests. It records
// every mutation so tests can assert on batch sizes and deletion order, and
// supports error injection through function fields.
package mock
