// Package feed downloads weekly menu data from the vendor feed.
//
// The Fetcher issues one request per (hall, meal) pair for a target week,
// detects halls that are closed for the week, and persists raw payloads to a
// week-partitioned file store. Requests run concurrently on a worker pool;
// a slow or failing pair never affects its siblings, and there is no retry
// at this layer because a missing week self-heals on the next weekly run.
package feed
