// Package canonical transforms raw weekly feed payloads into canonical
// schema.org Menu documents and manages their file store.
//
// One document is produced per (hall, meal, section, date). Output
// filenames derive deterministically from the document key, so re-running
// a transform overwrites rather than duplicates. The Sweeper bounds storage
// growth by deleting documents of the completed prior week.
package canonical
