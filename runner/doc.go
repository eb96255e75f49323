// Package runner drives the daily vector load with per-file retry,
// timeouts and persisted progress.
//
// A run walks every canonical document for the target date, invoking the
// loader per file with a bounded number of attempts and a per-attempt
// timeout. Progress is persisted to a state repository at every file
// boundary, so a crashed or cancelled run resumes without re-processing
// files that already succeeded. One file's terminal failure never aborts
// the run; the final state classifies the run as success, partial or
// failed.
package runner
