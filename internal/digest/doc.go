// Package digest aggregates report records into ranked statistics.
//
// Aggregate filters a caller-supplied snapshot to a closed time window,
// counts reported domains and reasons, and ranks both by descending count
// with ties kept in first-seen order. The package never reads or writes
// storage; loading, rendering and delivery are handled by the digest
// pipeline in internal/pipeline.
package digest
