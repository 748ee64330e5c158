// Package store persists phishing reports and rendered digest artifacts.
//
// Reports are append-only: once Append succeeds the record is never changed.
// Artifacts are immutable and addressed by file name; the store computes a
// SHA3-256 checksum of the body on write.
//
// Three backends implement Store:
//
//   - SQLiteStore keeps everything in one SQLite file (the default).
//   - FileStore keeps one JSON file per report and one file per artifact.
//   - MemoryStore keeps everything in process memory, for tests and demos.
//
// Reads that skip corrupt entries return the readable records together with
// an error wrapping ErrDegraded, so callers can decide whether a partial
// result is acceptable.
package store
