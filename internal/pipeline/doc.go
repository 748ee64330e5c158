// Package pipeline runs the weekly digest as a sequence of steps and scores
// batches of links concurrently.
//
// A digest run loads a snapshot of reports, aggregates it, renders the
// result, stores the rendered artifact and optionally mails it. Each stage
// is a Step operating on a shared model.DigestRun. Storage and mail
// problems are recorded as warnings on the run instead of aborting it, so a
// partial snapshot still produces a digest.
//
// BatchProcessor scores many links with bounded concurrency using errgroup
// and returns results in input order.
package pipeline
