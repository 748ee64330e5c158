// Package model defines the data structures shared across PhishGuard Lite.
//
// This package contains the following main types:
//   - ScoreResult and Label: the outcome of scoring one URL
//   - ReportRecord: a user report of a risky link
//   - DigestResult: ranked statistics over reports in a time window
//   - DigestRun: the state passed between digest pipeline steps
//
// The types live in their own package so that scoring, storage, rendering
// and transport can all share them without import cycles.
package model
