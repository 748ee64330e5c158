package model

import "time"

// DomainCount is one entry of DigestResult.TopDomains.
type DomainCount struct {
	Domain string `json:"domain"`
	Count  int    `json:"count"`
}

// ReasonCount is one entry of DigestResult.TopReasons.
type ReasonCount struct {
	Reason string `json:"reason"`
	Count  int    `json:"count"`
}

// DigestResult summarizes the reports received in a time window.
// It is recomputed on every run and only persisted as a rendered artifact.
type DigestResult struct {
	// Start and End bound the window; both ends are inclusive.
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	// Total is the number of records inside the window.
	Total int `json:"total"`

	// TopDomains is ranked by descending count, ties in first-seen order.
	TopDomains []DomainCount `json:"topDomains"`

	// TopReasons follows the same ranking policy as TopDomains.
	TopReasons []ReasonCount `json:"topReasons"`

	// GeneratedAt is when the aggregation ran.
	GeneratedAt time.Time `json:"generatedAt"`
}

// Empty reports whether no records fell inside the window.
func (d DigestResult) Empty() bool {
	return d.Total == 0
}

// DigestRun carries the state of one digest pipeline execution.
// Each step reads what earlier steps produced and fills in its own part.
type DigestRun struct {
	// Start and End bound the requested window.
	Start time.Time
	End   time.Time

	// Records is the snapshot loaded from storage.
	Records []ReportRecord

	// Result is the aggregated digest.
	Result DigestResult

	// ArtifactName is the dated file name of the rendered digest.
	ArtifactName string

	// ContentType is the MIME type of Rendered.
	ContentType string

	// Rendered is the presentation of Result.
	Rendered []byte

	// Checksum is the SHA3-256 hex digest of Rendered once persisted.
	Checksum string

	// Persisted is true when the artifact store accepted Rendered.
	Persisted bool

	// Delivered is true when the digest was handed to the mail transport.
	Delivered bool

	// Warnings collects non-fatal problems, such as degraded storage reads.
	Warnings []string

	// CompletedSteps lists the steps that ran, in order.
	CompletedSteps []string
}

// NewDigestRun creates a run for the given window.
func NewDigestRun(start, end time.Time) *DigestRun {
	return &DigestRun{
		Start:          start,
		End:            end,
		Records:        make([]ReportRecord, 0),
		Warnings:       make([]string, 0),
		CompletedSteps: make([]string, 0),
	}
}

// AddWarning records a non-fatal problem.
func (r *DigestRun) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}
