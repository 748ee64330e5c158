package model

import "time"

// Well-known keys inside ReportRecord.Context.
const (
	// ContextReasons holds the scorer reasons shown to the reporter.
	ContextReasons = "reasons"

	// ContextPageURL is the page on which the link was found.
	ContextPageURL = "pageUrl"

	// ContextLinkText is the anchor text displayed for the link.
	ContextLinkText = "linkText"

	// ContextLabel is the label shown to the reporter.
	ContextLabel = "label"

	// ContextScore is the score shown to the reporter.
	ContextScore = "score"
)

// ReportRecord is a single user report of a risky link.
// Records are created once and never mutated.
type ReportRecord struct {
	// ID uniquely identifies the record.
	ID string `json:"id"`

	// URL is the reported link.
	URL string `json:"url"`

	// Context is free-form metadata supplied by the reporter.
	Context map[string]any `json:"context,omitempty"`

	// TenantKey optionally groups reports by organization or cohort.
	TenantKey string `json:"tenantKey,omitempty"`

	// ReportedAt is when the report was received, in UTC.
	// A zero value means the timestamp was missing or unparsable.
	ReportedAt time.Time `json:"reportedAt"`
}

// Reasons returns the string entries of Context["reasons"].
// A missing or non-list value yields nil, and non-string items are skipped.
func (r ReportRecord) Reasons() []string {
	switch v := r.Context[ContextReasons].(type) {
	case []string:
		return v
	case []any:
		reasons := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				reasons = append(reasons, s)
			}
		}
		return reasons
	default:
		return nil
	}
}

// ContextString returns Context[key] when it is a string.
func (r ReportRecord) ContextString(key string) string {
	s, _ := r.Context[key].(string)
	return s
}
