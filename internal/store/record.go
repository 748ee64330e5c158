package store

import (
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/cypherswwayinc/phishguardlite/internal/model"
)

// NewRecord validates an incoming report and returns the record to append.
// The record gets a fresh UUID and is stamped with now in UTC.
// A nil context is stored as an empty map.
func NewRecord(rawURL string, reportContext map[string]any, tenantKey string, now time.Time) (model.ReportRecord, error) {
	if err := validateURL(rawURL); err != nil {
		return model.ReportRecord{}, err
	}
	if reportContext == nil {
		reportContext = make(map[string]any)
	}
	return model.ReportRecord{
		ID:         uuid.NewString(),
		URL:        rawURL,
		Context:    reportContext,
		TenantKey:  tenantKey,
		ReportedAt: now.UTC(),
	}, nil
}

// Validate checks a record before it is appended.
func Validate(rec model.ReportRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidRecord)
	}
	if rec.ReportedAt.IsZero() {
		return fmt.Errorf("%w: missing reportedAt", ErrInvalidRecord)
	}
	return validateURL(rec.URL)
}

func validateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: url %q is not absolute", ErrInvalidRecord, rawURL)
	}
	return nil
}
