package digest

import (
	"net/url"
	"time"

	"github.com/cypherswwayinc/phishguardlite/internal/model"
	"github.com/cypherswwayinc/phishguardlite/internal/scoring"
)

const (
	// DefaultTopN caps TopDomains and TopReasons.
	DefaultTopN = 15

	// UnknownDomain labels records whose URL yields no host.
	UnknownDomain = "(unknown)"
)

// Aggregator computes DigestResult values from report snapshots.
// It holds no state between calls.
type Aggregator struct {
	now  func() time.Time
	topN int
}

// AggregatorOption configures an Aggregator.
type AggregatorOption func(*Aggregator)

// WithClock sets the function used to stamp GeneratedAt.
func WithClock(now func() time.Time) AggregatorOption {
	return func(a *Aggregator) {
		if now != nil {
			a.now = now
		}
	}
}

// WithTopN overrides the ranking cap. Non-positive values are ignored.
func WithTopN(n int) AggregatorOption {
	return func(a *Aggregator) {
		if n > 0 {
			a.topN = n
		}
	}
}

// NewAggregator creates an Aggregator with the given options.
func NewAggregator(opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{
		now:  time.Now,
		topN: DefaultTopN,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate summarizes reports with ReportedAt in [start, end], both ends inclusive.
// Records with a zero timestamp are excluded. Malformed records never cause
// an error: an unusable URL is counted under UnknownDomain and a non-list
// reasons value contributes nothing.
func (a *Aggregator) Aggregate(reports []model.ReportRecord, start, end time.Time) model.DigestResult {
	domains := newCounter()
	reasons := newCounter()
	total := 0

	for _, rec := range reports {
		if !InWindow(rec.ReportedAt, start, end) {
			continue
		}
		total++

		domains.add(domainOf(rec.URL))
		for _, reason := range rec.Reasons() {
			reasons.add(reason)
		}
	}

	result := model.DigestResult{
		Start:       start,
		End:         end,
		Total:       total,
		TopDomains:  make([]model.DomainCount, 0),
		TopReasons:  make([]model.ReasonCount, 0),
		GeneratedAt: a.now().UTC(),
	}
	for _, e := range domains.top(a.topN) {
		result.TopDomains = append(result.TopDomains, model.DomainCount{Domain: e.key, Count: e.count})
	}
	for _, e := range reasons.top(a.topN) {
		result.TopReasons = append(result.TopReasons, model.ReasonCount{Reason: e.key, Count: e.count})
	}

	return result
}

// Aggregate summarizes reports with a default Aggregator.
func Aggregate(reports []model.ReportRecord, start, end time.Time) model.DigestResult {
	return NewAggregator().Aggregate(reports, start, end)
}

// InWindow reports whether ts is set and lies within [start, end].
func InWindow(ts, start, end time.Time) bool {
	if ts.IsZero() {
		return false
	}
	return !ts.Before(start) && !ts.After(end)
}

// domainOf applies the scoring host extraction to a report URL.
// URLs that do not parse into scheme and host map to UnknownDomain.
func domainOf(rawURL string) string {
	if rawURL == "" {
		return UnknownDomain
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return UnknownDomain
	}
	host := scoring.ExtractHost(rawURL)
	if host == "" {
		return UnknownDomain
	}
	return host
}
