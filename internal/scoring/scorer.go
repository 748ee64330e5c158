package scoring

import (
	"fmt"
	"net/url"

	"github.com/cypherswwayinc/phishguardlite/internal/model"
)

// Scorer classifies URLs with a fixed, ordered set of heuristic rules.
// A Scorer is immutable after construction and safe for concurrent use.
type Scorer struct {
	rules []rule
}

// scorerOptions collects Option values before the rule list is built.
type scorerOptions struct {
	lookalike bool
	trusted   []string
}

// Option configures a Scorer.
type Option func(*scorerOptions)

// WithLookalike enables the lookalike-domain rule, evaluated after the core rules.
func WithLookalike(enabled bool) Option {
	return func(o *scorerOptions) {
		o.lookalike = enabled
	}
}

// WithTrustedDomains replaces the domains the lookalike rule compares against.
// An empty list keeps DefaultTrustedDomains.
func WithTrustedDomains(domains []string) Option {
	return func(o *scorerOptions) {
		if len(domains) > 0 {
			o.trusted = domains
		}
	}
}

// NewScorer creates a Scorer. Without options only the six core rules run.
func NewScorer(opts ...Option) *Scorer {
	o := scorerOptions{trusted: DefaultTrustedDomains}
	for _, opt := range opts {
		opt(&o)
	}

	rules := make([]rule, len(coreRules), len(coreRules)+1)
	copy(rules, coreRules)
	if o.lookalike {
		checker := newLookalikeChecker(o.trusted)
		rules = append(rules, rule{name: "lookalike", weight: WeightLookalike, check: checker.check})
	}

	return &Scorer{rules: rules}
}

// defaultScorer backs the package-level Score function.
var defaultScorer = NewScorer()

// Score classifies rawURL with the core rules. See Scorer.Score.
func Score(rawURL, linkText string) (model.ScoreResult, error) {
	return defaultScorer.Score(rawURL, linkText)
}

// Score evaluates every rule against rawURL and the optional linkText.
// Each triggered rule adds its weight and one reason, in rule order.
// ErrInvalidInput is returned only when rawURL lacks a scheme or host.
func (s *Scorer) Score(rawURL, linkText string) (model.ScoreResult, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return model.ScoreResult{}, fmt.Errorf("%w: %q", ErrInvalidInput, rawURL)
	}

	t := &target{
		raw:      rawURL,
		parsed:   parsed,
		host:     ExtractHost(rawURL),
		linkText: linkText,
	}

	score := 0
	reasons := make([]string, 0, len(s.rules))
	for _, r := range s.rules {
		reason, ok := r.check(t)
		if !ok {
			continue
		}
		score += r.weight
		reasons = append(reasons, reason)
	}

	return model.NewScoreResult(score, reasons), nil
}

// RuleNames returns the names of the active rules in evaluation order.
func (s *Scorer) RuleNames() []string {
	names := make([]string, len(s.rules))
	for i, r := range s.rules {
		names[i] = r.name
	}
	return names
}
