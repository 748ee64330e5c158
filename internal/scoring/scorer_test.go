package scoring

import (
	"errors"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/cypherswwayinc/phishguardlite/internal/model"
)

// TestScoreExamples covers the reference examples end to end.
func TestScoreExamples(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		url         string
		linkText    string
		wantScore   int
		wantReasons []string
		wantLabel   model.Label
	}{
		{
			name:        "high-risk TLD with plain link text",
			url:         "https://example.zip",
			linkText:    "Click here",
			wantScore:   40,
			wantReasons: []string{"High-risk TLD: .zip"},
			wantLabel:   model.LabelCaution,
		},
		{
			name:        "shortener without link text",
			url:         "https://bit.ly/abc",
			wantScore:   20,
			wantReasons: []string{"URL shortener host"},
			wantLabel:   model.LabelCaution,
		},
		{
			name:        "link text without a domain pattern does not mismatch",
			url:         "https://google.com",
			linkText:    "PayPal login",
			wantScore:   0,
			wantReasons: []string{},
			wantLabel:   model.LabelSafe,
		},
		{
			name:        "at sign in path",
			url:         "https://evil.com/a@b",
			wantScore:   20,
			wantReasons: []string{"Contains '@' in the path"},
			wantLabel:   model.LabelCaution,
		},
		{
			name:        "link text names another domain",
			url:         "https://google.com",
			linkText:    "Sign in at paypal.com",
			wantScore:   15,
			wantReasons: []string{"Link text domain mismatch"},
			wantLabel:   model.LabelSafe,
		},
		{
			name:        "link text matches after www stripping",
			url:         "https://www.paypal.com/signin",
			linkText:    "WWW.PAYPAL.COM",
			wantScore:   0,
			wantReasons: []string{},
			wantLabel:   model.LabelSafe,
		},
		{
			name:      "every core rule fires",
			url:       "https://xn--pple-43d.tk/" + strings.Repeat("a", 140) + "?q=" + strings.Repeat("b", 20) + "@x",
			linkText:  "apple.com",
			wantScore: 40 + 25 + 10 + 20 + 15,
			wantReasons: []string{
				"High-risk TLD: .tk",
				"Punycode/homoglyph in hostname",
				"Very long URL path/query",
				"Contains '@' in the path",
				"Link text domain mismatch",
			},
			wantLabel: model.LabelHighRisk,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Score(tt.url, tt.linkText)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Score != tt.wantScore {
				t.Errorf("score = %d, want %d", got.Score, tt.wantScore)
			}
			if !slices.Equal(got.Reasons, tt.wantReasons) {
				t.Errorf("reasons = %q, want %q", got.Reasons, tt.wantReasons)
			}
			if got.Label != tt.wantLabel {
				t.Errorf("label = %v, want %v", got.Label, tt.wantLabel)
			}
		})
	}
}

// TestScoreInvalidInput verifies that only unparsable URLs are rejected.
func TestScoreInvalidInput(t *testing.T) {
	t.Parallel()

	invalid := []string{
		"",
		"not a url",
		"example.com/path",
		"mailto:user@example.com",
		"https:///no-host",
		"http://[::1",
	}

	for _, raw := range invalid {
		t.Run(raw, func(t *testing.T) {
			t.Parallel()

			_, err := Score(raw, "")
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput for %q, got %v", raw, err)
			}
		})
	}

	t.Run("odd but absolute URLs are scored", func(t *testing.T) {
		t.Parallel()

		for _, raw := range []string{"ftp://files.example.com", "https://localhost", "http://10.0.0.1:8080/x"} {
			if _, err := Score(raw, "not a domain ..."); err != nil {
				t.Errorf("unexpected error for %q: %v", raw, err)
			}
		}
	})
}

// TestHighRiskTLDs verifies every deny-listed TLD scores at least 40.
func TestHighRiskTLDs(t *testing.T) {
	t.Parallel()

	for tld := range highRiskTLDs {
		t.Run(tld, func(t *testing.T) {
			t.Parallel()

			got, err := Score("https://login.example."+tld+"/", "")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Score < 40 {
				t.Errorf("score = %d, want >= 40", got.Score)
			}
			if !got.HasReason("High-risk TLD: ." + tld) {
				t.Errorf("missing TLD reason in %q", got.Reasons)
			}
		})
	}

	t.Run("uppercase host is lowercased", func(t *testing.T) {
		t.Parallel()

		got, _ := Score("HTTPS://EXAMPLE.ZIP/", "")
		if !got.HasReason("High-risk TLD: .zip") {
			t.Errorf("expected zip reason, got %q", got.Reasons)
		}
	})

	t.Run("host without dot has no TLD", func(t *testing.T) {
		t.Parallel()

		got, _ := Score("http://tk/", "")
		if got.Score != 0 {
			t.Errorf("expected score 0, got %d", got.Score)
		}
	})
}

// TestPunycodeAddsExactly25 verifies the punycode rule is purely additive.
func TestPunycodeAddsExactly25(t *testing.T) {
	t.Parallel()

	pairs := [][2]string{
		{"https://xn--80ak6aa92e.com/login", "https://80ak6aa92e.com/login"},
		{"https://xn--e1awd7f.bit.ly", "https://e1awd7f.bit.ly"},
		{"https://shop.xn--pple-43d.zip/@me", "https://shop.pple-43d.zip/@me"},
	}

	for _, p := range pairs {
		with, err := Score(p[0], "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		without, err := Score(p[1], "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if with.Score-without.Score != WeightPunycode {
			t.Errorf("%s: delta = %d, want %d", p[0], with.Score-without.Score, WeightPunycode)
		}
		if !with.HasReason(ReasonPunycode) {
			t.Errorf("%s: missing punycode reason", p[0])
		}
	}
}

// TestShortenerRequiresExactHost verifies subdomains of shorteners do not match.
func TestShortenerRequiresExactHost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url  string
		want bool
	}{
		{"https://bit.ly/x", true},
		{"http://TinyURL.com/abc", true},
		{"https://rebrand.ly", true},
		{"https://www.bit.ly/x", false},
		{"https://bit.ly.evil.com/x", false},
		{"https://notbit.ly/x", false},
	}

	for _, tt := range tests {
		got, err := Score(tt.url, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.HasReason(ReasonShortener) != tt.want {
			t.Errorf("%s: shortener = %v, want %v", tt.url, !tt.want, tt.want)
		}
	}
}

// TestLongPathBoundary verifies the 150 character threshold is exclusive.
func TestLongPathBoundary(t *testing.T) {
	t.Parallel()

	// "/" plus 149 characters is exactly 150.
	atLimit := "https://example.com/" + strings.Repeat("a", 149)
	overLimit := atLimit + "a"
	withQuery := "https://example.com/" + strings.Repeat("a", 100) + "?" + strings.Repeat("q", 50)

	tests := []struct {
		url  string
		want bool
	}{
		{atLimit, false},
		{overLimit, true},
		{withQuery, true},
	}

	for _, tt := range tests {
		got, err := Score(tt.url, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.HasReason(ReasonLongPath) != tt.want {
			t.Errorf("len %d: long path = %v, want %v", len(tt.url), !tt.want, tt.want)
		}
	}
}

// TestTextMismatchFirstMatchOnly pins the behavior for link text that
// contains several domain-like substrings.
func TestTextMismatchFirstMatchOnly(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		url      string
		linkText string
		want     bool
	}{
		{
			name:     "first match equals host",
			url:      "https://example.com",
			linkText: "example.com or evil.com",
			want:     false,
		},
		{
			name:     "first match differs from host",
			url:      "https://example.com",
			linkText: "evil.com or example.com",
			want:     true,
		},
		{
			name:     "single letter TLD is not a domain",
			url:      "https://example.com",
			linkText: "version 2.x released",
			want:     false,
		},
		{
			name:     "empty text",
			url:      "https://example.com",
			linkText: "",
			want:     false,
		},
		{
			name:     "subdomain counts as different host",
			url:      "https://example.com",
			linkText: "mail.example.com",
			want:     true,
		},
		{
			name:     "host port is ignored",
			url:      "https://example.com:8443/login",
			linkText: "example.com",
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Score(tt.url, tt.linkText)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.HasReason(ReasonTextMismatch) != tt.want {
				t.Errorf("mismatch = %v, want %v (reasons %q)", !tt.want, tt.want, got.Reasons)
			}
		})
	}
}

// TestScoreIsAdditive verifies the score equals the sum of triggered weights.
func TestScoreIsAdditive(t *testing.T) {
	t.Parallel()

	weights := map[string]int{
		ReasonPunycode:     WeightPunycode,
		ReasonShortener:    WeightShortener,
		ReasonLongPath:     WeightLongPath,
		ReasonAtSign:       WeightAtSign,
		ReasonTextMismatch: WeightTextMismatch,
	}

	urls := []string{
		"https://example.com",
		"https://bit.ly/a@b",
		"https://xn--abc.gq/" + strings.Repeat("x", 200),
		"http://user@phish.click/login",
	}

	for _, u := range urls {
		got, err := Score(u, "see secure-bank.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		sum := 0
		for _, r := range got.Reasons {
			if strings.HasPrefix(r, "High-risk TLD: ") {
				sum += WeightHighRiskTLD
				continue
			}
			sum += weights[r]
		}
		if sum != got.Score {
			t.Errorf("%s: score %d != sum of reasons %d", u, got.Score, sum)
		}
		if got.Label != model.LabelForScore(got.Score) {
			t.Errorf("%s: label %v does not match score %d", u, got.Label, got.Score)
		}
	}
}

// TestScoreDeterministic verifies repeated and concurrent calls agree.
func TestScoreDeterministic(t *testing.T) {
	t.Parallel()

	const url = "https://xn--80ak6aa92e.zip/verify@account"
	first, err := Score(url, "apple.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var wg sync.WaitGroup
	results := make([]model.ScoreResult, 50)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = Score(url, "apple.com")
		}()
	}
	wg.Wait()

	for i, r := range results {
		if r.Score != first.Score || !slices.Equal(r.Reasons, first.Reasons) || r.Label != first.Label {
			t.Errorf("result %d differs: %+v vs %+v", i, r, first)
		}
	}
}

// TestNewScorerRules tests rule composition.
func TestNewScorerRules(t *testing.T) {
	t.Parallel()

	t.Run("core rules only by default", func(t *testing.T) {
		t.Parallel()

		names := NewScorer().RuleNames()
		want := []string{"high_risk_tld", "punycode", "shortener", "long_path", "at_sign", "text_mismatch"}
		if !slices.Equal(names, want) {
			t.Errorf("rules = %v, want %v", names, want)
		}
	})

	t.Run("lookalike appended last", func(t *testing.T) {
		t.Parallel()

		names := NewScorer(WithLookalike(true)).RuleNames()
		if len(names) != 7 || names[6] != "lookalike" {
			t.Errorf("unexpected rules %v", names)
		}
	})

	t.Run("enabling lookalike does not change default scorer", func(t *testing.T) {
		t.Parallel()

		_ = NewScorer(WithLookalike(true))
		got, _ := Score("https://paypa1.com", "")
		if got.Score != 0 {
			t.Errorf("default scorer changed: %+v", got)
		}
	})
}
