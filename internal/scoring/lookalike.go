package scoring

import "fmt"

// DefaultTrustedDomains are frequently impersonated domains checked by the
// lookalike rule. Order matters: the first close match is reported.
var DefaultTrustedDomains = []string{
	"google.com", "gmail.com", "youtube.com", "facebook.com", "amazon.com", "netflix.com",
	"microsoft.com", "apple.com", "paypal.com", "ebay.com", "walmart.com", "target.com",
	"bankofamerica.com", "chase.com", "wellsfargo.com", "citibank.com", "usbank.com",
	"github.com", "stackoverflow.com", "reddit.com", "twitter.com", "instagram.com",
	"linkedin.com", "dropbox.com", "spotify.com", "discord.com", "slack.com", "zoom.us",
}

// maxLookalikeDistance is the largest edit distance still considered a lookalike.
const maxLookalikeDistance = 1

// shapeSubstitutes maps a character to strings that render similarly.
var shapeSubstitutes = map[rune][]string{
	'm': {"rn", "nn"},
	'l': {"I", "1", "|"},
	'1': {"l", "I", "|"},
	'|': {"l", "I", "1"},
	'o': {"0"},
	'0': {"o"},
	's': {"5"},
	'5': {"s"},
	'z': {"2"},
	'2': {"z"},
	'g': {"9"},
	'9': {"g"},
	'b': {"6"},
	'6': {"b"},
	'a': {"@"},
	'@': {"a"},
}

// lookalikeChecker flags hosts that are one edit away from a trusted domain,
// either directly or after undoing one character-shape substitution.
type lookalikeChecker struct {
	trusted    []string
	trustedSet map[string]bool
}

func newLookalikeChecker(trusted []string) *lookalikeChecker {
	set := make(map[string]bool, len(trusted))
	for _, d := range trusted {
		set[d] = true
	}
	return &lookalikeChecker{trusted: trusted, trustedSet: set}
}

// check is a rule check function for the lookalike rule.
func (c *lookalikeChecker) check(t *target) (string, bool) {
	domain := NormalizeHost(t.parsed.Hostname())
	if domain == "" || c.trustedSet[domain] {
		return "", false
	}

	for _, trusted := range c.trusted {
		if d := editDistance(domain, trusted); d <= maxLookalikeDistance {
			return fmt.Sprintf("Lookalike domain: %s vs %s (edit distance: %d)", domain, trusted, d), true
		}
	}

	for _, variant := range shapeVariants(domain) {
		for _, trusted := range c.trusted {
			if editDistance(variant, trusted) <= maxLookalikeDistance {
				return fmt.Sprintf("Lookalike domain: %s vs %s (character shape variation)", domain, trusted), true
			}
		}
	}

	return "", false
}

// shapeVariants returns every string produced by replacing a single
// character of domain with one of its shape substitutes.
func shapeVariants(domain string) []string {
	runes := []rune(domain)
	var variants []string
	for i, r := range runes {
		for _, sub := range shapeSubstitutes[r] {
			variants = append(variants, string(runes[:i])+sub+string(runes[i+1:]))
		}
	}
	return variants
}

// editDistance returns the Levenshtein distance between a and b.
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
