package scoring

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Rule weights.
const (
	WeightHighRiskTLD  = 40
	WeightPunycode     = 25
	WeightShortener    = 20
	WeightLongPath     = 10
	WeightAtSign       = 20
	WeightTextMismatch = 15
	WeightLookalike    = 35
)

// Fixed reason texts. The high-risk TLD and lookalike reasons are formatted
// per URL and have no constant.
const (
	ReasonPunycode     = "Punycode/homoglyph in hostname"
	ReasonShortener    = "URL shortener host"
	ReasonLongPath     = "Very long URL path/query"
	ReasonAtSign       = "Contains '@' in the path"
	ReasonTextMismatch = "Link text domain mismatch"
)

// maxPathQueryLength is the longest path+query that does not trigger the long URL rule.
const maxPathQueryLength = 150

// highRiskTLDs are top-level domains that are cheap to register and heavily abused.
var highRiskTLDs = map[string]bool{
	"zip":     true,
	"mov":     true,
	"gq":      true,
	"cf":      true,
	"tk":      true,
	"ml":      true,
	"ga":      true,
	"loan":    true,
	"click":   true,
	"country": true,
	"uno":     true,
	"quest":   true,
}

// shortenerHosts must match the extracted host exactly.
var shortenerHosts = map[string]bool{
	"bit.ly":      true,
	"t.co":        true,
	"tinyurl.com": true,
	"goo.gl":      true,
	"is.gd":       true,
	"ow.ly":       true,
	"buff.ly":     true,
	"cutt.ly":     true,
	"rebrand.ly":  true,
}

// domainInText finds domain-like substrings in free text.
// Only the leftmost match is used.
var domainInText = regexp.MustCompile(`(?i)([a-z0-9-]+\.)+[a-z]{2,}`)

// target holds the parts of one scoring request that rules inspect.
// It is built once per call and never shared.
type target struct {
	raw      string
	parsed   *url.URL
	host     string
	linkText string
}

// rule is a single independent check contributing weight when it fires.
type rule struct {
	name   string
	weight int
	check  func(t *target) (reason string, ok bool)
}

// coreRules are evaluated in this order for every URL.
var coreRules = []rule{
	{name: "high_risk_tld", weight: WeightHighRiskTLD, check: checkHighRiskTLD},
	{name: "punycode", weight: WeightPunycode, check: checkPunycode},
	{name: "shortener", weight: WeightShortener, check: checkShortener},
	{name: "long_path", weight: WeightLongPath, check: checkLongPath},
	{name: "at_sign", weight: WeightAtSign, check: checkAtSign},
	{name: "text_mismatch", weight: WeightTextMismatch, check: checkTextMismatch},
}

func checkHighRiskTLD(t *target) (string, bool) {
	tld := TopLevelDomain(t.host)
	if tld == "" || !highRiskTLDs[tld] {
		return "", false
	}
	return fmt.Sprintf("High-risk TLD: .%s", tld), true
}

func checkPunycode(t *target) (string, bool) {
	return ReasonPunycode, strings.Contains(t.host, "xn--")
}

func checkShortener(t *target) (string, bool) {
	return ReasonShortener, shortenerHosts[t.host]
}

func checkLongPath(t *target) (string, bool) {
	n := len(t.parsed.EscapedPath()) + len(t.parsed.RawQuery)
	return ReasonLongPath, n > maxPathQueryLength
}

func checkAtSign(t *target) (string, bool) {
	return ReasonAtSign, strings.Contains(t.raw, "@")
}

// checkTextMismatch compares the first domain-like substring of the link text
// with the URL's own hostname. Missing text, no match, or an empty host on
// either side means the rule does not fire.
func checkTextMismatch(t *target) (string, bool) {
	if t.linkText == "" {
		return "", false
	}
	match := domainInText.FindString(t.linkText)
	if match == "" {
		return "", false
	}
	textHost := NormalizeHost(match)
	linkHost := NormalizeHost(t.parsed.Hostname())
	if textHost == "" || linkHost == "" {
		return "", false
	}
	return ReasonTextMismatch, textHost != linkHost
}
