package scoring

import "strings"

// ExtractHost returns the host portion of a raw URL string.
// A leading http:// or https:// is stripped, everything from the first "/"
// on is dropped, and the result is lowercased. Ports and userinfo are kept.
func ExtractHost(rawURL string) string {
	rest := rawURL
	lower := strings.ToLower(rest)
	switch {
	case strings.HasPrefix(lower, "https://"):
		rest = rest[len("https://"):]
	case strings.HasPrefix(lower, "http://"):
		rest = rest[len("http://"):]
	}
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	return strings.ToLower(rest)
}

// TopLevelDomain returns the text after the final "." of host,
// or "" when host contains no ".".
func TopLevelDomain(host string) string {
	i := strings.LastIndexByte(host, '.')
	if i < 0 {
		return ""
	}
	return host[i+1:]
}

// NormalizeHost lowercases host and strips one leading "www.".
func NormalizeHost(host string) string {
	return strings.TrimPrefix(strings.ToLower(host), "www.")
}
