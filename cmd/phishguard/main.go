// Package main provides the entry point for the PhishGuard Lite CLI.
//
// PhishGuard Lite scores URLs for phishing risk with local heuristics,
// collects user reports of risky links and aggregates them into a weekly
// digest.
//
// Usage:
//
//	phishguard score <url> [--text <link text>]
//	phishguard links page.html --base https://example.com/
//	phishguard report <url>
//	phishguard digest
//	phishguard serve
//
// See --help for all available options.
package main

func main() {
	Execute()
}
