// Package scoring assigns a heuristic phishing-risk score to a URL.
//
// A score is the sum of the weights of independent rules, evaluated in a
// fixed order:
//
//	High-risk TLD        40
//	Punycode host        25
//	URL shortener host   20
//	Long path/query      10
//	'@' in the URL       20
//	Link text mismatch   15
//	Lookalike domain     35 (opt-in, see WithLookalike)
//
// The label is a step function of the score: 50 and above is High Risk,
// 20 and above is Caution, anything lower is Safe.
//
// Scoring performs no I/O. Rule evaluation never fails; the only error is
// ErrInvalidInput for a URL without scheme and host.
package scoring
