// Package page extracts the links of an HTML document together with their
// visible text, so each link can be scored against what it claims to be.
// Documents are supplied by the caller; nothing is fetched.
package page
