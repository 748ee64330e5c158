// Package mail delivers rendered digests over SMTP.
//
// Delivery is optional: Config.Enabled reports whether the host, credentials
// and recipients are all present, and callers skip sending otherwise.
// STARTTLS is mandatory before authenticating. Connections go through a
// SOCKS5 proxy when one is configured or set in ALL_PROXY.
package mail
