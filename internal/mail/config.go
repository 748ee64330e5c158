package mail

import (
	"log/slog"
	"net"
	"strconv"
	"strings"
)

const (
	// DefaultPort is the SMTP submission port used when none is configured.
	DefaultPort = 587

	// DefaultFrom is the sender used when neither From nor User is set.
	DefaultFrom = "digest@example.com"

	// DigestSubject is the subject line of digest e-mails.
	DigestSubject = "PhishGuard Lite - Weekly Digest"
)

// Config holds SMTP delivery settings.
type Config struct {
	// Host is the SMTP server host name.
	Host string

	// Port is the SMTP server port. Zero means DefaultPort.
	Port int

	// User and Pass authenticate with PLAIN auth after STARTTLS.
	User string
	Pass string

	// From is the envelope and header sender. It defaults to User.
	From string

	// To lists the recipients.
	To []string

	// Proxy is an optional SOCKS5 proxy address (host:port) for the SMTP connection.
	Proxy string
}

// Enabled reports whether enough settings are present to send mail.
// Host, User, Pass and at least one recipient are required.
func (c Config) Enabled() bool {
	return c.Host != "" && c.User != "" && c.Pass != "" && len(c.To) > 0
}

// Addr returns host:port of the SMTP server.
func (c Config) Addr() string {
	port := c.Port
	if port == 0 {
		port = DefaultPort
	}
	return net.JoinHostPort(c.Host, strconv.Itoa(port))
}

// Sender returns the address used in MAIL FROM and the From header.
func (c Config) Sender() string {
	switch {
	case c.From != "":
		return c.From
	case c.User != "":
		return c.User
	default:
		return DefaultFrom
	}
}

// LogValue implements slog.LogValuer so the password never reaches the logs.
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("addr", c.Addr()),
		slog.String("user", c.User),
		slog.String("from", c.Sender()),
		slog.Int("recipients", len(c.To)),
		slog.Bool("enabled", c.Enabled()),
	)
}

// ParseRecipients splits a comma separated address list, dropping blanks.
func ParseRecipients(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
