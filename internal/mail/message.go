package mail

import (
	"bytes"
	"fmt"
	"mime"
	"mime/quotedprintable"
	"strings"
	"time"
)

// Message is a single-part e-mail.
type Message struct {
	From        string
	To          []string
	Subject     string
	ContentType string
	Body        []byte
	Date        time.Time
}

// NewDigestMessage builds the digest e-mail for cfg.
func NewDigestMessage(cfg Config, contentType string, body []byte, now time.Time) Message {
	return Message{
		From:        cfg.Sender(),
		To:          cfg.To,
		Subject:     DigestSubject,
		ContentType: contentType,
		Body:        body,
		Date:        now,
	}
}

// Bytes encodes m as an RFC 5322 message with a quoted-printable body.
// Header lines end in CRLF.
func (m Message) Bytes() ([]byte, error) {
	var buf bytes.Buffer

	contentType := m.ContentType
	if contentType == "" {
		contentType = "text/plain; charset=utf-8"
	}

	headers := []struct{ key, value string }{
		{"From", m.From},
		{"To", strings.Join(m.To, ", ")},
		{"Subject", mime.QEncoding.Encode("utf-8", m.Subject)},
		{"Date", m.Date.Format(time.RFC1123Z)},
		{"MIME-Version", "1.0"},
		{"Content-Type", contentType},
		{"Content-Transfer-Encoding", "quoted-printable"},
	}
	for _, h := range headers {
		if strings.ContainsAny(h.value, "\r\n") {
			return nil, fmt.Errorf("header %s contains a line break", h.key)
		}
		fmt.Fprintf(&buf, "%s: %s\r\n", h.key, h.value)
	}
	buf.WriteString("\r\n")

	qp := quotedprintable.NewWriter(&buf)
	if _, err := qp.Write(m.Body); err != nil {
		return nil, fmt.Errorf("failed to encode body: %w", err)
	}
	if err := qp.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode body: %w", err)
	}
	return buf.Bytes(), nil
}
