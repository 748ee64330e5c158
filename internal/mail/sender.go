package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"time"

	"golang.org/x/net/proxy"
)

// Sender delivers a Message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender delivers mail over SMTP with mandatory STARTTLS and PLAIN auth.
type SMTPSender struct {
	cfg Config

	// dialer opens the TCP connection. It honors ALL_PROXY unless
	// Config.Proxy names an explicit SOCKS5 proxy.
	dialer proxy.Dialer

	// timeout bounds the whole SMTP conversation.
	timeout time.Duration

	// tlsConfig is used for STARTTLS. ServerName defaults to Config.Host.
	tlsConfig *tls.Config
}

// SMTPSenderOption configures an SMTPSender.
type SMTPSenderOption func(*SMTPSender)

// WithTimeout sets the deadline of one delivery.
func WithTimeout(timeout time.Duration) SMTPSenderOption {
	return func(s *SMTPSender) {
		s.timeout = timeout
	}
}

// WithDialer replaces the connection dialer.
func WithDialer(d proxy.Dialer) SMTPSenderOption {
	return func(s *SMTPSender) {
		s.dialer = d
	}
}

// WithTLSConfig replaces the STARTTLS configuration.
func WithTLSConfig(cfg *tls.Config) SMTPSenderOption {
	return func(s *SMTPSender) {
		s.tlsConfig = cfg
	}
}

// NewSMTPSender creates a sender for cfg. It returns ErrNotConfigured when
// cfg is incomplete.
func NewSMTPSender(cfg Config, opts ...SMTPSenderOption) (*SMTPSender, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}

	dialer := proxy.FromEnvironment()
	if cfg.Proxy != "" {
		d, err := proxy.SOCKS5("tcp", cfg.Proxy, nil, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("invalid smtp proxy %s: %w", cfg.Proxy, err)
		}
		dialer = d
	}

	s := &SMTPSender{
		cfg:     cfg,
		dialer:  dialer,
		timeout: 30 * time.Second,
		tlsConfig: &tls.Config{
			ServerName: cfg.Host,
			MinVersion: tls.VersionTLS12,
		},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Send implements Sender.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	data, err := msg.Bytes()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	conn, err := s.dialWithContext(ctx, "tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("failed to connect to smtp server: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			_ = conn.Close()
			return err
		}
	}

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("smtp handshake failed: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); !ok {
		return ErrStartTLSUnavailable
	}
	if err := client.StartTLS(s.tlsConfig); err != nil {
		return fmt.Errorf("starttls failed: %w", err)
	}
	if err := client.Auth(smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host)); err != nil {
		return fmt.Errorf("smtp auth failed: %w", err)
	}

	if err := client.Mail(msg.From); err != nil {
		return fmt.Errorf("smtp MAIL FROM rejected: %w", err)
	}
	for _, rcpt := range msg.To {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("smtp RCPT TO %s rejected: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp DATA rejected: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp server rejected message: %w", err)
	}

	return client.Quit()
}

// dialWithContext dials a connection respecting context cancellation.
func (s *SMTPSender) dialWithContext(ctx context.Context, network, address string) (net.Conn, error) {
	if cd, ok := s.dialer.(proxy.ContextDialer); ok {
		return cd.DialContext(ctx, network, address)
	}

	type dialResult struct {
		conn net.Conn
		err  error
	}

	resultCh := make(chan dialResult, 1)

	go func() {
		conn, err := s.dialer.Dial(network, address)
		resultCh <- dialResult{conn, err}
	}()

	select {
	case <-ctx.Done():
		go func() {
			if r := <-resultCh; r.conn != nil {
				_ = r.conn.Close()
			}
		}()
		return nil, ctx.Err()
	case result := <-resultCh:
		return result.conn, result.err
	}
}
