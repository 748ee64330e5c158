package config

import (
	"errors"
	"io/fs"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/cypherswwayinc/phishguardlite/internal/mail"
)

// Environment variables read by ApplyEnv.
const (
	EnvSMTPHost   = "SMTP_HOST"
	EnvSMTPPort   = "SMTP_PORT"
	EnvSMTPUser   = "SMTP_USER"
	EnvSMTPPass   = "SMTP_PASS"
	EnvDigestTo   = "DIGEST_TO"
	EnvDigestFrom = "DIGEST_FROM"
)

// LoadDotEnv loads variables from the given .env files into the process
// environment. Variables already set are not overridden and missing files
// are skipped.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}

// MailFromEnv builds SMTP settings from the environment through getenv.
// An unparsable SMTP_PORT falls back to the default port.
func MailFromEnv(getenv func(string) string) mail.Config {
	cfg := mail.Config{
		Host: getenv(EnvSMTPHost),
		User: getenv(EnvSMTPUser),
		Pass: getenv(EnvSMTPPass),
		From: getenv(EnvDigestFrom),
		To:   mail.ParseRecipients(getenv(EnvDigestTo)),
	}
	if p, err := strconv.Atoi(getenv(EnvSMTPPort)); err == nil && p > 0 {
		cfg.Port = p
	}
	return cfg
}

// ApplyEnv overlays SMTP settings from getenv onto c, keeping the proxy
// chosen by the configuration file.
func (c *Config) ApplyEnv(getenv func(string) string) {
	proxy := c.Mail.Proxy
	c.Mail = MailFromEnv(getenv)
	c.Mail.Proxy = proxy
}
