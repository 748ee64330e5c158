package config

import (
	"net"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/cypherswwayinc/phishguardlite/internal/digest"
	"github.com/cypherswwayinc/phishguardlite/internal/mail"
	"github.com/cypherswwayinc/phishguardlite/internal/render"
	"github.com/cypherswwayinc/phishguardlite/internal/store"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "phishguard"

	// DefaultBackend keeps reports and digests in a SQLite database.
	DefaultBackend = store.BackendSQLite

	// DefaultListenAddr binds the API to loopback only. Exposing it further
	// is an explicit choice of the operator.
	DefaultListenAddr = "127.0.0.1:8080"

	// DefaultConcurrency is the number of links scored at once by links and /scan.
	DefaultConcurrency = 10

	// DefaultDigestDays is the length of the weekly digest window.
	DefaultDigestDays = 7

	// DefaultDigestFormat is the format mailed and stored by default.
	DefaultDigestFormat = string(render.FormatHTML)

	// DefaultMinScore hides Safe links from links output, matching the
	// extension's highlight threshold.
	DefaultMinScore = 20

	// DefaultSendTimeout bounds one SMTP delivery.
	DefaultSendTimeout = 30 * time.Second
)

// Config holds every setting of PhishGuard Lite.
// It is built by NewConfig, overlaid with the YAML file by ApplyFile and the
// environment by ApplyEnv, then overridden by CLI flags and checked by Validate.
type Config struct {
	// Verbose enables debug logging.
	Verbose bool

	// LogJSON switches log output from text to JSON.
	LogJSON bool

	// ConfigFilePath is the YAML file given with --config.
	// If empty, .phishguard is searched in the current and home directories.
	ConfigFilePath string

	// Backend selects the storage backend: sqlite, file or memory.
	Backend string

	// DataDir is where the backend keeps its files.
	// Defaults to the XDG data directory (~/.local/share/phishguard on Linux).
	DataDir string

	// ListenAddr is the host:port served by serve.
	ListenAddr string

	// Concurrency bounds concurrent link scoring.
	Concurrency int

	// Lookalike enables the trusted-brand lookalike rule.
	Lookalike bool

	// TrustedDomains overrides the brands checked by the lookalike rule.
	TrustedDomains []string

	// DigestDays is the digest window length ending at the run time.
	DigestDays int

	// DigestFormat is one of render.Formats().
	DigestFormat string

	// TopN caps the domain and reason rankings.
	TopN int

	// Persist stores rendered digests as artifacts.
	Persist bool

	// MinScore is the lowest score listed by the links command.
	MinScore int

	// Mail holds SMTP delivery settings. Delivery is off unless Mail.Enabled().
	Mail mail.Config

	// SendTimeout bounds one SMTP delivery.
	SendTimeout time.Duration
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		Backend:      DefaultBackend,
		DataDir:      XDGDataDir(),
		ListenAddr:   DefaultListenAddr,
		Concurrency:  DefaultConcurrency,
		DigestDays:   DefaultDigestDays,
		DigestFormat: DefaultDigestFormat,
		TopN:         digest.DefaultTopN,
		Persist:      true,
		MinScore:     DefaultMinScore,
		SendTimeout:  DefaultSendTimeout,
	}
}

// XDGDataDir returns the XDG data directory for PhishGuard Lite.
// On Linux: ~/.local/share/phishguard
// On macOS: ~/Library/Application Support/phishguard
// On Windows: %LOCALAPPDATA%\phishguard
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for PhishGuard Lite.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// DotEnvPath returns the .env file read from the XDG config directory.
func DotEnvPath() string {
	return filepath.Join(XDGConfigDir(), ".env")
}

// Validate checks if the configuration is valid and returns the first problem found.
func (c *Config) Validate() error {
	if !validBackend(c.Backend) {
		return ErrInvalidBackend
	}

	if c.Backend != store.BackendMemory && c.DataDir == "" {
		return ErrNoDataDir
	}

	if _, _, err := net.SplitHostPort(c.ListenAddr); err != nil {
		return ErrInvalidListenAddr
	}

	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	if c.DigestDays <= 0 {
		return ErrInvalidWindow
	}

	if c.TopN <= 0 {
		return ErrInvalidTopN
	}

	if _, err := render.ParseFormat(c.DigestFormat); err != nil {
		return ErrInvalidFormat
	}

	if c.SendTimeout <= 0 {
		return ErrInvalidTimeout
	}

	return nil
}

// Format returns the parsed DigestFormat. Call Validate first.
func (c *Config) Format() render.Format {
	f, err := render.ParseFormat(c.DigestFormat)
	if err != nil {
		return render.FormatHTML
	}
	return f
}

func validBackend(name string) bool {
	for _, b := range store.Backends() {
		if b == name {
			return true
		}
	}
	return false
}
