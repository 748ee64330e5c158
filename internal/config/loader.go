package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".phishguard"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the structure of the .phishguard YAML file.
// Every field is optional; unset fields keep the current value.
type File struct {
	Storage StorageFile `yaml:"storage,omitempty"`
	Server  ServerFile  `yaml:"server,omitempty"`
	Scoring ScoringFile `yaml:"scoring,omitempty"`
	Digest  DigestFile  `yaml:"digest,omitempty"`
	Mail    MailFile    `yaml:"mail,omitempty"`
}

// StorageFile selects the storage backend.
type StorageFile struct {
	Backend string `yaml:"backend,omitempty"`
	Dir     string `yaml:"dir,omitempty"`
}

// ServerFile configures the HTTP API.
type ServerFile struct {
	Listen      string `yaml:"listen,omitempty"`
	Concurrency int    `yaml:"concurrency,omitempty"`
}

// ScoringFile configures optional scoring rules.
type ScoringFile struct {
	Lookalike bool     `yaml:"lookalike,omitempty"`
	Trusted   []string `yaml:"trusted,omitempty"`
}

// DigestFile configures the weekly digest.
type DigestFile struct {
	Days   int    `yaml:"days,omitempty"`
	Format string `yaml:"format,omitempty"`
	TopN   int    `yaml:"top_n,omitempty"`

	// Persist is a pointer so that an explicit false can be told from unset.
	Persist *bool `yaml:"persist,omitempty"`
}

// MailFile holds the non-secret mail settings. Credentials come from the environment.
type MailFile struct {
	// Proxy is a SOCKS5 host:port used to reach the SMTP server.
	Proxy string `yaml:"proxy,omitempty"`
}

// LoadConfigFile loads a YAML configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error appropriately based on whether
// the config file path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// ApplyFile overlays the values set in f onto c.
func (c *Config) ApplyFile(f *File) {
	if f == nil {
		return
	}

	if f.Storage.Backend != "" {
		c.Backend = f.Storage.Backend
	}
	if f.Storage.Dir != "" {
		c.DataDir = f.Storage.Dir
	}
	if f.Server.Listen != "" {
		c.ListenAddr = f.Server.Listen
	}
	if f.Server.Concurrency != 0 {
		c.Concurrency = f.Server.Concurrency
	}
	if f.Scoring.Lookalike {
		c.Lookalike = true
	}
	if len(f.Scoring.Trusted) > 0 {
		c.TrustedDomains = f.Scoring.Trusted
	}
	if f.Digest.Days != 0 {
		c.DigestDays = f.Digest.Days
	}
	if f.Digest.Format != "" {
		c.DigestFormat = f.Digest.Format
	}
	if f.Digest.TopN != 0 {
		c.TopN = f.Digest.TopN
	}
	if f.Digest.Persist != nil {
		c.Persist = *f.Digest.Persist
	}
	if f.Mail.Proxy != "" {
		c.Mail.Proxy = f.Mail.Proxy
	}
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .phishguard in the current directory
// 3. Look for .phishguard in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}
