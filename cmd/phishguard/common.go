package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cypherswwayinc/phishguardlite/internal/config"
	"github.com/cypherswwayinc/phishguardlite/internal/log"
	"github.com/cypherswwayinc/phishguardlite/internal/scoring"
	"github.com/cypherswwayinc/phishguardlite/internal/store"
)

// getBoolFlag retrieves a bool flag from the command or the root's persistent flags.
func getBoolFlag(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		v, err = cmd.Root().PersistentFlags().GetBool(name)
		if err != nil {
			return false
		}
	}
	return v
}

// getStringFlag retrieves a string flag from the command or the root's persistent flags.
func getStringFlag(cmd *cobra.Command, name string) string {
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		v, err = cmd.Root().PersistentFlags().GetString(name)
		if err != nil {
			return ""
		}
	}
	return v
}

// loadConfig builds the configuration in layers: defaults, the YAML file,
// .env files and the environment, then the global flags.
// Commands apply their own flags afterwards and call Validate.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.ConfigFilePath = getStringFlag(cmd, "config")

	// An explicit --config that does not exist is an error; a missing
	// default file is not.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.ApplyFile(file)
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	if err := config.LoadDotEnv(".env", config.DotEnvPath()); err != nil {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	cfg.ApplyEnv(os.Getenv)

	if backend := getStringFlag(cmd, "backend"); backend != "" {
		cfg.Backend = backend
	}
	if dir := getStringFlag(cmd, "data-dir"); dir != "" {
		cfg.DataDir = dir
	}
	cfg.Verbose = getBoolFlag(cmd, "verbose")
	cfg.LogJSON = getBoolFlag(cmd, "log-json")

	return cfg, nil
}

// setupLogger creates a sanitizing logger writing to w and makes it the default.
func setupLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	var logger *slog.Logger
	if cfg.LogJSON {
		logger = log.NewSecureJSONLogger(w, cfg.Verbose)
	} else {
		logger = log.NewSecureLogger(w, cfg.Verbose)
	}
	slog.SetDefault(logger)
	return logger
}

// openStore opens the configured storage backend.
func openStore(cfg *config.Config, logger *slog.Logger) (store.Store, error) {
	st, err := store.Open(cfg.Backend, cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Backend, err)
	}
	logger.Debug("store opened", "backend", cfg.Backend, "dir", cfg.DataDir)
	return st, nil
}

// newScorer creates the scorer described by cfg.
func newScorer(cfg *config.Config) *scoring.Scorer {
	return scoring.NewScorer(
		scoring.WithLookalike(cfg.Lookalike),
		scoring.WithTrustedDomains(cfg.TrustedDomains),
	)
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// nopCloser adapts the command's stdout for createOutput.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// createOutput opens path for writing, or returns stdout when path is empty.
// Files are created with 0600: digests list reported URLs.
func createOutput(cmd *cobra.Command, path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{cmd.OutOrStdout()}, nil
	}
	if err := ensureParentDir(path); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}

// readInput reads a file, or stdin when path is empty or "-".
func readInput(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	f, err := os.Open(path) //nolint:gosec // User-provided input path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	return f, nil
}
