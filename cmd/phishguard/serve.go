package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/cypherswwayinc/phishguardlite/internal/server"
)

// shutdownTimeout bounds how long in-flight requests may finish after a signal.
const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the scoring and report API",
		Long: `Serve starts the HTTP API used by the browser extension and the admin
console:

  GET  /health                    liveness with server time
  POST /score                     {"url", "linkText"} -> score, label, reasons
  POST /report                    {"url", "context", "tenantKey"} -> {"ok", "id"}
  POST /scan                      {"html", "baseUrl", "minScore"} -> flagged links
  GET  /admin/api/reports         most recent reports (?limit=, default 200)
  GET  /admin/api/report/{id}     one report
  GET  /admin/api/digests         stored digests
  GET  /admin/api/digest/{name}   one stored digest
  GET  /metrics                   Prometheus metrics

The admin endpoints have no authentication. Keep the listen address on
loopback or put the server behind an authenticating proxy.

Examples:
  phishguard serve
  phishguard serve --listen 0.0.0.0:8080 --backend file --data-dir /var/lib/phishguard`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().StringP("listen", "l", "", "Listen address host:port (default 127.0.0.1:8080)")
	cmd.Flags().Bool("lookalike", false, "Enable the lookalike-domain rule")

	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if listen := getStringFlag(cmd, "listen"); listen != "" {
		cfg.ListenAddr = listen
	}
	if getBoolFlag(cmd, "lookalike") {
		cfg.Lookalike = true
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	logger := setupLogger(cfg, cmd.ErrOrStderr())

	st, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	srv, err := server.NewServer(server.Config{
		ListenAddr:  cfg.ListenAddr,
		Store:       st,
		Scorer:      newScorer(cfg),
		Concurrency: cfg.Concurrency,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd)
	defer cancel()

	return listenAndServe(ctx, srv.HTTPServer(), func(addr string) {
		logger.Info("server listening", "addr", addr, "backend", cfg.Backend)
		fmt.Fprintf(cmd.OutOrStdout(), "PhishGuard Lite API listening on http://%s\n", addr)
	})
}

// listenAndServe runs hs until ctx is cancelled, then shuts it down gracefully.
func listenAndServe(ctx context.Context, hs *http.Server, onListen func(addr string)) error {
	errCh := make(chan error, 1)
	go func() {
		onListen(hs.Addr)
		errCh <- hs.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
