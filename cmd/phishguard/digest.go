package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/cypherswwayinc/phishguardlite/internal/config"
	"github.com/cypherswwayinc/phishguardlite/internal/digest"
	"github.com/cypherswwayinc/phishguardlite/internal/mail"
	"github.com/cypherswwayinc/phishguardlite/internal/model"
	"github.com/cypherswwayinc/phishguardlite/internal/pipeline"
	"github.com/cypherswwayinc/phishguardlite/internal/render"
)

// dateLayout is accepted by --start and --end besides RFC 3339.
const dateLayout = "2006-01-02"

// NewDigestCmd creates the digest command.
func NewDigestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Build the weekly digest of reported links",
		Long: `Digest aggregates the reports received in a time window into counts of
reports, the most reported domains and the most common reasons.

By default the window is the last 7 days ending now. The rendered digest is
written to stdout (or --output), stored as weekly_digest_YYYYMMDD.<ext>
unless --no-persist is given, and mailed when SMTP_HOST, SMTP_USER,
SMTP_PASS and DIGEST_TO are set.

Window bounds are inclusive. A date without a time means the start of that
day for --start and the end of that day for --end, in UTC.

Examples:
  # Last week's digest as HTML, stored and mailed if SMTP is configured
  phishguard digest -o digest.html

  # Markdown digest for January without storing or mailing it
  phishguard digest --start 2025-01-01 --end 2025-01-31 -f markdown --no-persist --no-send

  # JSON for another tool
  phishguard digest -f json --days 30`,
		Args: cobra.NoArgs,
		RunE: runDigestCmd,
	}

	cmd.Flags().Int("days", config.DefaultDigestDays, "Window length in days ending now (ignored with --start)")
	cmd.Flags().String("start", "", "Window start (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().String("end", "", "Window end (YYYY-MM-DD or RFC 3339, default now)")
	cmd.Flags().StringP("format", "f", "",
		"Output format: "+strings.Join(render.Formats(), ", ")+" (default html)")
	cmd.Flags().StringP("output", "o", "", "Write the digest to this file instead of stdout")
	cmd.Flags().Int("top", 0, "Entries in the domain and reason rankings (default 15)")
	cmd.Flags().String("lang", "en", "Language tag used to format counts")
	cmd.Flags().Bool("no-persist", false, "Do not store the rendered digest")
	cmd.Flags().Bool("no-send", false, "Do not mail the digest even if SMTP is configured")

	return cmd
}

func runDigestCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyDigestFlags(cmd, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	logger := setupLogger(cfg, cmd.ErrOrStderr())

	window, err := digestWindow(cmd, cfg, time.Now())
	if err != nil {
		return err
	}

	lang, err := language.Parse(getStringFlag(cmd, "lang"))
	if err != nil {
		return fmt.Errorf("invalid --lang: %w", err)
	}
	renderer, err := render.New(cfg.Format(), render.WithLanguage(lang), render.WithPrettyPrint())
	if err != nil {
		return err
	}

	sender, err := digestSender(cfg, getBoolFlag(cmd, "no-send"))
	if err != nil {
		return err
	}

	st, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, cancel := signalContext(cmd)
	defer cancel()

	p := pipeline.DigestPipeline(pipeline.DigestConfig{
		Store:      st,
		Aggregator: digest.NewAggregator(digest.WithTopN(cfg.TopN)),
		Renderer:   renderer,
		Persist:    cfg.Persist,
		Sender:     sender,
		Mail:       cfg.Mail,
		Logger:     logger,
	})

	run := model.NewDigestRun(window.Start, window.End)
	if err := p.Execute(ctx, run); err != nil {
		return fmt.Errorf("digest failed: %w", err)
	}

	out, err := createOutput(cmd, getStringFlag(cmd, "output"))
	if err != nil {
		return err
	}
	if _, err := out.Write(run.Rendered); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to write digest: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to write digest: %w", err)
	}

	writeRunSummary(cmd.ErrOrStderr(), run, logger)
	return nil
}

// applyDigestFlags overrides cfg with the digest flags the user set.
func applyDigestFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var err error

	if flags.Changed("days") {
		if cfg.DigestDays, err = flags.GetInt("days"); err != nil {
			return err
		}
	}
	if f := getStringFlag(cmd, "format"); f != "" {
		cfg.DigestFormat = f
	}
	if flags.Changed("top") {
		if cfg.TopN, err = flags.GetInt("top"); err != nil {
			return err
		}
	}
	if getBoolFlag(cmd, "no-persist") {
		cfg.Persist = false
	}
	return nil
}

// digestWindow resolves --start and --end, falling back to the last cfg.DigestDays days.
func digestWindow(cmd *cobra.Command, cfg *config.Config, now time.Time) (digest.Window, error) {
	startFlag := getStringFlag(cmd, "start")
	endFlag := getStringFlag(cmd, "end")

	end := now.UTC()
	if endFlag != "" {
		t, err := parseBound(endFlag, true)
		if err != nil {
			return digest.Window{}, fmt.Errorf("invalid --end: %w", err)
		}
		end = t
	}

	w := digest.LastDays(end, cfg.DigestDays)
	if startFlag != "" {
		t, err := parseBound(startFlag, false)
		if err != nil {
			return digest.Window{}, fmt.Errorf("invalid --start: %w", err)
		}
		w.Start = t
	}

	if !w.Valid() {
		return digest.Window{}, fmt.Errorf("%w: start %s is after end %s",
			config.ErrInvalidWindow, w.Start.Format(time.RFC3339), w.End.Format(time.RFC3339))
	}
	return w, nil
}

// parseBound parses an RFC 3339 time or a date. A date used as an end bound
// covers the whole day.
func parseBound(s string, isEnd bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is neither YYYY-MM-DD nor RFC 3339", s)
	}
	if isEnd {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return t, nil
}

// digestSender returns the SMTP sender, or nil when delivery is off.
func digestSender(cfg *config.Config, noSend bool) (mail.Sender, error) {
	if noSend || !cfg.Mail.Enabled() {
		return nil, nil //nolint:nilnil // nil sender disables delivery
	}
	s, err := mail.NewSMTPSender(cfg.Mail, mail.WithTimeout(cfg.SendTimeout))
	if err != nil {
		return nil, err
	}
	return s, nil
}

// writeRunSummary reports what the run did on w, which is stderr so that
// stdout carries only the digest.
func writeRunSummary(w io.Writer, run *model.DigestRun, logger *slog.Logger) {
	fmt.Fprintf(w, "Digest %s to %s: %d report(s)\n",
		run.Start.Format(time.RFC3339), run.End.Format(time.RFC3339), run.Result.Total)
	if run.Persisted {
		fmt.Fprintf(w, "Stored as %s (sha3-256 %s)\n", run.ArtifactName, run.Checksum)
	}
	if run.Delivered {
		fmt.Fprintln(w, "Mailed to the digest recipients")
	}
	for _, warning := range run.Warnings {
		fmt.Fprintf(w, "Warning: %s\n", warning)
	}
	logger.Debug("digest run complete", "steps", strings.Join(run.CompletedSteps, ","))
}
