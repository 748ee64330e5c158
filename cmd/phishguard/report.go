package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cypherswwayinc/phishguardlite/internal/model"
	"github.com/cypherswwayinc/phishguardlite/internal/store"
)

// NewReportCmd creates the report command.
func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <url>",
		Short: "Record a report of a risky link",
		Long: `Report stores a user report of a suspicious link, as the browser
extension does through POST /report. The URL is scored first and the score,
label and reasons are saved in the report context, so they show up in the
weekly digest.

Examples:
  phishguard report http://evil.tk/login --text "paypal.com" --page https://mail.example.com/
  phishguard report https://bit.ly/x --tenant acme`,
		Args: cobra.ExactArgs(1),
		RunE: runReportCmd,
	}

	cmd.Flags().StringP("text", "t", "", "Visible text of the link")
	cmd.Flags().StringP("page", "p", "", "Page on which the link was found")
	cmd.Flags().String("tenant", "", "Tenant key grouping reports by organization")

	return cmd
}

func runReportCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	logger := setupLogger(cfg, cmd.ErrOrStderr())

	rawURL := args[0]
	text := getStringFlag(cmd, "text")

	res, err := newScorer(cfg).Score(rawURL, text)
	if err != nil {
		return err
	}

	reportContext := map[string]any{
		model.ContextReasons: res.Reasons,
		model.ContextLabel:   res.Label.String(),
		model.ContextScore:   res.Score,
	}
	if text != "" {
		reportContext[model.ContextLinkText] = text
	}
	if pageURL := getStringFlag(cmd, "page"); pageURL != "" {
		reportContext[model.ContextPageURL] = pageURL
	}

	rec, err := store.NewRecord(rawURL, reportContext, getStringFlag(cmd, "tenant"), time.Now())
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

	if err := appendReport(ctx, st, rec); err != nil {
		return err
	}

	logger.Info("report stored", "id", rec.ID, "url", rec.URL)
	fmt.Fprintf(cmd.OutOrStdout(), "Report %s stored (score %d, %s)\n", rec.ID, res.Score, res.Label)
	return nil
}

func appendReport(ctx context.Context, reports store.ReportStore, rec model.ReportRecord) error {
	if err := reports.Append(ctx, rec); err != nil {
		return fmt.Errorf("failed to store report: %w", err)
	}
	return nil
}
