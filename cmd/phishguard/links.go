package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/nao1215/markdown"
	"github.com/spf13/cobra"

	"github.com/cypherswwayinc/phishguardlite/internal/config"
	"github.com/cypherswwayinc/phishguardlite/internal/page"
	"github.com/cypherswwayinc/phishguardlite/internal/pipeline"
	"github.com/cypherswwayinc/phishguardlite/internal/render"
)

// NewLinksCmd creates the links command.
func NewLinksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "links [file]",
		Short: "Score every link of an HTML page",
		Long: `Links reads an HTML document, extracts every http(s) anchor with its
visible text and scores each one, the way the browser extension highlights
links on a page. Links scoring below --min-score are hidden.

The page is read from the given file, or from stdin when no file or "-" is
given. Nothing is fetched from the network.

Examples:
  phishguard links inbox.html --base https://mail.example.com/
  curl -s https://example.com/ | phishguard links --base https://example.com/
  phishguard links page.html --min-score 0 --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runLinksCmd,
	}

	cmd.Flags().StringP("base", "b", "", "Base URL for resolving relative links")
	cmd.Flags().Int("min-score", config.DefaultMinScore, "Lowest score to list")
	cmd.Flags().IntP("concurrency", "n", 0, "Links scored at once (default from config)")
	cmd.Flags().Bool("lookalike", false, "Enable the lookalike-domain rule")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output a Markdown table (mutually exclusive with --json)")

	return cmd
}

func runLinksCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	asJSON := getBoolFlag(cmd, "json")
	asMarkdown := getBoolFlag(cmd, "markdown")
	if asJSON && asMarkdown {
		return config.ErrConflictingFormats
	}
	if getBoolFlag(cmd, "lookalike") {
		cfg.Lookalike = true
	}
	if n, _ := cmd.Flags().GetInt("concurrency"); n != 0 {
		cfg.Concurrency = n
	}
	if cmd.Flags().Changed("min-score") {
		cfg.MinScore, _ = cmd.Flags().GetInt("min-score")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	logger := setupLogger(cfg, cmd.ErrOrStderr())

	var path string
	if len(args) == 1 {
		path = args[0]
	}
	in, err := readInput(cmd, path)
	if err != nil {
		return err
	}
	defer in.Close()

	links, err := page.ExtractLinks(in, getStringFlag(cmd, "base"))
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd)
	defer cancel()

	bp := pipeline.NewBatchProcessor(newScorer(cfg),
		pipeline.WithConcurrency(cfg.Concurrency),
		pipeline.WithBatchLogger(logger),
	)
	results, err := bp.ProcessBatch(ctx, links)
	if err != nil {
		return err
	}
	flagged := pipeline.Flagged(results, cfg.MinScore)

	out := cmd.OutOrStdout()
	switch {
	case asJSON:
		return writeJSONResult(out, flagged)
	case asMarkdown:
		return writeLinksMarkdown(out, flagged, len(results))
	default:
		return writeLinksText(out, flagged, len(results))
	}
}

func writeLinksText(w io.Writer, flagged []pipeline.LinkResult, total int) error {
	fmt.Fprintf(w, "%d of %d links flagged\n", len(flagged), total)
	if len(flagged) == 0 {
		return nil
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SCORE\tLABEL\tURL\tTEXT")
	for _, r := range flagged {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", r.Result.Score, r.Result.Label, r.URL, r.Text)
	}
	return tw.Flush()
}

func writeLinksMarkdown(w io.Writer, flagged []pipeline.LinkResult, total int) error {
	md := markdown.NewMarkdown(w)
	md.H2("Flagged Links")
	md.PlainText("")
	md.PlainTextf("%d of %d links flagged.", len(flagged), total)
	md.PlainText("")

	if len(flagged) > 0 {
		rows := make([][]string, len(flagged))
		for i, r := range flagged {
			rows[i] = []string{
				strconv.Itoa(r.Result.Score),
				r.Result.Label.String(),
				"`" + render.TableCell(r.URL) + "`",
				render.TableCell(r.Text),
			}
		}
		md.Table(markdown.TableSet{
			Header: []string{"Score", "Label", "URL", "Text"},
			Rows:   rows,
		})
		md.PlainText("")

		md.H3("Reasons")
		md.PlainText("")
		items := make([]string, len(flagged))
		for i, r := range flagged {
			items[i] = fmt.Sprintf("`%s`: %s", r.URL, strings.Join(r.Result.Reasons, "; "))
		}
		md.BulletList(items...)
	}

	return md.Build()
}
