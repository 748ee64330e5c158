package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cypherswwayinc/phishguardlite/internal/model"
)

// NewScoreCmd creates the score command.
func NewScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score <url>",
		Short: "Score a URL for phishing risk",
		Long: `Score evaluates a URL, optionally with the text of the link that pointed
to it, and prints the risk score, its label and the reasons.

Rules and weights:
  high-risk TLD (.zip .mov .tk .gq .click .country and others)  +40
  punycode label (xn--) in the host                            +25
  URL shortener host                                           +20
  path and query longer than 150 characters                    +10
  '@' anywhere in the URL                                      +20
  link text names a different domain                           +15
  lookalike of a trusted brand (--lookalike)                   +35

Scores of 50 or more are High Risk, 20 to 49 Caution, below 20 Safe.

Examples:
  phishguard score http://evil.tk/login
  phishguard score https://bit.ly/x --text paypal.com
  phishguard score --json https://paypa1.com --lookalike`,
		Args: cobra.ExactArgs(1),
		RunE: runScoreCmd,
	}

	cmd.Flags().StringP("text", "t", "", "Visible text of the link")
	cmd.Flags().BoolP("json", "j", false, "Output the result as JSON")
	cmd.Flags().Bool("lookalike", false, "Enable the lookalike-domain rule")

	return cmd
}

func runScoreCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if getBoolFlag(cmd, "lookalike") {
		cfg.Lookalike = true
	}
	setupLogger(cfg, cmd.ErrOrStderr())

	text := getStringFlag(cmd, "text")
	res, err := newScorer(cfg).Score(args[0], text)
	if err != nil {
		return err
	}

	if getBoolFlag(cmd, "json") {
		return writeJSONResult(cmd.OutOrStdout(), res)
	}
	writeScoreText(cmd.OutOrStdout(), args[0], res)
	return nil
}

func writeJSONResult(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeScoreText(w io.Writer, rawURL string, res model.ScoreResult) {
	fmt.Fprintf(w, "URL:    %s\n", rawURL)
	fmt.Fprintf(w, "Score:  %d\n", res.Score)
	fmt.Fprintf(w, "Label:  %s\n", res.Label)
	if len(res.Reasons) == 0 {
		fmt.Fprintln(w, "Reasons: none")
		return
	}
	fmt.Fprintln(w, "Reasons:")
	for _, r := range res.Reasons {
		fmt.Fprintf(w, "  - %s\n", r)
	}
}
