package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for PhishGuard Lite.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "phishguard",
		Short: "Heuristic phishing-link scoring and weekly report digests",
		Long: `PhishGuard Lite assigns a heuristic phishing-risk score to URLs and
aggregates user reports of risky links into a weekly digest.

Scoring is local and synchronous: it looks only at the URL string and the
optional link text. No page content is fetched and no reputation service is
queried.

Reports and digests are kept in a SQLite database under the XDG data
directory unless --backend or the configuration file says otherwise.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .phishguard in current or home directory)")
	cmd.PersistentFlags().String("backend", "",
		"Storage backend: sqlite, file or memory (default: sqlite)")
	cmd.PersistentFlags().String("data-dir", "",
		"Directory for reports and digests (default: XDG data directory)")

	cmd.AddCommand(NewScoreCmd())
	cmd.AddCommand(NewLinksCmd())
	cmd.AddCommand(NewReportCmd())
	cmd.AddCommand(NewDigestCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
