package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cryptotax-dev/cryptotax/internal/buildinfo"
	"github.com/cryptotax-dev/cryptotax/internal/config"
	"github.com/cryptotax-dev/cryptotax/internal/importer"
	"github.com/cryptotax-dev/cryptotax/internal/report"
	"github.com/cryptotax-dev/cryptotax/internal/summary"
)

// NewRootCommand creates the CLI command. The tool is a one-shot
// summarizer, so the root command does the work itself rather than
// dispatching to subcommands.
func NewRootCommand() *cobra.Command {
	var cfgPath string
	var format string
	var jsonOut bool

	rootCmd := &cobra.Command{
		Use:   "cryptotax <gain-loss-statement.csv>",
		Short: "Summarize a crypto gain/loss statement for tax filing",
		Long: `Reads an exchange-exported gain/loss statement CSV and prints the
short-term and long-term gain/loss totals plus total proceeds and
total cost basis. Malformed rows abort the run: a figure computed
from a partially read statement would be silently wrong.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		Args:    cobra.ExactArgs(1),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(cmd, args[0], cfgPath, format, jsonOut)
		},
	}

	rootCmd.Flags().StringVar(&cfgPath, "config", "", "YAML file overriding column names, date layouts and the long-term threshold")
	rootCmd.Flags().StringVar(&format, "format", "coinbase", "statement format")
	rootCmd.Flags().BoolVar(&jsonOut, "json", false, "emit the summary as JSON")

	return rootCmd
}

func runSummary(cmd *cobra.Command, path, cfgPath, format string, jsonOut bool) error {
	cfg := config.Default()
	if cfgPath != "" {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	p := importer.DefaultRegistry(cfg).Get(format)
	if p == nil {
		return fmt.Errorf("unknown statement format %q", format)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	rows, err := p.Parse(f)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	result, err := summary.Calculate(rows)
	if err != nil {
		return err
	}

	if jsonOut {
		return report.WriteJSON(cmd.OutOrStdout(), result)
	}
	return report.Write(cmd.OutOrStdout(), result)
}
