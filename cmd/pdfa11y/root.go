package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/pdfa11y/internal/api"
	"github.com/jackzampolin/pdfa11y/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "pdfa11y",
	Short: "PDF accessibility audits with automatic remediation",
	Long: `pdfa11y checks PDF documents against a set of WCAG 2.x success criteria,
scores them and fixes the problems that can be fixed automatically.

It includes:
  - Ten checks covering metadata, structure, links, forms, images and contrast
  - A 0-100 score with severity-weighted deductions
  - Title and language remediation with a downloadable result
  - An HTTP API and a browser report with highlighted page images`,
	Version:      version.GitRelease,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.pdfa11y/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "pdfa11y home directory (default: ~/.pdfa11y)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}
