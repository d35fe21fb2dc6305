package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/cli"
)

var (
	flagJSON      bool
	flagServerURL string

	cfg       *cli.Config
	apiClient *cli.Client
)

var rootCmd = &cobra.Command{
	Use:   "healthease",
	Short: "HealthEase CLI for managing your medical documents from the terminal",
	Long: `HealthEase CLI lets you upload medical reports, read their extracted
summaries, share them with your doctor and look up symptom guidance
without leaving the terminal.

Get started:
  healthease signup alice secret     Create an account
  healthease login alice secret      Authenticate and store a token
  healthease upload report.pdf       Upload a medical report
  healthease ls                      List your documents`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = cli.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if flagServerURL != "" {
			cfg.ServerURL = flagServerURL
		}
		apiClient = cli.NewClient(cfg.ServerURL, cfg.Token)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().StringVar(&flagServerURL, "server", "", "Override server URL (default: from config or http://localhost:8080)")
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// requireAuth is a helper that returns an error if no token is configured.
func requireAuth() error {
	if cfg == nil || !cfg.HasToken() {
		return fmt.Errorf("not authenticated: run \"healthease login\" first")
	}
	return nil
}
