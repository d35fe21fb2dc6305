package main

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/cli"
)

var triageCmd = &cobra.Command{
	Use:   "triage <symptom>...",
	Short: "Look up guidance for a symptom",
	Long: `Look up first-line guidance for a symptom. This is generic advice,
not a diagnosis.

  healthease triage fever
  healthease triage chest pain`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}

		params := url.Values{"symptom": {strings.Join(args, " ")}}

		var advice cli.TriageAdvice
		if err := apiClient.Get("/triage", params, &advice); err != nil {
			return fmt.Errorf("looking up symptom: %w", err)
		}

		if flagJSON {
			cli.PrintJSON(advice)
			return nil
		}

		fmt.Printf("%s: %s\n", advice.Symptom, advice.Advice)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(triageCmd)
}
