package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/cli"
)

var flagText bool

var showCmd = &cobra.Command{
	Use:   "show <document-id>",
	Short: "Show details and summary for a document",
	Long: `Show one document, including its generated summary.

  healthease show 550e8400-e29b-41d4-a716-446655440000
  healthease show 550e8400-... --text     Also print the extracted text`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}

		var doc cli.Document
		if err := apiClient.Get("/documents/"+args[0], nil, &doc); err != nil {
			return fmt.Errorf("fetching document: %w", err)
		}

		if flagJSON {
			cli.PrintJSON(doc)
			return nil
		}

		cli.DocumentDetail(doc)
		if flagText && doc.OCRText != "" {
			fmt.Printf("\nExtracted text:\n%s\n", doc.OCRText)
		}
		return nil
	},
}

func init() {
	showCmd.Flags().BoolVar(&flagText, "text", false, "Print the extracted text as well")
	rootCmd.AddCommand(showCmd)
}
