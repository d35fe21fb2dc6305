package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/cli"
)

var shareCmd = &cobra.Command{
	Use:   "share <document-id> <doctor-username>",
	Short: "Share a document with a doctor",
	Long: `Share one of your documents with a doctor by username.

  healthease share 550e8400-e29b-41d4-a716-446655440000 drbob`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}

		body := map[string]string{"doctorUsername": args[1]}

		var doc cli.Document
		if err := apiClient.Post("/documents/"+args[0]+"/share", body, &doc); err != nil {
			return fmt.Errorf("sharing: %w", err)
		}

		if flagJSON {
			cli.PrintJSON(doc)
			return nil
		}

		fmt.Printf("Shared %s with %s\n", doc.FileName, args[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(shareCmd)
}
