package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/cli"
)

var noteCmd = &cobra.Command{
	Use:   "note <document-id> <text>...",
	Short: "Add a doctor's note to a shared document",
	Long: `Append a note to a document that was shared with you. Doctors only.

  healthease note 550e8400-... Results look normal, repeat in 6 months.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}

		body := map[string]string{"note": strings.Join(args[1:], " ")}

		var doc cli.Document
		if err := apiClient.Post("/documents/"+args[0]+"/notes", body, &doc); err != nil {
			return fmt.Errorf("adding note: %w", err)
		}

		if flagJSON {
			cli.PrintJSON(doc)
			return nil
		}

		fmt.Printf("Note added to %s\n", doc.FileName)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(noteCmd)
}
