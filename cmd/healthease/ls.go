package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/cli"
)

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List your documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}

		var docs []cli.Document
		if err := apiClient.Get("/documents", nil, &docs); err != nil {
			return fmt.Errorf("listing documents: %w", err)
		}

		if flagJSON {
			cli.PrintJSON(docs)
			return nil
		}

		cli.DocumentTable(docs)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lsCmd)
}
