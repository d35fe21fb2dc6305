package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/cli"
)

var sharedCmd = &cobra.Command{
	Use:   "shared",
	Short: "List documents shared with you",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}

		var docs []cli.Document
		if err := apiClient.Get("/shared", nil, &docs); err != nil {
			return fmt.Errorf("listing shared documents: %w", err)
		}

		if flagJSON {
			cli.PrintJSON(docs)
			return nil
		}

		cli.SharedTable(docs)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sharedCmd)
}
