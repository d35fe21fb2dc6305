package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/cli"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <path>",
	Short: "Upload a medical document",
	Long: `Upload a medical report (pdf, png, jpg or jpeg) to HealthEase.

  healthease upload bloodwork.pdf
  healthease upload scans/xray.png

When the server runs with a background worker the document is queued
and the summary appears once processing finishes.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}

		var doc cli.Document
		if err := apiClient.Upload("/documents", "file", args[0], &doc); err != nil {
			return fmt.Errorf("uploading %s: %w", filepath.Base(args[0]), err)
		}

		if flagJSON {
			cli.PrintJSON(doc)
			return nil
		}

		if doc.Status == "processing" {
			fmt.Printf("Queued %s for processing (stored as %s). Check \"healthease ls\" in a moment.\n", doc.FileName, doc.StoredName)
			return nil
		}

		fmt.Printf("Uploaded %s (%s)\n", doc.FileName, cli.FormatSize(doc.SizeBytes))
		cli.DocumentDetail(doc)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}
