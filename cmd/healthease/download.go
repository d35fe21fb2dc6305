package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/cli"
)

var flagOutput string

var downloadCmd = &cobra.Command{
	Use:   "download <document-id> [local-dir]",
	Short: "Download the original file for a document",
	Long: `Download a document's original file to your local machine.

  healthease download 550e8400-...            Download to current directory
  healthease download 550e8400-... ./out      Download to a directory
  healthease download 550e8400-... -o my.pdf  Download to an exact path`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}

		var doc cli.Document
		if err := apiClient.Get("/documents/"+args[0], nil, &doc); err != nil {
			return fmt.Errorf("fetching document: %w", err)
		}

		destDir := "."
		if len(args) > 1 {
			destDir = args[1]
		}
		dest := filepath.Join(destDir, doc.FileName)
		if flagOutput != "" {
			dest = flagOutput
		}

		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return fmt.Errorf("creating directory: %w", err)
		}

		out, err := os.Create(dest)
		if err != nil {
			return fmt.Errorf("creating %s: %w", dest, err)
		}
		defer out.Close()

		if err := apiClient.DownloadTo("/files/"+doc.OwnerID+"/"+doc.StoredName, out); err != nil {
			return fmt.Errorf("downloading: %w", err)
		}

		fmt.Printf("Downloaded %s to %s\n", doc.FileName, dest)
		return nil
	},
}

func init() {
	downloadCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output file path (overrides default naming)")
	rootCmd.AddCommand(downloadCmd)
}
