package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/cli"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove stored credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cli.ClearConfig(); err != nil {
			return fmt.Errorf("clearing config: %w", err)
		}
		fmt.Println("Logged out.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
