package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/cli"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current authenticated user",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}

		var user cli.User
		if err := apiClient.Get("/me", nil, &user); err != nil {
			return fmt.Errorf("fetching user: %w", err)
		}

		if flagJSON {
			cli.PrintJSON(user)
			return nil
		}

		cli.UserInfo(user)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
