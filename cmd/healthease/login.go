package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/cli"
)

var loginCmd = &cobra.Command{
	Use:   "login <username> <password>",
	Short: "Authenticate with the HealthEase server",
	Long: `Authenticate and store the session token locally.

  healthease login alice secret123

The token is written to your user config directory and reused by
every other command until you log out.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]string{
			"username": args[0],
			"password": args[1],
		}

		var result cli.LoginResult
		if err := apiClient.Post("/auth/login", body, &result); err != nil {
			return fmt.Errorf("logging in: %w", err)
		}

		cfg.Token = result.Token
		if err := cli.SaveConfig(cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}

		if flagJSON {
			cli.PrintJSON(result)
			return nil
		}

		fmt.Printf("Logged in as %s (%s)\n", result.Username, result.Role)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
}
