package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/cli"
)

var flagRole string

var signupCmd = &cobra.Command{
	Use:   "signup <username> <password>",
	Short: "Create a new account",
	Long: `Create a HealthEase account.

  healthease signup alice secret123
  healthease signup drbob secret123 --role doctor`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]string{
			"username": args[0],
			"password": args[1],
			"role":     flagRole,
		}

		var user cli.User
		if err := apiClient.Post("/auth/signup", body, &user); err != nil {
			return fmt.Errorf("signing up: %w", err)
		}

		if flagJSON {
			cli.PrintJSON(user)
			return nil
		}

		fmt.Printf("Account created for %s (%s). Run \"healthease login\" to authenticate.\n", user.Username, user.Role)
		return nil
	},
}

func init() {
	signupCmd.Flags().StringVar(&flagRole, "role", "patient", "Account role: patient or doctor")
	rootCmd.AddCommand(signupCmd)
}
