package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"painel/internal/app"
)

func newOperatorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "operator",
		Short: "Manage operator credentials",
	}
	cmd.AddCommand(newOperatorCreateCmd())
	return cmd
}

func newOperatorCreateCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an operator credential, or leave an existing one untouched",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if email == "" || password == "" {
				return errors.New("--email and --password are required")
			}
			return withApp(cmd.Context(), func(a *app.App) error {
				if err := a.Seeder.EnsureOperator(cmd.Context(), email, password); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "operator %s ready\n", email)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "operator e-mail")
	cmd.Flags().StringVar(&password, "password", "", "operator password")
	return cmd
}
