package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"painel/internal/companylookup"
	"painel/internal/platform/config"
	"painel/pkg/cnpj"
)

func newCNPJCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cnpj",
		Short: "Format and look up company tax ids",
	}
	cmd.AddCommand(newCNPJFormatCmd(), newCNPJLookupCmd())
	return cmd
}

func newCNPJFormatCmd() *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "format <value>...",
		Short: "Print each value with the CNPJ mask applied",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, raw := range args {
				digits := cnpj.Normalize(raw)
				status := "complete"
				switch {
				case !cnpj.IsValid(digits):
					status = "incomplete"
				case strict && !cnpj.HasValidCheckDigits(digits):
					status = "invalid check digits"
				}
				fmt.Fprintf(out, "%s\t%s\n", cnpj.Format(raw), status)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "also verify the two check digits")
	return cmd
}

func newCNPJLookupCmd() *cobra.Command {
	var (
		baseURL string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "lookup <cnpj>",
		Short: "Resolve the registered company name from the public registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if baseURL == "" {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				baseURL = cfg.Lookup.BaseURL
			}
			client := companylookup.NewHTTPClient(companylookup.ClientConfig{BaseURL: baseURL, Timeout: timeout})
			name, err := client.ResolveCompanyName(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("lookup %s: %w", cnpj.Format(args[0]), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", cnpj.Format(args[0]), name)
			return nil
		},
	}
	cmd.Flags().StringVar(&baseURL, "registry-url", "", "registry base URL (defaults to CNPJ_API_BASE_URL)")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "request timeout")
	return cmd
}
