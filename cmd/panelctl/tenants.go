package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"painel/internal/app"
	"painel/internal/listing/export"
	"painel/internal/listing/models"
)

func newTenantsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenants",
		Short: "Work with the tenant collection",
	}
	cmd.AddCommand(newTenantsExportCmd())
	return cmd
}

func newTenantsExportCmd() *cobra.Command {
	var out, query string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the tenant listing, company names included, to an xlsx file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(a *app.App) error {
				snap, err := a.Listing.Refresh(cmd.Context())
				if err != nil {
					return err
				}
				rows := models.Filter(snap.Rows, query)
				if err := writeWorkbook(cmd, out, rows); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "exported %d of %d tenants\n", len(rows), len(snap.Rows))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "tenants.xlsx", `output file, "-" for stdout`)
	cmd.Flags().StringVarP(&query, "query", "q", "", "only rows matching this search term")
	return cmd
}

func writeWorkbook(cmd *cobra.Command, path string, rows []models.Row) (err error) {
	var w io.Writer = cmd.OutOrStdout()
	if path != "-" {
		f, createErr := os.Create(path)
		if createErr != nil {
			return fmt.Errorf("create %s: %w", path, createErr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		w = f
	}
	return export.WriteXLSX(w, rows)
}
