package main

import (
	"errors"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/nickppf/nickppf-api/internal/infra/export"
)

func exportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every spreadsheet row to an .xlsx file",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx, appOptions{})
			if err != nil {
				return err
			}
			defer a.close()

			if a.sheets == nil {
				return errors.New("google sheets not configured")
			}

			leads, err := a.sheets.ListLeads(ctx)
			if err != nil {
				return err
			}

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := export.WriteLeads(f, leads); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}

			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✔ %d rows -> %s\n", len(leads), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "leads.xlsx", "Output file")
	return cmd
}
