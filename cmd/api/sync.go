package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func syncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Run the order sync once (verified rows -> Directus orders)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx, appOptions{})
			if err != nil {
				return err
			}
			defer a.close()

			out, err := a.syncOrdersUseCase().Execute(ctx)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			green := color.New(color.FgGreen, color.Bold)
			green.Fprintf(w, "✔ %d synced", out.Synced)
			if out.Skipped > 0 {
				color.New(color.FgYellow).Fprintf(w, ", %d skipped", out.Skipped)
			}
			fmt.Fprintln(w)

			if len(out.Errors) == 0 {
				return nil
			}
			red := color.New(color.FgRed)
			for _, e := range out.Errors {
				red.Fprintf(w, "✘ %s: %s\n", e.ID, e.Error)
			}
			return fmt.Errorf("%d row(s) failed", len(out.Errors))
		},
	}
}
