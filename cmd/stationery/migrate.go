package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) migrateCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Rewrite every stored blob in the current shape",
		Long: "Loads the stored state, upgrading legacy report, item and stock shapes,\n" +
			"and writes all four blobs back. With --dry-run only the counts are shown.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.tracker(cmd)
			if err != nil {
				return err
			}

			st := a.Service.State()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "reports: %d\nstock items: %d\n", len(st.Reports), len(st.Stock))
			if dryRun {
				fmt.Fprintln(out, "dry run, nothing written")
				return nil
			}

			if err := a.Service.Migrate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(out, "migrated")
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show counts only (no writes)")
	return cmd
}
