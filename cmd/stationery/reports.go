package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"stationery/internal/domain/views"
)

func (c *cli) reportsCmd() *cobra.Command {
	var (
		f       views.Filter
		asJSON  bool
		summary bool
	)

	cmd := &cobra.Command{
		Use:   "reports",
		Short: "List reports matching the filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.tracker(cmd)
			if err != nil {
				return err
			}
			cat := a.Service.Catalog()
			list, err := views.Apply(a.Service.Reports(), f, cat)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(list)
			}

			fmt.Fprintf(out, "%s, %s: %d report(s)\n", views.CampusLabel(f), views.PeriodLabel(f), len(list))
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "STATUS\tREQUESTER\tCAMPUS\tIMPORTED\tEXPORTED\tITEMS")
			for _, r := range list {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					r.Status, r.RequesterName, r.Campus, r.ImportDate, dash(r.ExportDate), views.Describe(r.Items, cat))
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if summary {
				s := views.Summarize(list)
				fmt.Fprintf(out, "\nDone %d, Process %d\n", s.DoneCount, s.ProcessCount)
				fmt.Fprintln(out, "All items:", views.Describe(s.All, cat))
			}
			return nil
		},
	}

	bindFilter(cmd, &f)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print reports as JSON")
	cmd.Flags().BoolVar(&summary, "summary", false, "print item totals after the list")
	return cmd
}
