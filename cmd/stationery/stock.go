package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"stationery/internal/domain/ledger"
)

func (c *cli) stockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stock",
		Short: "Show the stock ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.tracker(cmd)
			if err != nil {
				return err
			}
			return printStock(cmd, a.Service.Stock())
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "set NAME=QTY...",
		Short:   "Set on-hand quantities",
		Example: "  stationery stock set Pen=40 \"A4 Paper\"=10",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			quantities, err := parseQuantities(args)
			if err != nil {
				return err
			}
			a, err := c.tracker(cmd)
			if err != nil {
				return err
			}
			if err := a.Service.EditStock(cmd.Context(), quantities); err != nil {
				return err
			}
			return printStock(cmd, a.Service.Stock())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Zero every quantity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.tracker(cmd)
			if err != nil {
				return err
			}
			if err := a.Service.ClearStock(cmd.Context()); err != nil {
				return err
			}
			return printStock(cmd, a.Service.Stock())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "consumption",
		Short: "Show units consumed by Done reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.tracker(cmd)
			if err != nil {
				return err
			}
			consumed := a.Service.Consumption()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ITEM\tCONSUMED")
			for _, name := range a.Service.Catalog().Items() {
				if consumed[name] != 0 {
					fmt.Fprintf(w, "%s\t%d\n", name, consumed[name])
				}
			}
			return w.Flush()
		},
	})
	return cmd
}

func parseQuantities(args []string) (map[string]int, error) {
	out := make(map[string]int, len(args))
	for _, arg := range args {
		name, raw, ok := strings.Cut(arg, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("expected NAME=QTY, got %q", arg)
		}
		qty, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("quantity for %s: %w", name, err)
		}
		out[name] = qty
	}
	return out, nil
}

func printStock(cmd *cobra.Command, l ledger.Ledger) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ITEM\tQTY\tLAST IN\tLAST OUT\tLAST CHANGE")
	for _, e := range l.Sorted() {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%+d\n", e.Name, e.Quantity, dash(e.LastInDate), dash(e.LastOutDate), e.LastUpdateQuantity)
	}
	return w.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
