package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"stationery/internal/domain/importer"
	"stationery/internal/domain/views"
	"stationery/internal/infrastructure/export"
)

func (c *cli) exportCmd() *cobra.Command {
	var (
		f      views.Filter
		output string
	)

	cmd := &cobra.Command{
		Use:       "export pdf|xlsx|json",
		Short:     "Export the filtered reports",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(export.FormatPDF), string(export.FormatXLSX), string(export.FormatJSON)},
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := export.ParseFormat(args[0])
			if err != nil {
				return err
			}
			a, err := c.tracker(cmd)
			if err != nil {
				return err
			}

			st := a.Service.State()
			file, err := a.Exporter.Export(cmd.Context(), format, export.Snapshot{
				Reports: st.Reports,
				Stock:   st.Stock,
				Catalog: a.Service.Catalog(),
				Today:   a.Service.Today(),
			}, f)
			if err != nil {
				return err
			}

			path := output
			if path == "" {
				path = file.Name
			} else if info, err := os.Stat(path); err == nil && info.IsDir() {
				path = filepath.Join(path, file.Name)
			}
			if err := os.WriteFile(path, file.Data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", path, len(file.Data))
			if file.ArchiveKey != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "archived as %s\n", file.ArchiveKey)
			}
			return nil
		},
	}

	bindFilter(cmd, &f)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file or directory (default: generated name in the current directory)")
	return cmd
}

func (c *cli) importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace reports and stock from a file",
	}

	run := func(pdf bool) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			a, err := c.tracker(cmd)
			if err != nil {
				return err
			}

			var payload importer.Payload
			if pdf {
				payload, err = a.Service.ImportPDF(cmd.Context(), data)
			} else {
				payload, err = a.Service.ImportJSON(cmd.Context(), data)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d report(s) and %d stock item(s)\n", len(payload.Reports), len(payload.Stock))
			return nil
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "pdf FILE",
			Short: "Import a scanned report PDF through the AI extraction service",
			Args:  cobra.ExactArgs(1),
			RunE:  run(true),
		},
		&cobra.Command{
			Use:   "json FILE",
			Short: "Import a JSON backup",
			Args:  cobra.ExactArgs(1),
			RunE:  run(false),
		},
	)
	return cmd
}
