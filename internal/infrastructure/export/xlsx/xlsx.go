// Package xlsx renders an export document as a workbook with sheets
// Reports, Summary and Stock.
package xlsx

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"stationery/internal/infrastructure/export"
)

const (
	sheetReports = "Reports"
	sheetSummary = "Summary"
	sheetStock   = "Stock"
)

// Render writes doc as an .xlsx workbook.
func Render(w io.Writer, doc export.Document) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	if err := f.SetSheetName("Sheet1", sheetReports); err != nil {
		return err
	}
	for _, name := range []string{sheetSummary, sheetStock} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	if err := writeReports(f, bold, doc); err != nil {
		return err
	}
	if err := writeSummary(f, bold, doc); err != nil {
		return err
	}
	if err := writeStock(f, bold, doc); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeReports(f *excelize.File, bold int, doc export.Document) error {
	header := []any{"Status", "Requester", "Campus", "Import Date", "Export Date", "Items", "Total"}
	if err := setRow(f, sheetReports, 1, header, bold); err != nil {
		return err
	}
	row := 2
	for _, section := range []struct {
		status string
		rows   []export.Row
	}{{"Done", doc.Done}, {"Process", doc.Process}} {
		for _, r := range section.rows {
			values := []any{section.status, r.RequesterName, r.Campus, r.ImportDate, r.ExportDate, r.Description, r.Total}
			if err := setRow(f, sheetReports, row, values, 0); err != nil {
				return err
			}
			row++
		}
	}
	return f.SetColWidth(sheetReports, "F", "F", 50)
}

func writeSummary(f *excelize.File, bold int, doc export.Document) error {
	meta := [][]any{
		{doc.Title},
		{"Campus", doc.Campus},
		{"Period", doc.Period},
		{"Generated", doc.Generated},
		{},
		{"Item", "Done", "Process", "All"},
	}
	for i, values := range meta {
		style := 0
		if i == 0 || i == len(meta)-1 {
			style = bold
		}
		if err := setRow(f, sheetSummary, i+1, values, style); err != nil {
			return err
		}
	}

	row := len(meta) + 1
	s := doc.Summary
	for _, name := range doc.SortedItems(s.All) {
		if err := setRow(f, sheetSummary, row, []any{name, s.Done[name], s.Process[name], s.All[name]}, 0); err != nil {
			return err
		}
		row++
	}
	return setRow(f, sheetSummary, row, []any{"Reports", s.DoneCount, s.ProcessCount, s.DoneCount + s.ProcessCount}, bold)
}

func writeStock(f *excelize.File, bold int, doc export.Document) error {
	header := []any{"Item", "Quantity", "Last In", "Last Out", "Last Change"}
	if err := setRow(f, sheetStock, 1, header, bold); err != nil {
		return err
	}
	for i, e := range doc.Stock {
		values := []any{e.Name, e.Quantity, e.LastInDate, e.LastOutDate, e.LastUpdateQuantity}
		if err := setRow(f, sheetStock, i+2, values, 0); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any, style int) error {
	if len(values) == 0 {
		return nil
	}
	start, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, start, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	if style == 0 {
		return nil
	}
	end, err := excelize.CoordinatesToCellName(len(values), row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, start, end, style)
}
