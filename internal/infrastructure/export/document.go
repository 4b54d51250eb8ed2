// Package export builds the printable document for the filtered report set
// and hands it to the PDF and XLSX renderers.
package export

import (
	"stationery/internal/core/apperror"
	"stationery/internal/domain/catalog"
	"stationery/internal/domain/ledger"
	"stationery/internal/domain/reports"
	"stationery/internal/domain/views"
)

// Title heads every exported document.
const Title = "Stationery Report"

// Document is everything a renderer needs. Building one never touches the
// tracker state.
type Document struct {
	Title     string
	Campus    string
	Period    string
	Generated string

	Summary views.Summary
	Done    []Row
	Process []Row
	Stock   []ledger.Entry

	Catalog *catalog.Catalog
}

// Row is one report line in a section table.
type Row struct {
	RequesterName string
	Campus        string
	ImportDate    string
	ExportDate    string
	Description   string
	Total         int
}

// NewDocument assembles a document from the already filtered reports. An
// empty selection is a NO_DATA error.
func NewDocument(filtered []reports.Report, stock ledger.Ledger, f views.Filter, cat *catalog.Catalog, today string) (Document, error) {
	if len(filtered) == 0 {
		return Document{}, apperror.NewNoData("No reports match the current filters").
			WithDetail("campus", views.CampusLabel(f)).
			WithDetail("period", views.PeriodLabel(f))
	}
	if cat == nil {
		cat = catalog.Default()
	}

	done, process := views.Split(filtered)
	return Document{
		Title:     Title,
		Campus:    views.CampusLabel(f),
		Period:    views.PeriodLabel(f),
		Generated: today,
		Summary:   views.Summarize(filtered),
		Done:      rows(done, cat),
		Process:   rows(process, cat),
		Stock:     stock.Sorted(),
		Catalog:   cat,
	}, nil
}

// SortedItems returns the names in counts ordered by catalog position.
func (d Document) SortedItems(counts map[string]int) []string {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	d.Catalog.SortItems(names)
	return names
}

func rows(list []reports.Report, cat *catalog.Catalog) []Row {
	out := make([]Row, 0, len(list))
	for _, r := range list {
		out = append(out, Row{
			RequesterName: r.RequesterName,
			Campus:        r.Campus,
			ImportDate:    r.ImportDate,
			ExportDate:    r.ExportDate,
			Description:   views.Describe(r.Items, cat),
			Total:         r.Items.Total(),
		})
	}
	return out
}
