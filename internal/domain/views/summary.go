package views

import (
	"fmt"
	"strings"

	"stationery/internal/domain/catalog"
	"stationery/internal/domain/reports"
)

// Totals sums item quantities per name across list.
func Totals(list []reports.Report) map[string]int {
	out := make(map[string]int)
	for _, r := range list {
		for name, qty := range r.Items {
			if qty > 0 {
				out[name] += qty
			}
		}
	}
	return out
}

// Summary holds the per-item counts of a report subset, split by status.
type Summary struct {
	Done         map[string]int `json:"done"`
	Process      map[string]int `json:"process"`
	All          map[string]int `json:"all"`
	DoneCount    int            `json:"doneCount"`
	ProcessCount int            `json:"processCount"`
}

// Summarize computes Done-only, Process-only and combined totals.
func Summarize(list []reports.Report) Summary {
	done, process := Split(list)
	return Summary{
		Done:         Totals(done),
		Process:      Totals(process),
		All:          Totals(list),
		DoneCount:    len(done),
		ProcessCount: len(process),
	}
}

// Split partitions list by status, keeping input order.
func Split(list []reports.Report) (done, process []reports.Report) {
	for _, r := range list {
		if r.IsDone() {
			done = append(done, r)
		} else {
			process = append(process, r)
		}
	}
	return done, process
}

// Describe renders items as "Pen x3, Card x4" in catalog order.
func Describe(items map[string]int, cat *catalog.Catalog) string {
	names := make([]string, 0, len(items))
	for name, qty := range items {
		if qty > 0 {
			names = append(names, name)
		}
	}
	if cat == nil {
		cat = catalog.Default()
	}
	cat.SortItems(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s x%d", name, items[name]))
	}
	return strings.Join(parts, ", ")
}
