package views

import (
	"strings"
	"time"

	"stationery/internal/core/types"
)

// CampusLabel returns the campus filter or "All Campuses".
func CampusLabel(f Filter) string {
	if f.Campus == "" {
		return "All Campuses"
	}
	return f.Campus
}

// PeriodLabel describes the active date filter: a week label, a month as
// "January 2006", or "All Time".
func PeriodLabel(f Filter) string {
	if f.Week != "" {
		if t, ok := types.ParseDate(f.Week); ok {
			return WeekLabel(WeekStart(t))
		}
	}
	if f.Month != "" {
		if t, err := time.Parse(types.MonthLayout, f.Month); err == nil {
			return t.Format("January 2006")
		}
		return f.Month
	}
	return "All Time"
}

// FileName builds Stationery_Report_<campus>_<period>.<ext> with spaces
// replaced by underscores.
func FileName(f Filter, ext string) string {
	name := "Stationery_Report_" + CampusLabel(f) + "_" + PeriodLabel(f)
	name = strings.ReplaceAll(name, " ", "_")
	return name + "." + strings.TrimPrefix(ext, ".")
}
