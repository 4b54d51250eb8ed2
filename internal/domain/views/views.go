// Package views derives read-only projections from a report snapshot:
// available months and weeks, the filtered report set and aggregate counts.
// Nothing here mutates its input.
package views

import (
	"sort"
	"strings"
	"time"

	"stationery/internal/core/apperror"
	"stationery/internal/core/types"
	"stationery/internal/domain/catalog"
	"stationery/internal/domain/reports"
)

const weekLabelLayout = "Jan 02, 2006"

// Week is one selectable week. Start is the Monday as YYYY-MM-DD.
type Week struct {
	Start string `json:"start"`
	Label string `json:"label"`
}

// Filter narrows the report set. Zero fields do not constrain.
type Filter struct {
	Campus     string `json:"campus" form:"campus"`
	Search     string `json:"search" form:"search"`
	Month      string `json:"month" form:"month"`
	Week       string `json:"week" form:"week"`
	Expression string `json:"expression" form:"expr"`
}

// Months returns the distinct YYYY-MM prefixes of importDate, newest first.
func Months(list []reports.Report) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range list {
		month, ok := monthOf(r.ImportDate)
		if !ok {
			continue
		}
		if _, dup := seen[month]; dup {
			continue
		}
		seen[month] = struct{}{}
		out = append(out, month)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(out)))
	return out
}

// WeekStart returns the Monday of the week containing t. Sunday closes the
// week, so it maps six days back.
func WeekStart(t time.Time) time.Time {
	dow := int(t.Weekday())
	back := dow - 1
	if dow == 0 {
		back = 6
	}
	y, m, d := t.Date()
	return time.Date(y, m, d-back, 0, 0, 0, 0, time.UTC)
}

// WeekLabel renders "Week of Jan 02, 2006".
func WeekLabel(start time.Time) string {
	return "Week of " + start.Format(weekLabelLayout)
}

// Weeks returns the distinct week starts of the reports, optionally limited
// to one month, newest first. Reports with unparsable dates are skipped.
func Weeks(list []reports.Report, month string) []Week {
	seen := make(map[string]struct{})
	var out []Week
	for _, r := range list {
		if month != "" && !strings.HasPrefix(r.ImportDate, month) {
			continue
		}
		t, ok := types.ParseDate(r.ImportDate)
		if !ok {
			continue
		}
		start := WeekStart(t)
		key := types.FormatDate(start)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, Week{Start: key, Label: WeekLabel(start)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start > out[j].Start })
	return out
}

// Apply returns the reports matching every predicate of f, in input order.
// A week filter beats a month filter. A report whose importDate does not
// parse never matches a week filter.
func Apply(list []reports.Report, f Filter, cat *catalog.Catalog) ([]reports.Report, error) {
	var pred *Predicate
	if strings.TrimSpace(f.Expression) != "" {
		var err error
		if pred, err = Compile(f.Expression); err != nil {
			return nil, err
		}
	}

	var weekStart, weekEnd time.Time
	useWeek := false
	if f.Week != "" {
		start, ok := types.ParseDate(f.Week)
		if !ok {
			return nil, invalidFilter("week", f.Week)
		}
		weekStart = WeekStart(start)
		weekEnd = weekStart.AddDate(0, 0, 7)
		useWeek = true
	}

	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]reports.Report, 0, len(list))
	for _, r := range list {
		if f.Campus != "" && r.Campus != f.Campus {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(Describe(r.Items, cat)), search) {
			continue
		}
		switch {
		case useWeek:
			t, ok := types.ParseDate(r.ImportDate)
			if !ok || t.Before(weekStart) || !t.Before(weekEnd) {
				continue
			}
		case f.Month != "":
			if !strings.HasPrefix(r.ImportDate, f.Month) {
				continue
			}
		}
		if pred != nil {
			ok, err := pred.Match(r)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		out = append(out, r)
	}
	return out, nil
}

func monthOf(date string) (string, bool) {
	date = strings.TrimSpace(date)
	if len(date) < len(types.MonthLayout) {
		return "", false
	}
	month := date[:len(types.MonthLayout)]
	if _, err := time.Parse(types.MonthLayout, month); err != nil {
		return "", false
	}
	return month, true
}

func invalidFilter(field, value string) error {
	return apperror.NewValidation("invalid filter value").
		WithDetail("field", field).
		WithDetail("value", value)
}
