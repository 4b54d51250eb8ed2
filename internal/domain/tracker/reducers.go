package tracker

import (
	"context"
	"fmt"

	"stationery/internal/domain/catalog"
	"stationery/internal/domain/importer"
	"stationery/internal/domain/ledger"
	"stationery/internal/domain/reports"
)

// AddReport commits d as a new report under newID. A Done report consumes
// its items from stock and is rejected whole when stock falls short.
func AddReport(ctx context.Context, s State, d reports.Draft, newID, today string, cat *catalog.Catalog) (State, reports.Report, []Effect, error) {
	d = d.Normalized()
	if err := d.Validate(ctx, cat); err != nil {
		return s, reports.Report{}, nil, err
	}

	r := d.Report(newID)
	stock, err := ledger.Apply(s.Stock, ledger.Create(r.Side()), today)
	if err != nil {
		return s, reports.Report{}, nil, err
	}
	list, err := s.Reports.Insert(r)
	if err != nil {
		return s, reports.Report{}, nil, err
	}

	next := s
	next.Reports = list
	next.Stock = stock
	next.Draft = emptyDraft()
	next.Selected = ""
	return next, r, []Effect{
		Persist(KeyReports),
		Persist(KeyStock),
		Persist(KeyDraft),
		Persist(KeySelection),
		Alert(fmt.Sprintf("Report for %s added", r.RequesterName)),
	}, nil
}

// UpdateReport replaces the report id with d, reconciling stock from the
// before/after status and items.
func UpdateReport(ctx context.Context, s State, reportID string, d reports.Draft, today string, cat *catalog.Catalog) (State, reports.Report, []Effect, error) {
	before, err := s.Reports.Get(reportID)
	if err != nil {
		return s, reports.Report{}, nil, err
	}

	d = d.Normalized()
	if err := d.ValidateChange(ctx, cat, before); err != nil {
		return s, reports.Report{}, nil, err
	}

	after := d.Report(reportID)
	stock, err := ledger.Apply(s.Stock, ledger.Update(before.Side(), after.Side()), today)
	if err != nil {
		return s, reports.Report{}, nil, err
	}
	list, err := s.Reports.Replace(after)
	if err != nil {
		return s, reports.Report{}, nil, err
	}

	next := s
	next.Reports = list
	next.Stock = stock
	effects := []Effect{Persist(KeyReports), Persist(KeyStock)}
	if s.Selected == reportID {
		next.Selected = ""
		next.Draft = emptyDraft()
		effects = append(effects, Persist(KeyDraft), Persist(KeySelection))
	}
	effects = append(effects, Alert(fmt.Sprintf("Report for %s updated", after.RequesterName)))
	return next, after, effects, nil
}

// DeleteReport removes a report. Deleting a Done report returns its items.
func DeleteReport(s State, reportID, today string) (State, []Effect, error) {
	list, removed, err := s.Reports.Remove(reportID)
	if err != nil {
		return s, nil, err
	}
	stock, err := ledger.Apply(s.Stock, ledger.Delete(removed.Side()), today)
	if err != nil {
		return s, nil, err
	}

	next := s
	next.Reports = list
	next.Stock = stock
	effects := []Effect{Persist(KeyReports), Persist(KeyStock)}
	if s.Selected == reportID {
		next.Selected = ""
		next.Draft = emptyDraft()
		effects = append(effects, Persist(KeyDraft), Persist(KeySelection))
	}
	effects = append(effects, Alert(fmt.Sprintf("Report for %s deleted", removed.RequesterName)))
	return next, effects, nil
}

// EditStock sets quantities by hand.
func EditStock(s State, quantities map[string]int, today string) (State, []Effect, error) {
	stock, err := ledger.Edit(s.Stock, quantities, today)
	if err != nil {
		return s, nil, err
	}
	next := s
	next.Stock = stock
	return next, []Effect{Persist(KeyStock), Alert("Stock updated")}, nil
}

// ClearStock zeroes every quantity.
func ClearStock(s State) (State, []Effect) {
	next := s
	next.Stock = ledger.Clear(s.Stock)
	return next, []Effect{Persist(KeyStock), Alert("Stock cleared")}
}

// Import replaces reports and stock with p. No shortfall checks run and
// nothing is merged. Catalog items absent from p are added at zero.
func Import(s State, p importer.Payload, cat *catalog.Catalog) (State, []Effect) {
	next := s
	next.Reports = p.Reports
	if next.Reports == nil {
		next.Reports = reports.Store{}
	}
	next.Stock = p.Stock.WithItems(cat.Items())
	next.Selected = ""
	return next, []Effect{
		Persist(KeyReports),
		Persist(KeyStock),
		Persist(KeySelection),
		Alert(fmt.Sprintf("Imported %d reports and %d stock items", len(p.Reports), len(p.Stock))),
	}
}

// SaveDraft stores the in-progress form.
func SaveDraft(s State, d reports.Draft) (State, []Effect) {
	if d.Items == nil {
		d.Items = reports.Items{}
	}
	if d.Status != reports.StatusDone {
		d.Status = reports.StatusProcess
	}
	next := s
	next.Draft = d
	return next, []Effect{Persist(KeyDraft)}
}

// ClearDraft resets the form.
func ClearDraft(s State) (State, []Effect) {
	next := s
	next.Draft = emptyDraft()
	return next, []Effect{Persist(KeyDraft)}
}

// Select opens a report for editing and loads it into the form.
func Select(s State, reportID string) (State, []Effect, error) {
	r, err := s.Reports.Get(reportID)
	if err != nil {
		return s, nil, err
	}
	next := s
	next.Selected = reportID
	next.Draft = reports.DraftOf(r)
	return next, []Effect{Persist(KeySelection), Persist(KeyDraft)}, nil
}

// Deselect leaves editing mode and resets the form.
func Deselect(s State) (State, []Effect) {
	next := s
	next.Selected = ""
	next.Draft = emptyDraft()
	return next, []Effect{Persist(KeySelection), Persist(KeyDraft)}
}

// Consumption returns the units consumed per item by the current Done
// reports, computed by replaying them over a zeroed ledger.
func Consumption(s State, names []string, today string) map[string]int {
	sides := make([]ledger.Side, 0, len(s.Reports))
	for _, r := range s.Reports.Done() {
		sides = append(sides, r.Side())
	}
	replayed := ledger.Replay(ledger.New(names), sides, today)

	out := make(map[string]int, len(replayed))
	for name, item := range replayed {
		out[name] = -item.Quantity
	}
	return out
}
