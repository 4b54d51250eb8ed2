// Package migrate upgrades persisted blobs to the current shapes.
//
// Every function here is total: malformed input is coerced to a safe
// default instead of failing. Each entity has an ordered list of steps that
// run over the decoded JSON object before it is mapped onto the current
// type, so a newer writer's shape passes through untouched.
package migrate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"stationery/internal/core/types"
	"stationery/internal/domain/ledger"
	"stationery/internal/domain/reports"
)

type step func(obj map[string]any, today string) map[string]any

// reportSteps upgrade one stored report object.
var reportSteps = []step{
	renameDate,
	upgradeItems,
	defaultStatus,
}

// stockSteps upgrade one stored stock entry object.
var stockSteps = []step{
	renameDateAdded,
}

// Decode unmarshals raw keeping numbers as json.Number. It returns nil for
// empty or malformed input.
func Decode(raw []byte) any {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil
	}
	return v
}

// Reports upgrades the stored report list. Non-object entries are dropped;
// entries without an id get a stable positional one.
func Reports(raw []byte, today string) reports.Store {
	list, _ := Decode(raw).([]any)
	out := make(reports.Store, 0, len(list))
	seen := make(map[string]struct{}, len(list))
	for i, v := range list {
		obj, ok := v.(map[string]any)
		if !ok {
			continue
		}
		r := Report(obj, today)
		if _, dup := seen[r.ID]; r.ID == "" || dup {
			r.ID = fmt.Sprintf("legacy-%d", i)
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	return out
}

// Report maps one decoded report object onto the current shape.
func Report(obj map[string]any, today string) reports.Report {
	obj = run(reportSteps, obj, today)
	return reports.Report{
		ID:            types.String(obj["id"]),
		RequesterName: types.String(obj["requesterName"]),
		Campus:        types.String(obj["campus"]),
		ImportDate:    types.NormalizeDate(types.String(obj["importDate"])),
		ExportDate:    types.NormalizeDate(types.String(obj["exportDate"])),
		Items:         Items(obj["items"]),
		Status:        reports.ParseStatus(types.String(obj["status"])),
	}
}

// Draft upgrades the stored form draft. A missing or malformed draft yields
// the zero draft.
func Draft(raw []byte, today string) reports.Draft {
	obj, ok := Decode(raw).(map[string]any)
	if !ok {
		return reports.Draft{Items: reports.Items{}, Status: reports.StatusProcess}
	}
	r := Report(obj, today)
	return reports.DraftOf(r)
}

// Selection upgrades the stored selected report id; null and non-strings
// mean nothing is selected.
func Selection(raw []byte) string {
	s, _ := Decode(raw).(string)
	return strings.TrimSpace(s)
}

// Items accepts the three legacy item shapes plus the current one:
//
//	["Pen", "Pen", "Card"]                  -> {Pen: 2, Card: 1}
//	[{"name": "Pen", "quantity": 2}]        -> {Pen: 2}
//	{"Pen": "2", "Card": 1.0, "Tape": 0}    -> {Pen: 2, Card: 1}
//
// Non-positive quantities are dropped.
func Items(v any) reports.Items {
	out := make(reports.Items)
	switch items := v.(type) {
	case reports.Items:
		return items.Normalize()
	case []any:
		for _, entry := range items {
			switch e := entry.(type) {
			case string:
				if name := strings.TrimSpace(e); name != "" {
					out[name]++
				}
			case map[string]any:
				name := firstString(e, "name", "item")
				qty, ok := firstCount(e, "quantity", "qty", "count")
				if name == "" || !ok || qty <= 0 {
					continue
				}
				out[name] += qty
			}
		}
	case map[string]any:
		for name, raw := range items {
			name = strings.TrimSpace(name)
			qty, ok := types.ParseCount(raw)
			if name == "" || !ok || qty <= 0 {
				continue
			}
			out[name] += qty
		}
	}
	return out
}

// Stock upgrades the stored ledger and adds zeroed entries for catalog
// items that are missing.
func Stock(raw []byte, names []string, today string) ledger.Ledger {
	obj, _ := Decode(raw).(map[string]any)
	out := make(ledger.Ledger, len(obj)+len(names))
	for name, v := range obj {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		out[name] = StockItem(v, today)
	}
	return out.WithItems(names)
}

// StockItem accepts a bare number (quantity counted in today), the legacy
// {quantity, dateAdded} object and partial current objects.
func StockItem(v any, today string) ledger.Item {
	if qty, ok := types.ParseCount(v); ok {
		return ledger.Item{Quantity: qty, LastInDate: today}
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return ledger.Item{}
	}
	obj = run(stockSteps, obj, today)

	item := ledger.Item{
		LastInDate:  types.NormalizeDate(types.String(obj["lastInDate"])),
		LastOutDate: types.NormalizeDate(types.String(obj["lastOutDate"])),
	}
	item.Quantity, _ = types.ParseCount(obj["quantity"])
	item.LastUpdateQuantity, _ = types.ParseCount(obj["lastUpdateQuantity"])
	return item
}

func run(steps []step, obj map[string]any, today string) map[string]any {
	cp := make(map[string]any, len(obj))
	for k, v := range obj {
		cp[k] = v
	}
	for _, s := range steps {
		cp = s(cp, today)
	}
	return cp
}

func renameDate(obj map[string]any, _ string) map[string]any {
	if types.String(obj["importDate"]) == "" {
		if d := types.String(obj["date"]); d != "" {
			obj["importDate"] = d
		}
	}
	delete(obj, "date")
	return obj
}

func upgradeItems(obj map[string]any, _ string) map[string]any {
	obj["items"] = Items(obj["items"])
	return obj
}

func defaultStatus(obj map[string]any, _ string) map[string]any {
	obj["status"] = string(reports.ParseStatus(types.String(obj["status"])))
	return obj
}

func renameDateAdded(obj map[string]any, _ string) map[string]any {
	if types.String(obj["lastInDate"]) == "" {
		if d := types.String(obj["dateAdded"]); d != "" {
			obj["lastInDate"] = d
		}
	}
	delete(obj, "dateAdded")
	return obj
}

func firstString(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := types.String(obj[k]); s != "" {
			return s
		}
	}
	return ""
}

func firstCount(obj map[string]any, keys ...string) (int, bool) {
	for _, k := range keys {
		if n, ok := types.ParseCount(obj[k]); ok {
			return n, true
		}
	}
	return 0, false
}
