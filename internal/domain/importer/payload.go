package importer

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"stationery/internal/core/apperror"
	"stationery/internal/core/id"
	"stationery/internal/core/types"
	"stationery/internal/domain/ledger"
	"stationery/internal/domain/migrate"
	"stationery/internal/domain/reports"
)

// Payload is a validated import result. It replaces the current report
// store and ledger as a whole.
type Payload struct {
	Reports reports.Store `json:"reports"`
	Stock   ledger.Ledger `json:"stock"`
}

// Encode renders a backup in the import schema, so that a later import of
// the output reconstructs every complete report.
func Encode(list reports.Store, stock ledger.Ledger) ([]byte, error) {
	if list == nil {
		list = reports.Store{}
	}
	if stock == nil {
		stock = ledger.Ledger{}
	}
	return json.MarshalIndent(Payload{Reports: list, Stock: stock}, "", "  ")
}

// StripFences removes an optional ```json ... ``` wrapper.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// Drop the info string ("json", "JSON", ...) up to the first newline.
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		if info := strings.TrimSpace(s[:nl]); !strings.ContainsAny(info, "{[") {
			s = s[nl+1:]
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func decodeDocument(body string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("unexpected data after the JSON document")
	}
	return doc, nil
}

func splitDocument(doc any) ([]any, map[string]any, error) {
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, nil, apperror.NewImportFailed(StepValidate, "the extracted data must be an object with reports and stock")
	}
	list, ok := obj["reports"].([]any)
	if !ok {
		return nil, nil, apperror.NewImportFailed(StepValidate, "reports must be a list").
			WithDetail("field", "reports")
	}
	stock, ok := obj["stock"].(map[string]any)
	if !ok {
		return nil, nil, apperror.NewImportFailed(StepValidate, "stock must be an object").
			WithDetail("field", "stock")
	}
	return list, stock, nil
}

// coerceReports fills defaults and drops entries missing requester, campus
// or import date. Every kept report gets a fresh import tag.
func coerceReports(raw []any, now time.Time, today string) (reports.Store, int) {
	out := make(reports.Store, 0, len(raw))
	dropped := 0
	for _, v := range raw {
		obj, ok := v.(map[string]any)
		if !ok {
			dropped++
			continue
		}
		r := migrate.Report(obj, today)
		if r.RequesterName == "" || r.Campus == "" || r.ImportDate == "" {
			dropped++
			continue
		}
		r.ID = id.ImportTag(now, len(out))
		out = append(out, r)
	}
	return out, dropped
}

// coerceStock keeps entries with a numeric quantity. The source never
// carries lastOutDate, so it is always empty.
func coerceStock(raw map[string]any) (ledger.Ledger, int) {
	out := make(ledger.Ledger, len(raw))
	skipped := 0
	for name, v := range raw {
		name = strings.TrimSpace(name)
		if name == "" {
			skipped++
			continue
		}

		var item ledger.Item
		if qty, ok := types.ParseCount(v); ok {
			item.Quantity = qty
		} else if obj, isObj := v.(map[string]any); isObj {
			qty, ok := types.ParseCount(obj["quantity"])
			if !ok {
				skipped++
				continue
			}
			item.Quantity = qty
			item.LastInDate = types.NormalizeDate(types.String(obj["lastInDate"]))
			item.LastUpdateQuantity, _ = types.ParseCount(obj["lastUpdateQuantity"])
		} else {
			skipped++
			continue
		}
		out[name] = item
	}
	return out, skipped
}
