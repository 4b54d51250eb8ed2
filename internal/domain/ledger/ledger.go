// Package ledger provides the stock ledger: one entry per item name holding
// the on-hand quantity, the last in/out dates and the most recent delta.
//
// The ledger is only mutated through pure functions that take the prior
// ledger and return a new one. Report lifecycle changes are described as a
// Transition and reconciled by Apply; manual stock work goes through Edit
// and Clear.
package ledger

import (
	"sort"

	"stationery/internal/core/apperror"
)

// Item is a single ledger entry.
type Item struct {
	Quantity           int    `json:"quantity"`
	LastInDate         string `json:"lastInDate"`
	LastOutDate        string `json:"lastOutDate"`
	LastUpdateQuantity int    `json:"lastUpdateQuantity"`
}

// Ledger maps item name to its entry. Treat values as immutable: every
// operation in this package returns a fresh map.
type Ledger map[string]Item

// Entry is a named ledger row, used for ordered output.
type Entry struct {
	Name string `json:"name"`
	Item
}

// New returns a ledger with a zeroed entry for every name.
func New(names []string) Ledger {
	l := make(Ledger, len(names))
	for _, name := range names {
		l[name] = Item{}
	}
	return l
}

// Clone returns a copy of l.
func (l Ledger) Clone() Ledger {
	out := make(Ledger, len(l))
	for k, v := range l {
		out[k] = v
	}
	return out
}

// WithItems returns a copy of l that has an entry for every name, adding
// zeroed entries for missing ones.
func (l Ledger) WithItems(names []string) Ledger {
	out := l.Clone()
	for _, name := range names {
		if _, ok := out[name]; !ok {
			out[name] = Item{}
		}
	}
	return out
}

// Quantity returns the on-hand quantity of name (0 when unknown).
func (l Ledger) Quantity(name string) int {
	return l[name].Quantity
}

// Sorted returns the entries ordered by item name.
func (l Ledger) Sorted() []Entry {
	out := make([]Entry, 0, len(l))
	for name, item := range l {
		out = append(out, Entry{Name: name, Item: item})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Shortfall describes one item a Done-consuming transition cannot cover.
type Shortfall struct {
	Item      string `json:"item"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

// ShortfallsOf extracts the shortfall list from an INSUFFICIENT_STOCK error.
func ShortfallsOf(err error) []Shortfall {
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeInsufficientStock {
		return nil
	}
	list, _ := appErr.Details["shortfalls"].([]Shortfall)
	return list
}

// Check returns every item whose consumption under t exceeds what l holds.
// The result is ordered by item name; nil means t can be applied.
func Check(l Ledger, t Transition) []Shortfall {
	var out []Shortfall
	for name, change := range t.Changes() {
		if change >= 0 {
			continue
		}
		requested := -change
		if available := l.Quantity(name); requested > available {
			out = append(out, Shortfall{Item: name, Requested: requested, Available: available})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Item < out[j].Item })
	return out
}

// Apply reconciles l with a report transition. Consuming transitions are
// checked first; any shortfall rejects the whole transition and l is
// returned unchanged together with an INSUFFICIENT_STOCK error.
func Apply(l Ledger, t Transition, today string) (Ledger, error) {
	if shortfalls := Check(l, t); len(shortfalls) > 0 {
		return l, apperror.NewInsufficientStock(shortfalls)
	}
	return apply(l, t.Changes(), today), nil
}

// Replay applies a create transition for every side, skipping the shortfall
// precondition. Replaying the current reports from a zeroed ledger yields
// the negated consumption per item.
func Replay(initial Ledger, sides []Side, today string) Ledger {
	out := initial.Clone()
	for _, s := range sides {
		out = apply(out, Create(s).Changes(), today)
	}
	return out
}

func apply(l Ledger, changes map[string]int, today string) Ledger {
	out := l.Clone()
	for name, change := range changes {
		if change == 0 {
			continue
		}
		item := out[name]
		item.Quantity += change
		item.LastUpdateQuantity = change
		if change < 0 {
			item.LastOutDate = today
		} else {
			item.LastInDate = today
		}
		out[name] = item
	}
	return out
}

// Edit sets quantities by hand. Unknown item names and negative quantities
// are rejected before anything changes.
func Edit(l Ledger, quantities map[string]int, today string) (Ledger, error) {
	for name, qty := range quantities {
		if _, ok := l[name]; !ok {
			return l, apperror.NewValidation("unknown stock item").WithDetail("item", name)
		}
		if qty < 0 {
			return l, apperror.NewValidation("stock quantity cannot be negative").
				WithDetail("item", name).
				WithDetail("quantity", qty)
		}
	}

	out := l.Clone()
	for name, qty := range quantities {
		item := out[name]
		if qty == item.Quantity {
			continue
		}
		delta := qty - item.Quantity
		item.Quantity = qty
		item.LastUpdateQuantity = delta
		if delta > 0 {
			item.LastInDate = today
		} else {
			item.LastOutDate = today
		}
		out[name] = item
	}
	return out, nil
}

// Clear zeroes every quantity. Dates are left as they were.
func Clear(l Ledger) Ledger {
	out := make(Ledger, len(l))
	for name, item := range l {
		if item.Quantity != 0 {
			item.LastUpdateQuantity = -item.Quantity
			item.Quantity = 0
		}
		out[name] = item
	}
	return out
}
