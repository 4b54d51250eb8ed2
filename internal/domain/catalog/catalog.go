// Package catalog holds the fixed sets the tracker works with: the known
// stationery item names and the campuses a report can be filed for.
package catalog

import (
	"sort"
	"strings"
)

// DefaultItems is the stationery catalog used when none is configured.
var DefaultItems = []string{
	"Pen", "Pencil", "Eraser", "Ruler", "Stapler", "Staples",
	"Paper Clip", "Marker", "Highlighter", "Notebook", "Bk", "Card",
	"Envelope", "Folder", "Tape", "Glue", "Scissors", "A4 Paper",
}

// DefaultCampuses is the campus enumeration used when none is configured.
var DefaultCampuses = []string{
	"Main Campus", "North Campus", "South Campus", "East Campus",
}

// Catalog is immutable after construction.
type Catalog struct {
	items    []string
	campuses []string
	order    map[string]int
}

// New builds a catalog. Blank and duplicate names are skipped; empty lists
// fall back to the defaults.
func New(items, campuses []string) *Catalog {
	c := &Catalog{
		items:    dedupe(items),
		campuses: dedupe(campuses),
	}
	if len(c.items) == 0 {
		c.items = append([]string(nil), DefaultItems...)
	}
	if len(c.campuses) == 0 {
		c.campuses = append([]string(nil), DefaultCampuses...)
	}
	c.order = make(map[string]int, len(c.items))
	for i, name := range c.items {
		c.order[name] = i
	}
	return c
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return New(nil, nil)
}

// Items returns the item names in catalog order.
func (c *Catalog) Items() []string {
	return append([]string(nil), c.items...)
}

// Campuses returns the campus names in catalog order.
func (c *Catalog) Campuses() []string {
	return append([]string(nil), c.campuses...)
}

// HasItem reports whether name is a catalog item.
func (c *Catalog) HasItem(name string) bool {
	_, ok := c.order[name]
	return ok
}

// HasCampus reports whether name is one of the campuses.
func (c *Catalog) HasCampus(name string) bool {
	for _, campus := range c.campuses {
		if campus == name {
			return true
		}
	}
	return false
}

// SortItems orders names by catalog position; names outside the catalog
// follow, alphabetically.
func (c *Catalog) SortItems(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		oi, iok := c.order[names[i]]
		oj, jok := c.order[names[j]]
		switch {
		case iok && jok:
			return oi < oj
		case iok != jok:
			return iok
		default:
			return names[i] < names[j]
		}
	})
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
