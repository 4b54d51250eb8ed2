package reports

import (
	"stationery/internal/core/apperror"
)

// Store is the ordered report collection. Methods never modify the
// receiver; they return a new Store.
type Store []Report

// Get returns the report with the given id.
func (s Store) Get(id string) (Report, error) {
	if i := s.index(id); i >= 0 {
		return s[i], nil
	}
	return Report{}, apperror.NewNotFound("report", id)
}

// Insert appends r. Ids must be unique.
func (s Store) Insert(r Report) (Store, error) {
	if s.index(r.ID) >= 0 {
		return s, apperror.NewConflict("report id already exists").WithDetail("id", r.ID)
	}
	out := make(Store, len(s), len(s)+1)
	copy(out, s)
	return append(out, r), nil
}

// Replace swaps the stored report with the same id for r, keeping its
// position.
func (s Store) Replace(r Report) (Store, error) {
	i := s.index(r.ID)
	if i < 0 {
		return s, apperror.NewNotFound("report", r.ID)
	}
	out := s.clone()
	out[i] = r
	return out, nil
}

// Remove drops the report with the given id and returns it.
func (s Store) Remove(id string) (Store, Report, error) {
	i := s.index(id)
	if i < 0 {
		return s, Report{}, apperror.NewNotFound("report", id)
	}
	removed := s[i]
	out := make(Store, 0, len(s)-1)
	out = append(out, s[:i]...)
	out = append(out, s[i+1:]...)
	return out, removed, nil
}

// Done returns the Done reports in store order.
func (s Store) Done() Store {
	var out Store
	for _, r := range s {
		if r.IsDone() {
			out = append(out, r)
		}
	}
	return out
}

func (s Store) index(id string) int {
	for i := range s {
		if s[i].ID == id {
			return i
		}
	}
	return -1
}

func (s Store) clone() Store {
	out := make(Store, len(s))
	copy(out, s)
	return out
}
