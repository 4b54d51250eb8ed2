package ledger

// Side is the ledger-relevant view of a report at one point in time.
type Side struct {
	Done  bool
	Items map[string]int
}

// Transition is a report lifecycle change. Before is nil for a create and
// After is nil for a delete.
type Transition struct {
	Before *Side
	After  *Side
}

// Create describes a newly committed report.
func Create(after Side) Transition {
	return Transition{After: &after}
}

// Update describes an in-place edit, including status changes.
func Update(before, after Side) Transition {
	return Transition{Before: &before, After: &after}
}

// Delete describes the removal of a report.
func Delete(before Side) Transition {
	return Transition{Before: &before}
}

// Changes returns the signed quantity change per item that t implies:
//
//	create Done        -qty
//	delete Done        +qty
//	Process -> Done    -new qty
//	Done -> Process    +original qty
//	Done -> Done       -(new - old)
//
// Everything else leaves the ledger alone.
func (t Transition) Changes() map[string]int {
	beforeDone := t.Before != nil && t.Before.Done
	afterDone := t.After != nil && t.After.Done

	changes := make(map[string]int)
	switch {
	case !beforeDone && afterDone:
		addSigned(changes, t.After.Items, -1)
	case beforeDone && !afterDone:
		addSigned(changes, t.Before.Items, +1)
	case beforeDone && afterDone:
		addSigned(changes, t.Before.Items, +1)
		addSigned(changes, t.After.Items, -1)
		for name, change := range changes {
			if change == 0 {
				delete(changes, name)
			}
		}
	}
	return changes
}

func addSigned(dst map[string]int, items map[string]int, sign int) {
	for name, qty := range items {
		if qty <= 0 {
			continue
		}
		dst[name] += sign * qty
	}
}
