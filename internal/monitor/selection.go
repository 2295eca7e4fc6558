package monitor

// Selection is either no row or an index into the current rows.
// The zero value is no selection.
type Selection struct {
	index int
	valid bool
}

// None returns the empty selection.
func None() Selection {
	return Selection{}
}

// At selects row i. A negative i is no selection.
func At(i int) Selection {
	if i < 0 {
		return None()
	}
	return Selection{index: i, valid: true}
}

// Index returns the selected row and whether a row is selected.
func (s Selection) Index() (int, bool) {
	return s.index, s.valid
}

// IsNone reports whether no row is selected.
func (s Selection) IsNone() bool {
	return !s.valid
}

// Reanchor maps a selection in previous onto next by pilot identity.
// It returns None if nothing was selected, if the selection was out of range
// for previous, or if the selected pilot is not in next.
func Reanchor(sel Selection, previous, next []RankedPilot) Selection {
	i, ok := sel.Index()
	if !ok || i >= len(previous) {
		return None()
	}
	cid := previous[i].CID()
	for j, row := range next {
		if row.CID() == cid {
			return At(j)
		}
	}
	return None()
}

// MoveUp moves the selection one row up in a table of n rows, wrapping from
// the first row (or from no selection) to the last.
func MoveUp(sel Selection, n int) Selection {
	if n <= 0 {
		return None()
	}
	i, ok := sel.Index()
	switch {
	case !ok || i == 0:
		return At(n - 1)
	case i >= n:
		return At(n - 1)
	default:
		return At(i - 1)
	}
}

// MoveDown moves the selection one row down in a table of n rows, wrapping
// from the last row (or from no selection) to the first.
func MoveDown(sel Selection, n int) Selection {
	if n <= 0 {
		return None()
	}
	i, ok := sel.Index()
	if !ok || i >= n-1 {
		return At(0)
	}
	return At(i + 1)
}
