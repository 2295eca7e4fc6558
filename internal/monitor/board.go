package monitor

import "time"

// Board is the state shown by a renderer: the current rows, the selected
// row, and the outcome of the last cycle. It is a value; every method returns
// an updated copy and leaves the receiver unchanged.
type Board struct {
	// Rows from the last successful cycle
	Rows []RankedPilot

	// Selection always indexes Rows or is None
	Selection Selection

	// UpdatedAt is when Rows were last replaced; zero before the first success
	UpdatedAt time.Time

	// LastErr is the error from the last cycle, nil if it succeeded
	LastErr error

	// Failures are the per-pilot fetch failures of the last successful cycle
	Failures []*PilotFetchError

	// ConsecutiveFailures counts failed cycles since the last success
	ConsecutiveFailures int
}

// Apply replaces the rows with res and re-anchors the selection.
func (b Board) Apply(res CycleResult, at time.Time) Board {
	return Board{
		Rows:      res.Rows,
		Selection: Reanchor(b.Selection, b.Rows, res.Rows),
		UpdatedAt: at,
		Failures:  res.Failures,
	}
}

// Fail records a failed cycle. Rows and selection are kept.
func (b Board) Fail(err error) Board {
	b.LastErr = err
	b.ConsecutiveFailures++
	return b
}

// Up moves the selection up one row.
func (b Board) Up() Board {
	b.Selection = MoveUp(b.Selection, len(b.Rows))
	return b
}

// Down moves the selection down one row.
func (b Board) Down() Board {
	b.Selection = MoveDown(b.Selection, len(b.Rows))
	return b
}

// Clear removes the selection.
func (b Board) Clear() Board {
	b.Selection = None()
	return b
}

// Selected returns the selected row.
func (b Board) Selected() (RankedPilot, bool) {
	i, ok := b.Selection.Index()
	if !ok || i >= len(b.Rows) {
		return RankedPilot{}, false
	}
	return b.Rows[i], true
}
