package monitor

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBoard(t *testing.T) {
	t0 := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	t1 := t0.Add(15 * time.Second)

	t.Run("Empty board", func(t *testing.T) {
		var b Board
		assert.True(t, b.Up().Selection.IsNone())
		assert.True(t, b.Down().Selection.IsNone())
		_, ok := b.Selected()
		assert.False(t, ok)
	})

	t.Run("Apply re-anchors and clears errors", func(t *testing.T) {
		b := Board{Rows: rowsFor(1, 2, 3), Selection: At(2), LastErr: errors.New("old"), ConsecutiveFailures: 2}

		next := b.Apply(CycleResult{Rows: rowsFor(3, 1)}, t1)

		assert.Equal(t, At(0), next.Selection)
		assert.Equal(t, t1, next.UpdatedAt)
		assert.NoError(t, next.LastErr)
		assert.Zero(t, next.ConsecutiveFailures)
		assert.Equal(t, At(2), b.Selection, "receiver is unchanged")
	})

	t.Run("Apply records per-pilot failures", func(t *testing.T) {
		failures := []*PilotFetchError{{CID: 9, Callsign: "X", Err: errors.New("404")}}
		next := Board{}.Apply(CycleResult{Rows: rowsFor(1), Failures: failures}, t0)
		assert.Equal(t, failures, next.Failures)
	})

	t.Run("Fail keeps rows and selection", func(t *testing.T) {
		b := Board{Rows: rowsFor(1, 2), Selection: At(1), UpdatedAt: t0}
		boom := errors.New("unreachable")

		next := b.Fail(boom).Fail(boom)

		assert.Equal(t, b.Rows, next.Rows)
		assert.Equal(t, At(1), next.Selection)
		assert.Equal(t, t0, next.UpdatedAt)
		assert.ErrorIs(t, next.LastErr, boom)
		assert.Equal(t, 2, next.ConsecutiveFailures)
	})

	t.Run("Navigation", func(t *testing.T) {
		b := Board{Rows: rowsFor(1, 2, 3)}

		b = b.Down()
		row, ok := b.Selected()
		assert.True(t, ok)
		assert.Equal(t, 1, row.CID())

		b = b.Up()
		row, _ = b.Selected()
		assert.Equal(t, 3, row.CID(), "up from the first row wraps")

		b = b.Clear()
		assert.True(t, b.Selection.IsNone())
	})

	t.Run("Update applies success and failure", func(t *testing.T) {
		b := Update{Result: CycleResult{Rows: rowsFor(4)}, At: t0}.ApplyTo(Board{})
		assert.Len(t, b.Rows, 1)
		assert.Equal(t, t0, b.UpdatedAt)

		b = Update{Err: errors.New("down"), At: t1}.ApplyTo(b)
		assert.Len(t, b.Rows, 1)
		assert.Equal(t, t0, b.UpdatedAt, "failed cycle does not bump last updated")
		assert.Error(t, b.LastErr)
	})
}
