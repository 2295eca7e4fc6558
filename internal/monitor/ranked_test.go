package monitor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/unklstewy/vatsim-online/pkg/vatsim"
)

func ranked(cid int, callsign string, hours float64) RankedPilot {
	return RankedPilot{
		Pilot: vatsim.Pilot{CID: cid, Callsign: callsign},
		Times: vatsim.RatingTimes{Pilot: hours},
	}
}

func TestSortRanked(t *testing.T) {
	t.Run("Ascending by pilot hours", func(t *testing.T) {
		rows := []RankedPilot{ranked(1, "A", 300), ranked(2, "B", 5), ranked(3, "C", 42)}
		SortRanked(rows)
		assert.Equal(t, []int{2, 3, 1}, cids(rows))
	})

	t.Run("NaN sorts last without panicking", func(t *testing.T) {
		rows := []RankedPilot{ranked(1, "A", math.NaN()), ranked(2, "B", 5), ranked(3, "C", math.NaN()), ranked(4, "D", 1)}
		assert.NotPanics(t, func() { SortRanked(rows) })
		assert.Equal(t, []int{4, 2, 1, 3}, cids(rows))
	})

	t.Run("Ties by callsign then CID", func(t *testing.T) {
		rows := []RankedPilot{ranked(9, "N1", 10), ranked(3, "DAL1", 10), ranked(2, "N1", 10)}
		SortRanked(rows)
		assert.Equal(t, []int{3, 2, 9}, cids(rows))
	})

	t.Run("Empty", func(t *testing.T) {
		assert.NotPanics(t, func() { SortRanked(nil) })
	})
}

func TestCompareHours(t *testing.T) {
	nan := math.NaN()
	assert.Equal(t, -1, compareHours(1, 2))
	assert.Equal(t, 1, compareHours(2, 1))
	assert.Equal(t, 0, compareHours(2, 2))
	assert.Equal(t, 1, compareHours(nan, 2))
	assert.Equal(t, -1, compareHours(2, nan))
	assert.Equal(t, 0, compareHours(nan, nan))
	assert.Equal(t, -1, compareHours(math.Inf(1), nan))
}
