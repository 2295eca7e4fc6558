package monitor

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/unklstewy/vatsim-online/pkg/vatsim"
)

// RankedPilot is one row of the pilots table.
type RankedPilot struct {
	Pilot vatsim.Pilot
	Times vatsim.RatingTimes

	// DistanceNM is the distance from the airport in nautical miles
	DistanceNM float64

	// Bearing is the true bearing from the airport in degrees
	Bearing float64
}

// CID returns the pilot's certificate ID.
func (r RankedPilot) CID() int {
	return r.Pilot.CID
}

// SortRanked orders rows by pilot hours ascending. NaN hours sort last and
// ties are broken by callsign, then CID.
func SortRanked(rows []RankedPilot) {
	slices.SortStableFunc(rows, compareRanked)
}

func compareRanked(a, b RankedPilot) int {
	if c := compareHours(a.Times.Pilot, b.Times.Pilot); c != 0 {
		return c
	}
	if c := strings.Compare(a.Pilot.Callsign, b.Pilot.Callsign); c != 0 {
		return c
	}
	return cmp.Compare(a.Pilot.CID, b.Pilot.CID)
}

// compareHours is a total order on float64 with NaN greater than every number.
// Unlike cmp.Compare, which orders NaN first.
func compareHours(a, b float64) int {
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return 1
	case bNaN:
		return -1
	}
	return cmp.Compare(a, b)
}
