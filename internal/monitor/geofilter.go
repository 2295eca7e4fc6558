package monitor

import (
	"github.com/samber/lo"

	"github.com/unklstewy/vatsim-online/pkg/coordinates"
	"github.com/unklstewy/vatsim-online/pkg/vatsim"
)

// FilterInRange returns the pilots strictly closer than radiusNM nautical
// miles to center, in their original order.
func FilterInRange(pilots []vatsim.Pilot, center coordinates.Geographic, radiusNM float64) []vatsim.Pilot {
	return lo.Filter(pilots, func(p vatsim.Pilot, _ int) bool {
		return coordinates.DistanceNauticalMiles(center, p.Position()) < radiusNM
	})
}
