package monitor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/unklstewy/vatsim-online/pkg/coordinates"
	"github.com/unklstewy/vatsim-online/pkg/vatsim"
)

func TestFilterInRange(t *testing.T) {
	t.Run("Keeps pilots inside radius in order", func(t *testing.T) {
		got := FilterInRange([]vatsim.Pilot{nearB, far, nearA}, ksan, 20)
		assert.Equal(t, []vatsim.Pilot{nearB, nearA}, got)
	})

	t.Run("Empty input", func(t *testing.T) {
		assert.Empty(t, FilterInRange(nil, ksan, 20))
	})

	t.Run("Zero radius excludes everything", func(t *testing.T) {
		atCenter := pilot(1, "CTR", ksan.Latitude, ksan.Longitude)
		assert.Empty(t, FilterInRange([]vatsim.Pilot{atCenter}, ksan, 0))
	})

	t.Run("Boundary is exclusive", func(t *testing.T) {
		d := coordinates.DistanceNauticalMiles(ksan, nearB.Position())

		assert.Empty(t, FilterInRange([]vatsim.Pilot{nearB}, ksan, d),
			"pilot exactly at the radius must be excluded")
		assert.Len(t, FilterInRange([]vatsim.Pilot{nearB}, ksan, math.Nextafter(d, math.Inf(1))), 1,
			"pilot just inside the radius must be included")
	})

	t.Run("Never keeps a pilot at or beyond radius", func(t *testing.T) {
		var pilots []vatsim.Pilot
		for i := range 40 {
			lat := ksan.Latitude - 1 + float64(i)*0.05
			lon := ksan.Longitude + 1 - float64(i)*0.05
			pilots = append(pilots, pilot(i, "P", lat, lon))
		}
		const radius = 30.0

		kept := FilterInRange(pilots, ksan, radius)
		keptIDs := map[int]bool{}
		for _, p := range kept {
			keptIDs[p.CID] = true
		}
		for _, p := range pilots {
			inside := coordinates.DistanceNauticalMiles(ksan, p.Position()) < radius
			assert.Equal(t, inside, keptIDs[p.CID], "pilot %d", p.CID)
		}
	})
}
