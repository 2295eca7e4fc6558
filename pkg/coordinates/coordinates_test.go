package coordinates

import (
	"math"
	"testing"
)

// TestDistanceNauticalMiles tests great-circle distances against known values.
func TestDistanceNauticalMiles(t *testing.T) {
	tests := []struct {
		name      string
		from      Geographic
		to        Geographic
		want      float64
		tolerance float64
	}{
		{
			name:      "Same point",
			from:      Geographic{Latitude: 32.7338, Longitude: -117.1933},
			to:        Geographic{Latitude: 32.7338, Longitude: -117.1933},
			want:      0,
			tolerance: 1e-9,
		},
		{
			name:      "One degree of latitude is 60 nm",
			from:      Geographic{Latitude: 40.0, Longitude: -74.0},
			to:        Geographic{Latitude: 41.0, Longitude: -74.0},
			want:      60.04,
			tolerance: 0.1,
		},
		{
			name:      "KSAN to KLAX",
			from:      Geographic{Latitude: 32.7338, Longitude: -117.1933},
			to:        Geographic{Latitude: 33.9416, Longitude: -118.4085},
			want:      94.7,
			tolerance: 0.5,
		},
		{
			name:      "Across the antimeridian",
			from:      Geographic{Latitude: 0, Longitude: 179.5},
			to:        Geographic{Latitude: 0, Longitude: -179.5},
			want:      60.04,
			tolerance: 0.1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceNauticalMiles(tt.from, tt.to)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("Expected %.2f nm, got %.2f nm", tt.want, got)
			}
		})
	}
}

// TestDistanceSymmetry verifies distance(a, b) == distance(b, a) and distance(a, a) == 0.
func TestDistanceSymmetry(t *testing.T) {
	points := []Geographic{
		{Latitude: 32.7338, Longitude: -117.1933},
		{Latitude: -33.9461, Longitude: 151.1772},
		{Latitude: 51.4700, Longitude: -0.4543},
		{Latitude: 89.9, Longitude: 0},
		{Latitude: -45, Longitude: 180},
	}

	for i, a := range points {
		if d := DistanceNauticalMiles(a, a); d != 0 {
			t.Errorf("Expected zero distance for point %d, got %f", i, d)
		}
		for j, b := range points {
			ab := DistanceNauticalMiles(a, b)
			ba := DistanceNauticalMiles(b, a)
			if math.Abs(ab-ba) > 1e-9 {
				t.Errorf("Distance not symmetric for %d/%d: %f vs %f", i, j, ab, ba)
			}
		}
	}
}

// TestBearing tests initial bearing calculation.
func TestBearing(t *testing.T) {
	origin := Geographic{Latitude: 40.0, Longitude: -74.0}

	tests := []struct {
		name string
		to   Geographic
		want float64
	}{
		{"North", Geographic{Latitude: 41.0, Longitude: -74.0}, 0},
		{"East", Geographic{Latitude: 40.0, Longitude: -73.0}, 89.7},
		{"South", Geographic{Latitude: 39.0, Longitude: -74.0}, 180},
		{"West", Geographic{Latitude: 40.0, Longitude: -75.0}, 270.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Bearing(origin, tt.to)
			if math.Abs(got-tt.want) > 0.5 {
				t.Errorf("Expected bearing %.1f, got %.1f", tt.want, got)
			}
		})
	}
}

// TestCompassPoint tests bearing to compass abbreviation conversion.
func TestCompassPoint(t *testing.T) {
	tests := []struct {
		bearing float64
		want    string
	}{
		{0, "N"},
		{359, "N"},
		{360, "N"},
		{22.5, "NNE"},
		{45, "NE"},
		{90, "E"},
		{180, "S"},
		{-90, "W"},
		{292.5, "WNW"},
	}

	for _, tt := range tests {
		if got := CompassPoint(tt.bearing); got != tt.want {
			t.Errorf("CompassPoint(%v): expected %s, got %s", tt.bearing, tt.want, got)
		}
	}
}
