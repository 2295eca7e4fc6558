// Package nasr reads airports from the FAA NASR (National Airspace System
// Resources) 28-day subscription.
//
// Download NASR data from:
// https://www.faa.gov/air_traffic/flight_info/aeronav/aero_data/NASR_Subscription/
//
// Only APT.txt is used. Its landing facility records are fixed width, with
// the column positions given in the NASR APT layout document.
package nasr

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/unklstewy/vatsim-online/pkg/airports"
	"github.com/unklstewy/vatsim-online/pkg/coordinates"
)

// AirportFile is the name of the landing facility file in a NASR directory.
const AirportFile = "APT.txt"

// Airport is one APT landing facility record of type AIRPORT.
type Airport struct {
	// LocationID is the FAA location identifier ("SAN")
	LocationID string

	// ICAO is the ICAO identifier ("KSAN"), empty when none is assigned
	ICAO string

	Name   string
	Region string
	State  string

	Latitude  float64
	Longitude float64
}

// Identifier returns the ICAO identifier, or the FAA one when there is none.
func (a Airport) Identifier() string {
	if a.ICAO != "" {
		return a.ICAO
	}
	return a.LocationID
}

// Location converts a to an airport directory entry.
func (a Airport) Location() airports.Location {
	return airports.Location{
		Identifier: a.Identifier(),
		Name:       a.Name,
		Geographic: coordinates.Geographic{Latitude: a.Latitude, Longitude: a.Longitude},
	}
}

// APT record columns, 1-based and inclusive.
var (
	colRecordType   = span{1, 3}
	colFacilityType = span{15, 27}
	colLocationID   = span{28, 31}
	colRegion       = span{42, 44}
	colState        = span{49, 50}
	colName         = span{134, 183}
	colLatitude     = span{524, 538}
	colLongitude    = span{551, 565}
	colICAO         = span{1211, 1217}
)

type span struct{ start, end int }

// in returns the trimmed field, or "" if line is too short.
func (s span) in(line string) string {
	if len(line) < s.start {
		return ""
	}
	end := min(s.end, len(line))
	return strings.TrimSpace(line[s.start-1 : end])
}

// ScanAirports calls fn for every airport in an APT.txt stream. Other record
// and facility types are ignored. Airports that cannot be parsed are skipped
// and counted. Scanning stops at the first error from fn or ctx.
func ScanAirports(ctx context.Context, r io.Reader, fn func(Airport) error) (skipped int, err error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return skipped, err
		}

		line := scanner.Text()
		if colRecordType.in(line) != "APT" {
			continue
		}
		if colFacilityType.in(line) != "AIRPORT" {
			continue
		}

		apt, err := parseAirport(line)
		if err != nil {
			skipped++
			continue
		}
		if err := fn(apt); err != nil {
			return skipped, err
		}
	}

	if err := scanner.Err(); err != nil {
		return skipped, fmt.Errorf("failed to read %s: %w", AirportFile, err)
	}
	return skipped, nil
}

func parseAirport(line string) (Airport, error) {
	apt := Airport{
		LocationID: colLocationID.in(line),
		ICAO:       colICAO.in(line),
		Name:       colName.in(line),
		Region:     colRegion.in(line),
		State:      colState.in(line),
	}
	if apt.LocationID == "" {
		return Airport{}, fmt.Errorf("missing location identifier")
	}

	var err error
	if apt.Latitude, err = ParseLatLon(colLatitude.in(line)); err != nil {
		return Airport{}, fmt.Errorf("%s latitude: %w", apt.LocationID, err)
	}
	if apt.Longitude, err = ParseLatLon(colLongitude.in(line)); err != nil {
		return Airport{}, fmt.Errorf("%s longitude: %w", apt.LocationID, err)
	}
	return apt, nil
}

// ParseLatLon parses the NASR formatted position DD-MM-SS.SSSH (DDD for
// longitude), where H is N, S, E or W, into decimal degrees.
func ParseLatLon(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if len(s) < 11 {
		return 0, fmt.Errorf("invalid lat/lon format: %q", s)
	}

	hemisphere := s[len(s)-1]
	parts := strings.Split(s[:len(s)-1], "-")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid lat/lon parts: %q", s)
	}

	var dms [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid lat/lon %q: %w", s, err)
		}
		dms[i] = v
	}

	decimal := dms[0] + dms[1]/60.0 + dms[2]/3600.0

	switch hemisphere {
	case 'N', 'E':
	case 'S', 'W':
		decimal = -decimal
	default:
		return 0, fmt.Errorf("invalid hemisphere in %q", s)
	}
	return decimal, nil
}
