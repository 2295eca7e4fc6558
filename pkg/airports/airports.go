// Package airports resolves airport identifiers to reference coordinates.
package airports

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/unklstewy/vatsim-online/pkg/coordinates"
)

// ErrUnknownAirport is returned when an identifier has no known coordinates.
var ErrUnknownAirport = errors.New("unknown airport")

// Location is an airport reference point.
type Location struct {
	// Identifier is the ICAO identifier (e.g., "KSAN")
	Identifier string

	// Name is the airport's common name
	Name string

	coordinates.Geographic
}

// Directory resolves airport identifiers.
// The static table and the database-backed repository both implement it.
type Directory interface {
	LookupAirport(ctx context.Context, identifier string) (Location, error)
}

var builtin = map[string]Location{
	"KSAN": {Identifier: "KSAN", Name: "San Diego International", Geographic: coordinates.Geographic{Latitude: 32.7338, Longitude: -117.1933}},
	"KLAX": {Identifier: "KLAX", Name: "Los Angeles International", Geographic: coordinates.Geographic{Latitude: 33.9416, Longitude: -118.4085}},
	"KSNA": {Identifier: "KSNA", Name: "John Wayne", Geographic: coordinates.Geographic{Latitude: 33.6762, Longitude: -117.8675}},
	"KLAS": {Identifier: "KLAS", Name: "Harry Reid International", Geographic: coordinates.Geographic{Latitude: 36.084, Longitude: -115.1537}},
}

// Lookup returns the built-in location for identifier. Matching ignores case
// and surrounding whitespace.
func Lookup(identifier string) (Location, error) {
	key := strings.ToUpper(strings.TrimSpace(identifier))
	loc, ok := builtin[key]
	if !ok {
		return Location{}, fmt.Errorf("%w: %q", ErrUnknownAirport, identifier)
	}
	return loc, nil
}

// Identifiers returns the built-in airport identifiers in sorted order.
func Identifiers() []string {
	ids := make([]string, 0, len(builtin))
	for id := range builtin {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Static is a Directory backed by the built-in table.
type Static struct{}

// LookupAirport implements Directory.
func (Static) LookupAirport(_ context.Context, identifier string) (Location, error) {
	return Lookup(identifier)
}

// Chain is a Directory that tries each directory in order and returns the
// first match. Errors other than ErrUnknownAirport stop the search.
type Chain []Directory

// LookupAirport implements Directory.
func (c Chain) LookupAirport(ctx context.Context, identifier string) (Location, error) {
	for _, dir := range c {
		loc, err := dir.LookupAirport(ctx, identifier)
		if err == nil {
			return loc, nil
		}
		if !errors.Is(err, ErrUnknownAirport) {
			return Location{}, err
		}
	}
	return Location{}, fmt.Errorf("%w: %q", ErrUnknownAirport, identifier)
}
