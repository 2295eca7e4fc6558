package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/unklstewy/vatsim-online/pkg/airports"
)

// AirportRepository looks up airports in the NASR waypoints table.
// It implements airports.Directory.
type AirportRepository struct {
	db *sql.DB
}

// NewAirportRepository creates a new airport repository.
func NewAirportRepository(db *sql.DB) *AirportRepository {
	return &AirportRepository{db: db}
}

// LookupAirport returns the airport with the given identifier.
//
// NASR stores US airports by FAA location identifier ("SAN"), so a
// four-letter ICAO identifier starting with K is also tried without the K.
// An exact match is preferred. Returns airports.ErrUnknownAirport when no
// airport row matches.
func (r *AirportRepository) LookupAirport(ctx context.Context, identifier string) (airports.Location, error) {
	ident := strings.ToUpper(strings.TrimSpace(identifier))
	if ident == "" {
		return airports.Location{}, fmt.Errorf("%w: empty identifier", airports.ErrUnknownAirport)
	}

	var loc airports.Location
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(name, ''), latitude, longitude
		 FROM waypoints
		 WHERE type = 'airport'
		   AND identifier IN ($1, $2)
		 ORDER BY CASE WHEN identifier = $1 THEN 0 ELSE 1 END
		 LIMIT 1`,
		ident, faaIdentifier(ident),
	).Scan(&loc.Name, &loc.Latitude, &loc.Longitude)

	if errors.Is(err, sql.ErrNoRows) {
		return airports.Location{}, fmt.Errorf("%w: %q", airports.ErrUnknownAirport, identifier)
	}
	if err != nil {
		return airports.Location{}, fmt.Errorf("failed to get airport: %w", err)
	}

	loc.Identifier = ident
	return loc, nil
}

// SaveAirport inserts or updates an airport. region is the FAA region code
// ("AWP"); together with the identifier it keys the row.
func (r *AirportRepository) SaveAirport(ctx context.Context, loc airports.Location, region string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO waypoints (identifier, name, latitude, longitude, type, region)
		 VALUES ($1, $2, $3, $4, 'airport', $5)
		 ON CONFLICT (identifier, region) DO UPDATE SET
		 name = EXCLUDED.name,
		 latitude = EXCLUDED.latitude,
		 longitude = EXCLUDED.longitude,
		 type = EXCLUDED.type`,
		loc.Identifier, loc.Name, loc.Latitude, loc.Longitude, region,
	)
	if err != nil {
		return fmt.Errorf("failed to save airport %s: %w", loc.Identifier, err)
	}
	return nil
}

// faaIdentifier maps a contiguous-US ICAO identifier (KSAN) to its FAA
// location identifier (SAN). Other identifiers are returned unchanged.
func faaIdentifier(ident string) string {
	if len(ident) == 4 && ident[0] == 'K' {
		return ident[1:]
	}
	return ident
}

var _ airports.Directory = (*AirportRepository)(nil)
