package main

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unklstewy/vatsim-online/internal/db"
	"github.com/unklstewy/vatsim-online/internal/logging"
)

// aptRecord builds a minimal fixed-width APT landing facility record.
func aptRecord(lid, name, lat, lon, icao string) string {
	b := []byte(strings.Repeat(" ", 1217))
	copy(b[0:], "APT")
	copy(b[14:], "AIRPORT")
	copy(b[27:], lid)
	copy(b[41:], "AWP")
	copy(b[133:], name)
	copy(b[523:], lat)
	copy(b[550:], lon)
	copy(b[1210:], icao)
	return string(b)
}

func TestImportAirports(t *testing.T) {
	input := strings.Join([]string{
		aptRecord("SAN", "SAN DIEGO INTL", "32-44-01.8000N", "117-11-22.4000W", "KSAN"),
		aptRecord("L78", "JACUMBA", "32-36-59.0000N", "116-09-54.0000W", ""),
		aptRecord("XXX", "NO POSITION", "", "", ""),
	}, "\n")

	t.Run("Saves parsed airports", func(t *testing.T) {
		sqlDB, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer sqlDB.Close()

		mock.ExpectExec(`INSERT INTO waypoints`).
			WithArgs("KSAN", "SAN DIEGO INTL", sqlmock.AnyArg(), sqlmock.AnyArg(), "AWP").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec(`INSERT INTO waypoints`).
			WithArgs("L78", "JACUMBA", sqlmock.AnyArg(), sqlmock.AnyArg(), "AWP").
			WillReturnResult(sqlmock.NewResult(2, 1))

		count, skipped, err := importAirports(context.Background(), strings.NewReader(input),
			db.NewAirportRepository(sqlDB), logging.Discard())
		require.NoError(t, err)
		assert.Equal(t, 2, count)
		assert.Equal(t, 1, skipped)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Stops on database error", func(t *testing.T) {
		sqlDB, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer sqlDB.Close()

		mock.ExpectExec(`INSERT INTO waypoints`).WillReturnError(errors.New("connection reset"))

		count, _, err := importAirports(context.Background(), strings.NewReader(input),
			db.NewAirportRepository(sqlDB), logging.Discard())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection reset")
		assert.Zero(t, count)
	})
}

func TestAirportsList(t *testing.T) {
	out, _, err := execute(t, "airports", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "KLAS  Harry Reid International")
}

func TestAirportsImportMissingFile(t *testing.T) {
	_, _, err := execute(t, "airports", "import", "--nasr-dir", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open APT.txt")
}
