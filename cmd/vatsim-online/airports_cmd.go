package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/unklstewy/vatsim-online/internal/db"
	"github.com/unklstewy/vatsim-online/internal/nasr"
	"github.com/unklstewy/vatsim-online/pkg/airports"
)

func newAirportsCmd(a *app) *cobra.Command {
	airportsCmd := &cobra.Command{
		Use:   "airports",
		Short: "List built-in airports or import airports from FAA NASR data",
	}

	airportsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the built-in airport identifiers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printAirports(cmd)
		},
	})

	var nasrDir string
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import airports from NASR APT.txt into the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			f, err := os.Open(filepath.Join(nasrDir, nasr.AirportFile))
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", nasr.AirportFile, err)
			}
			defer f.Close()

			database, err := db.Connect(ctx, a.cfg.Database)
			if err != nil {
				return err
			}
			defer database.Close()

			if err := database.InitSchema(ctx); err != nil {
				return err
			}

			count, skipped, err := importAirports(ctx, f, database.Airports(), a.logger.Logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d airports (%d skipped)\n", count, skipped)
			return nil
		},
	}
	importCmd.Flags().StringVar(&nasrDir, "nasr-dir", "data/nasr", "directory containing the NASR APT.txt file")
	airportsCmd.AddCommand(importCmd)

	return airportsCmd
}

type airportSaver interface {
	SaveAirport(ctx context.Context, loc airports.Location, region string) error
}

// importAirports saves every airport in an APT.txt stream.
func importAirports(ctx context.Context, r io.Reader, repo airportSaver, logger *slog.Logger) (count, skipped int, err error) {
	skipped, err = nasr.ScanAirports(ctx, r, func(apt nasr.Airport) error {
		if err := repo.SaveAirport(ctx, apt.Location(), apt.Region); err != nil {
			return err
		}
		count++
		if count%1000 == 0 {
			logger.Info("Importing airports", slog.Int("count", count))
		}
		return nil
	})
	if err != nil {
		return count, skipped, err
	}
	logger.Info("Airports imported", slog.Int("count", count), slog.Int("skipped", skipped))
	return count, skipped, nil
}
