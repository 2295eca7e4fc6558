package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/unklstewy/vatsim-online/internal/db"
	"github.com/unklstewy/vatsim-online/internal/display"
	"github.com/unklstewy/vatsim-online/internal/logging"
	"github.com/unklstewy/vatsim-online/internal/monitor"
	"github.com/unklstewy/vatsim-online/internal/tableview"
	"github.com/unklstewy/vatsim-online/internal/tui"
	"github.com/unklstewy/vatsim-online/pkg/airports"
	"github.com/unklstewy/vatsim-online/pkg/config"
	"github.com/unklstewy/vatsim-online/pkg/vatsim"
)

var version = "dev"

// flagKeys maps command line flags to configuration keys. A flag that is set
// overrides the environment and the config file.
var flagKeys = map[string]string{
	"view-distance":    "monitor.view_distance_nm",
	"refresh-interval": "monitor.refresh_interval_seconds",
	"renderer":         "ui.renderer",
	"log-level":        "logging.level",
	"log-file":         "logging.file",
	"database":         "database.enabled",
}

// app holds what every command needs once flags and config are loaded.
type app struct {
	cfgFile string
	cfg     *config.Config
	logger  *logging.Logger
	opener  display.Opener
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var showAirports bool

	rootCmd := &cobra.Command{
		Use:   "vatsim-online [AIRPORT]",
		Short: "Show VATSIM pilots near an airport, sorted by network hours",
		Long: `Shows the pilots connected to VATSIM within a radius of an airport,
with the hours each has spent flying and controlling on the network.
The table refreshes with the VATSIM live data feed.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			a.logger.Close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if showAirports {
				return printAirports(cmd)
			}
			return a.runMonitor(cmd, args)
		},
	}

	flags := rootCmd.PersistentFlags()
	defaults := config.DefaultConfig()
	flags.StringVar(&a.cfgFile, "config", "", "config file (JSON, YAML or TOML)")
	flags.Float64("view-distance", defaults.Monitor.ViewDistanceNM, "view distance around the airport in nautical miles")
	flags.Int("refresh-interval", defaults.Monitor.RefreshIntervalSeconds, "seconds between refreshes")
	flags.String("log-level", defaults.Logging.Level, "log level (debug, info, warn, error)")
	flags.String("log-file", "", "log file (default vatsim-online.slog in the user config directory)")
	flags.Bool("database", defaults.Database.Enabled, "look up airports in the NASR database before the built-in table")
	rootCmd.Flags().String("renderer", defaults.UI.Renderer, "terminal renderer (bubbletea or tview)")
	rootCmd.Flags().BoolVar(&showAirports, "show-airports", false, "list the built-in airport identifiers and exit")

	rootCmd.AddCommand(newListCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))
	rootCmd.AddCommand(newAirportsCmd(a))

	return rootCmd
}

// setup loads .env, the config file, the environment and flags (in
// increasing precedence), validates the result and opens the log file.
func (a *app) setup(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	v := config.NewViper()
	if a.cfgFile != "" {
		v.SetConfigFile(a.cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	if err := bindFlags(cmd, v); err != nil {
		return err
	}

	cfg, err := config.Decode(v)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	a.logger = logger
	if a.opener == nil {
		a.opener = display.BrowserOpener()
	}

	logger.Info("Configuration loaded",
		slog.String("config_file", v.ConfigFileUsed()),
		slog.String("command", cmd.Name()))
	return nil
}

// bindFlags binds each known flag of cmd to its configuration key.
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var err error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || err != nil {
			return
		}
		if bindErr := v.BindPFlag(key, f); bindErr != nil {
			err = fmt.Errorf("could not bind flag %s: %w", f.Name, bindErr)
		}
	})
	return err
}

func printAirports(cmd *cobra.Command) error {
	for _, id := range airports.Identifiers() {
		loc, _ := airports.Lookup(id)
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", id, loc.Name)
	}
	return nil
}

// airportArg returns the airport from the command line, or the configured default.
func (a *app) airportArg(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if a.cfg.Monitor.Airport != "" {
		return a.cfg.Monitor.Airport, nil
	}
	return "", errors.New("missing airport identifier (use --show-airports to list them)")
}

// resolveAirport looks the airport up in the database (when enabled) and then
// in the built-in table.
func (a *app) resolveAirport(ctx context.Context, ident string) (airports.Location, error) {
	dir := airports.Chain{airports.Static{}}

	if a.cfg.Database.Enabled {
		database, err := db.Connect(ctx, a.cfg.Database)
		if err != nil {
			a.logger.Warn("Airport database unavailable, using built-in airports", slog.Any("error", err))
		} else {
			defer database.Close()
			dir = airports.Chain{database.Airports(), airports.Static{}}
		}
	}

	loc, err := dir.LookupAirport(ctx, ident)
	if err != nil {
		return airports.Location{}, err
	}
	a.logger.Info("Airport resolved",
		slog.String("airport", loc.Identifier),
		slog.Float64("lat", loc.Latitude),
		slog.Float64("lon", loc.Longitude))
	return loc, nil
}

// connect builds the VATSIM client and discovers the live data feed.
func (a *app) connect(ctx context.Context) (*vatsim.Client, error) {
	retry := vatsim.DefaultRetryConfig()
	retry.MaxRetries = a.cfg.VATSIM.ConnectRetries

	client := vatsim.NewClient(vatsim.Config{
		StatusURL:                a.cfg.VATSIM.StatusURL,
		RatingsURL:               a.cfg.VATSIM.RatingsURL,
		StatsURL:                 a.cfg.VATSIM.StatsURL,
		UserAgent:                a.cfg.VATSIM.UserAgent,
		Timeout:                  a.cfg.VATSIM.Timeout(),
		RatingsRequestsPerSecond: a.cfg.VATSIM.RatingsRequestsPerSecond,
		RatingsBurst:             a.cfg.VATSIM.RatingsBurst,
		Retry:                    retry,
		Logger:                   a.logger.Logger,
	})
	if err := client.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to VATSIM: %w", err)
	}
	return client, nil
}

// prepare resolves the airport, connects and builds the engine.
func (a *app) prepare(ctx context.Context, args []string) (*monitor.Engine, *vatsim.Client, airports.Location, error) {
	ident, err := a.airportArg(args)
	if err != nil {
		return nil, nil, airports.Location{}, err
	}
	loc, err := a.resolveAirport(ctx, ident)
	if err != nil {
		return nil, nil, airports.Location{}, err
	}
	client, err := a.connect(ctx)
	if err != nil {
		return nil, nil, airports.Location{}, err
	}

	engine := monitor.NewEngine(client, client, monitor.EngineConfig{
		Center:               loc.Geographic,
		RadiusNM:             a.cfg.Monitor.ViewDistanceNM,
		MaxConcurrentFetches: a.cfg.Monitor.MaxConcurrentFetches,
		Logger:               a.logger.Logger,
	})
	return engine, client, loc, nil
}

func (a *app) runMonitor(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine, client, loc, err := a.prepare(ctx, args)
	if err != nil {
		return err
	}

	scheduler := monitor.NewScheduler(engine, a.cfg.Monitor.RefreshInterval(), a.logger.Logger)
	title := display.Title(loc.Identifier, a.cfg.Monitor.ViewDistanceNM)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return scheduler.Run(gctx)
	})
	g.Go(func() error {
		// Quitting the renderer stops the scheduler.
		defer cancel()
		switch a.cfg.UI.Renderer {
		case config.RendererTview:
			return tableview.Run(gctx, tableview.Config{
				Title:    title,
				Updates:  scheduler.Updates(),
				Refresh:  scheduler.Trigger,
				StatsURL: client.StatsURL,
				Open:     a.opener,
				Logger:   a.logger.Logger,
			})
		default:
			return tui.Run(gctx, tui.Config{
				Title:    title,
				Updates:  scheduler.Updates(),
				Refresh:  scheduler.Trigger,
				StatsURL: client.StatsURL,
				Open:     a.opener,
				Logger:   a.logger.Logger,
			})
		}
	})

	if err := g.Wait(); err != nil {
		a.logger.Error("Monitor failed", slog.Any("error", err))
		return err
	}
	a.logger.Info("Exiting")
	return nil
}
