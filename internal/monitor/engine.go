package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/unklstewy/vatsim-online/pkg/coordinates"
	"github.com/unklstewy/vatsim-online/pkg/vatsim"
)

// DefaultMaxConcurrentFetches bounds the ratings requests in flight when
// EngineConfig.MaxConcurrentFetches is zero.
const DefaultMaxConcurrentFetches = 8

// PilotFetchError reports a pilot whose rating times could not be fetched.
// The pilot is left out of that cycle's rows.
type PilotFetchError struct {
	CID      int
	Callsign string
	Err      error
}

func (e *PilotFetchError) Error() string {
	return fmt.Sprintf("fetch rating times for %s (%d): %v", e.Callsign, e.CID, e.Err)
}

func (e *PilotFetchError) Unwrap() error { return e.Err }

// CycleResult is the output of one refresh cycle.
type CycleResult struct {
	// Rows are the in-range pilots with known rating times, sorted by pilot hours
	Rows []RankedPilot

	// Failures lists pilots dropped because their rating times could not be fetched
	Failures []*PilotFetchError

	// Online is the number of pilots in the live feed
	Online int

	// InRange is the number of pilots within the view distance
	InRange int

	// Fetched is the number of ratings requests issued
	Fetched int
}

// EngineConfig configures an Engine.
type EngineConfig struct {
	// Center is the airport reference point
	Center coordinates.Geographic

	// RadiusNM is the view distance in nautical miles
	RadiusNM float64

	// MaxConcurrentFetches bounds the ratings requests in flight (default 8)
	MaxConcurrentFetches int

	Logger *slog.Logger
}

// Engine runs refresh cycles. It owns the ExperienceCache.
//
// Cycle must not be called concurrently; the Scheduler guarantees this.
type Engine struct {
	live    vatsim.LiveDataSource
	ratings vatsim.RatingTimesSource

	center        coordinates.Geographic
	radiusNM      float64
	maxConcurrent int

	cache  *ExperienceCache
	logger *slog.Logger
	now    func() time.Time
}

// NewEngine creates an engine with an empty cache.
func NewEngine(live vatsim.LiveDataSource, ratings vatsim.RatingTimesSource, cfg EngineConfig) *Engine {
	if cfg.MaxConcurrentFetches < 1 {
		cfg.MaxConcurrentFetches = DefaultMaxConcurrentFetches
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		live:          live,
		ratings:       ratings,
		center:        cfg.Center,
		radiusNM:      cfg.RadiusNM,
		maxConcurrent: cfg.MaxConcurrentFetches,
		cache:         NewExperienceCache(),
		logger:        cfg.Logger,
		now:           time.Now,
	}
}

// Cache returns the engine's experience cache.
func (e *Engine) Cache() *ExperienceCache {
	return e.cache
}

type fetchResult struct {
	pilot vatsim.Pilot
	times vatsim.RatingTimes
	err   error
}

// Cycle fetches, filters, enriches and sorts the current pilots.
//
// A failed live fetch fails the cycle. A failed ratings fetch only drops
// that pilot and is reported in CycleResult.Failures.
func (e *Engine) Cycle(ctx context.Context) (CycleResult, error) {
	pilots, err := e.live.GetOnlinePilots(ctx)
	if err != nil {
		return CycleResult{}, fmt.Errorf("fetch online pilots: %w", err)
	}

	inRange := FilterInRange(pilots, e.center, e.radiusNM)

	// Decide every miss before the first request goes out, one per CID.
	misses := lo.UniqBy(lo.Filter(inRange, func(p vatsim.Pilot, _ int) bool {
		_, ok := e.cache.Get(p.CID)
		return !ok
	}), func(p vatsim.Pilot) int {
		return p.CID
	})

	results := make([]fetchResult, len(misses))
	var g errgroup.Group
	g.SetLimit(e.maxConcurrent)
	for i, p := range misses {
		g.Go(func() error {
			times, err := e.ratings.GetRatingTimes(ctx, p.CID)
			results[i] = fetchResult{pilot: p, times: times, err: err}
			return nil
		})
	}
	_ = g.Wait()

	var failures []*PilotFetchError
	for _, r := range results {
		if r.err != nil {
			failures = append(failures, &PilotFetchError{CID: r.pilot.CID, Callsign: r.pilot.Callsign, Err: r.err})
			e.logger.Warn("Failed to fetch rating times",
				slog.Int("cid", r.pilot.CID),
				slog.String("callsign", r.pilot.Callsign),
				slog.Any("error", r.err))
			continue
		}
		e.cache.Put(r.pilot.CID, r.times)
	}

	rows := make([]RankedPilot, 0, len(inRange))
	for _, p := range inRange {
		times, ok := e.cache.Get(p.CID)
		if !ok {
			continue
		}
		pos := p.Position()
		rows = append(rows, RankedPilot{
			Pilot:      p,
			Times:      times,
			DistanceNM: coordinates.DistanceNauticalMiles(e.center, pos),
			Bearing:    coordinates.Bearing(e.center, pos),
		})
	}
	SortRanked(rows)

	e.logger.Debug("Cycle complete",
		slog.Int("online", len(pilots)),
		slog.Int("in_range", len(inRange)),
		slog.Int("fetched", len(misses)),
		slog.Int("failed", len(failures)),
		slog.Int("cached", e.cache.Len()))

	return CycleResult{
		Rows:     rows,
		Failures: failures,
		Online:   len(pilots),
		InRange:  len(inRange),
		Fetched:  len(misses),
	}, nil
}

// Refresh runs one cycle and applies it to board. On failure the returned
// board keeps its rows and selection and records the error.
func (e *Engine) Refresh(ctx context.Context, board Board) (Board, error) {
	res, err := e.Cycle(ctx)
	if err != nil {
		return board.Fail(err), err
	}
	return board.Apply(res, e.now()), nil
}
