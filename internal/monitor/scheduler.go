package monitor

import (
	"context"
	"log/slog"
	"time"
)

// DefaultInterval matches the update period of the VATSIM live data feed.
const DefaultInterval = 15 * time.Second

// Cycler runs one refresh cycle. *Engine implements it.
type Cycler interface {
	Cycle(ctx context.Context) (CycleResult, error)
}

// Update is the outcome of one scheduled cycle.
type Update struct {
	Result CycleResult
	Err    error
	At     time.Time
}

// ApplyTo applies the update to board.
func (u Update) ApplyTo(board Board) Board {
	if u.Err != nil {
		return board.Fail(u.Err)
	}
	return board.Apply(u.Result, u.At)
}

// Scheduler runs a Cycler immediately and then once per interval, one cycle
// at a time, and publishes each outcome on Updates.
type Scheduler struct {
	cycler   Cycler
	interval time.Duration
	logger   *slog.Logger

	trigger chan struct{}
	updates chan Update
}

// NewScheduler creates a scheduler. A zero interval means DefaultInterval.
func NewScheduler(cycler Cycler, interval time.Duration, logger *slog.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scheduler{
		cycler:   cycler,
		interval: interval,
		logger:   logger,
		trigger:  make(chan struct{}, 1),
		updates:  make(chan Update, 1),
	}
}

// Updates returns the channel cycle outcomes are delivered on. It is closed
// when Run returns.
func (s *Scheduler) Updates() <-chan Update {
	return s.updates
}

// Trigger requests a cycle as soon as the current one (if any) finishes.
// It never blocks; requests made while one is pending are merged.
func (s *Scheduler) Trigger() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// Run drives the cycler until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	defer close(s.updates)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("Scheduler started", slog.Duration("interval", s.interval))
	for {
		res, err := s.cycler.Cycle(ctx)
		if ctx.Err() != nil {
			break
		}
		if err != nil {
			s.logger.Warn("Refresh failed", slog.Any("error", err))
		}

		select {
		case s.updates <- Update{Result: res, Err: err, At: time.Now()}:
		case <-ctx.Done():
		}

		select {
		case <-ctx.Done():
		case <-ticker.C:
		case <-s.trigger:
			ticker.Reset(s.interval)
		}
		if ctx.Err() != nil {
			break
		}
	}

	s.logger.Info("Scheduler stopped")
	return nil
}
