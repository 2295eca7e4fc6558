package vatsim

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"
)

// RetryConfig configures retry behavior with exponential backoff.
// The zero value makes a single attempt.
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts (default: 3)
	MaxRetries int

	// InitialDelay is the initial backoff delay (default: 1 second)
	InitialDelay time.Duration

	// MaxDelay is the maximum backoff delay (default: 30 seconds)
	MaxDelay time.Duration

	// Multiplier is the backoff multiplier (default: 2.0 for exponential)
	Multiplier float64

	// RespectRetryAfter uses the Retry-After header of a 429 response if present
	RespectRetryAfter bool
}

// DefaultRetryConfig returns the defaults used for startup discovery.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:        3,
		InitialDelay:      time.Second,
		MaxDelay:          30 * time.Second,
		Multiplier:        2.0,
		RespectRetryAfter: true,
	}
}

// backoff returns the delay before retry number attempt+1.
// delay = min(InitialDelay * Multiplier^attempt, MaxDelay)
func (cfg RetryConfig) backoff(attempt int) time.Duration {
	d := time.Duration(float64(cfg.InitialDelay) * math.Pow(cfg.Multiplier, float64(attempt)))
	if cfg.MaxDelay > 0 && d > cfg.MaxDelay {
		return cfg.MaxDelay
	}
	return d
}

// RetryWithBackoff executes fn with exponential backoff and returns its result.
// Rate limit errors carrying a Retry-After value override the computed delay
// when cfg.RespectRetryAfter is set. The context is checked between attempts.
//
// Example usage:
//
//	url, err := RetryWithBackoff(ctx, DefaultRetryConfig(), logger, func() (string, error) {
//	    return client.discoverDataURL(ctx)
//	})
func RetryWithBackoff[T any](ctx context.Context, cfg RetryConfig, logger *slog.Logger, fn func() (T, error)) (T, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var result T
	var lastErr error
	var delay time.Duration

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return result, fmt.Errorf("retry cancelled: %w", ctx.Err())
			case <-time.After(delay):
			}
		}

		res, err := fn()
		if err == nil {
			return res, nil
		}
		result = res
		lastErr = err

		if attempt == cfg.MaxRetries {
			break
		}

		delay = cfg.backoff(attempt)
		if rle, ok := IsRateLimitError(err); ok {
			if cfg.RespectRetryAfter && rle.RetryAfter > 0 {
				delay = rle.RetryAfter
			}
			if rle.Headers.Remaining >= 0 {
				logger.Warn("Rate limit hit",
					slog.Int("remaining", rle.Headers.Remaining),
					slog.Int("limit", rle.Headers.Limit),
					slog.Time("reset", rle.Headers.Reset))
			}
		}

		logger.Warn("Request failed, retrying",
			slog.Int("attempt", attempt+1),
			slog.Duration("delay", delay),
			slog.Any("error", err))
	}

	if cfg.MaxRetries == 0 {
		return result, lastErr
	}
	return result, fmt.Errorf("max retries (%d) exceeded: %w", cfg.MaxRetries, lastErr)
}
