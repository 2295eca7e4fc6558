package vatsim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultStatusURL is the status document listing the live data feed mirrors
	DefaultStatusURL = "https://status.vatsim.net/status.json"

	// DefaultRatingsURL is the base of the per-member ratings API
	DefaultRatingsURL = "https://api.vatsim.net/api/ratings"

	// DefaultStatsURL is the base of the per-member statistics web page
	DefaultStatsURL = "https://stats.vatsim.net/stats"

	// DefaultUserAgent identifies this client to the VATSIM APIs
	DefaultUserAgent = "github.com/unklstewy/vatsim-online"

	// DefaultTimeout for API requests
	DefaultTimeout = 10 * time.Second
)

// Config contains configuration for the VATSIM client.
type Config struct {
	StatusURL  string
	RatingsURL string
	StatsURL   string
	UserAgent  string
	Timeout    time.Duration

	// RatingsRequestsPerSecond limits calls to the ratings API.
	// 0 disables rate limiting.
	RatingsRequestsPerSecond float64

	// RatingsBurst is the number of ratings calls allowed back to back (minimum 1)
	RatingsBurst int

	// Retry controls how status discovery is retried in Connect
	Retry RetryConfig

	Logger *slog.Logger
}

// Client talks to the VATSIM status, live data and ratings endpoints.
// It implements LiveDataSource and RatingTimesSource and is safe for
// concurrent use once Connect has returned.
type Client struct {
	statusURL  string
	ratingsURL string
	statsURL   string
	userAgent  string

	httpClient    *http.Client
	ratingLimiter *rate.Limiter
	retry         RetryConfig
	logger        *slog.Logger

	mu      sync.RWMutex
	dataURL string
}

// NewClient creates a new VATSIM client. No requests are made until Connect.
func NewClient(cfg Config) *Client {
	if cfg.StatusURL == "" {
		cfg.StatusURL = DefaultStatusURL
	}
	if cfg.RatingsURL == "" {
		cfg.RatingsURL = DefaultRatingsURL
	}
	if cfg.StatsURL == "" {
		cfg.StatsURL = DefaultStatsURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RatingsBurst < 1 {
		cfg.RatingsBurst = 1
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}

	limit := rate.Inf
	if cfg.RatingsRequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RatingsRequestsPerSecond)
	}

	return &Client{
		statusURL:  cfg.StatusURL,
		ratingsURL: cfg.RatingsURL,
		statsURL:   cfg.StatsURL,
		userAgent:  cfg.UserAgent,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		ratingLimiter: rate.NewLimiter(limit, cfg.RatingsBurst),
		retry:         cfg.Retry,
		logger:        cfg.Logger,
	}
}

// statusResponse is the subset of the status document that we use.
type statusResponse struct {
	Data struct {
		V3 []string `json:"v3"`
	} `json:"data"`
}

// liveDataResponse is the subset of the v3 live data feed that we use.
type liveDataResponse struct {
	General struct {
		Update string `json:"update"`
	} `json:"general"`
	Pilots []Pilot `json:"pilots"`
}

// Connect queries the status document and picks one of the advertised live
// data feed URLs at random. Failures are retried according to Config.Retry.
func (c *Client) Connect(ctx context.Context) error {
	url, err := RetryWithBackoff(ctx, c.retry, c.logger, func() (string, error) {
		return c.discoverDataURL(ctx)
	})
	if err != nil {
		return fmt.Errorf("connect to VATSIM: %w", err)
	}

	c.mu.Lock()
	c.dataURL = url
	c.mu.Unlock()

	c.logger.Info("Connected to VATSIM", slog.String("data_url", url))
	return nil
}

func (c *Client) discoverDataURL(ctx context.Context) (string, error) {
	var status statusResponse
	if err := c.getJSON(ctx, "status", c.statusURL, &status); err != nil {
		return "", err
	}
	if len(status.Data.V3) == 0 {
		return "", &DecodeError{Endpoint: "status", Err: fmt.Errorf("no v3 URLs returned")}
	}
	return status.Data.V3[rand.IntN(len(status.Data.V3))], nil
}

// DataURL returns the live data feed URL chosen by Connect, or "" before Connect.
func (c *Client) DataURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dataURL
}

// GetOnlinePilots returns every pilot in the current live data feed.
func (c *Client) GetOnlinePilots(ctx context.Context) ([]Pilot, error) {
	url := c.DataURL()
	if url == "" {
		return nil, ErrNotConnected
	}

	var data liveDataResponse
	if err := c.getJSON(ctx, "live data", url, &data); err != nil {
		return nil, err
	}

	c.logger.Debug("Fetched live data",
		slog.String("update", data.General.Update),
		slog.Int("pilots", len(data.Pilots)))
	return data.Pilots, nil
}

// GetRatingTimes returns a member's cumulative time on the network.
// Calls are throttled by the ratings rate limiter.
func (c *Client) GetRatingTimes(ctx context.Context, cid int) (RatingTimes, error) {
	if err := c.ratingLimiter.Wait(ctx); err != nil {
		return RatingTimes{}, fmt.Errorf("rate limiter: %w", err)
	}

	var times RatingTimes
	url := fmt.Sprintf("%s/%d/rating_times", c.ratingsURL, cid)
	if err := c.getJSON(ctx, "ratings", url, &times); err != nil {
		return RatingTimes{}, err
	}
	return times, nil
}

// StatsURL returns the web page showing a member's network statistics.
func (c *Client) StatsURL(cid int) string {
	return fmt.Sprintf("%s/%d", c.statsURL, cid)
}

// getJSON issues a GET request and decodes a JSON response into out.
func (c *Client) getJSON(ctx context.Context, endpoint, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s request: %w", ErrServiceUnreachable, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return &RateLimitError{
			Endpoint:   endpoint,
			RetryAfter: parseRetryAfter(resp.Header),
			Headers:    extractRateLimitHeaders(resp.Header),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &DecodeError{Endpoint: endpoint, Err: err}
	}
	return nil
}
