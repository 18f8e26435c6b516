package engine

import (
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultSendRate  rate.Limit = 30
	defaultSendBurst            = 30
)

// config stores resolved engine settings after option application.
type config struct {
	logger    *slog.Logger
	startTime time.Time
	sendRate  rate.Limit
	sendBurst int
}

// Option mutates engine construction configuration.
type Option func(*config)

// defaultConfig returns the settings a plain simulation uses: a frozen epoch
// start and the platform's 30 messages/second global send budget.
func defaultConfig() config {
	return config{
		logger:    slog.Default(),
		startTime: time.Unix(1_700_000_000, 0).UTC(),
		sendRate:  defaultSendRate,
		sendBurst: defaultSendBurst,
	}
}

// WithLogger configures the logger used for dispatch diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithStartTime configures the initial simulated clock instant.
func WithStartTime(start time.Time) Option {
	return func(cfg *config) {
		if !start.IsZero() {
			cfg.startTime = start
		}
	}
}

// WithSendRate configures the global outbound message budget. A zero limit
// disables global throttling; per-chat slow mode is unaffected.
func WithSendRate(limit rate.Limit, burst int) Option {
	return func(cfg *config) {
		cfg.sendRate = limit
		if burst > 0 {
			cfg.sendBurst = burst
		}
	}
}
