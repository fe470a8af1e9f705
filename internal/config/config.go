// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every runtime setting. No process-wide mutable state: the
// parsed value is passed explicitly into the components that need it.
type Config struct {
	// DaemonURL is the daemon's REST base address.
	DaemonURL string `env:"LNWALLET_DAEMON_URL" envDefault:"http://localhost:10553"`

	// FeedURL is the daemon's websocket event endpoint. Empty disables
	// push-triggered refreshes; the timer still runs.
	FeedURL string `env:"LNWALLET_FEED_URL" envDefault:""`

	// RequestTimeout applies per daemon request.
	RequestTimeout time.Duration `env:"LNWALLET_REQUEST_TIMEOUT" envDefault:"30s"`

	// RefreshInterval is the periodic reconciliation tick.
	RefreshInterval time.Duration `env:"LNWALLET_REFRESH_INTERVAL" envDefault:"10s"`

	// MetricsAddr serves the Prometheus /metrics endpoint.
	MetricsAddr string `env:"LNWALLET_METRICS_ADDR" envDefault:":9235"`

	// CentsPerCoin is the fiat exchange rate; 0 means no known rate and
	// conversions report it unavailable.
	CentsPerCoin int64 `env:"LNWALLET_CENTS_PER_COIN" envDefault:"0"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
