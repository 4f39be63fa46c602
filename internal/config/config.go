// Package config defines host configuration and its loading hooks.
//
// Conventions:
// - New() returns a Config populated with defaults.
// - Load(ctx) layers defaults, an optional YAML file and CHONGUS_* env vars.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"slices"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory action queue.
	QueueSize int `koanf:"queue_size"`

	// DedupeSize bounds how many action ids are remembered for idempotency.
	DedupeSize int `koanf:"dedupe_size"`

	// PlayerName names the player of a fresh game.
	PlayerName string `koanf:"player_name"`

	// CollectiblePrice is the ChongJuice price of one generated collectible.
	CollectiblePrice float64 `koanf:"collectible_price"`

	// ExpeditionMaxTeamSize caps the team sent on one expedition.
	ExpeditionMaxTeamSize int `koanf:"expedition_max_team_size"`

	// TickIntervalMS is the Driver period in milliseconds.
	TickIntervalMS int `koanf:"tick_interval_ms"`

	// RandomSeed seeds the collectible generator; 0 seeds from the clock.
	RandomSeed int64 `koanf:"random_seed"`

	// MaxContributorsLimit caps GET /community/contributors?limit.
	MaxContributorsLimit int `koanf:"max_contributors_limit"`

	// RateLimitRPS and RateLimitBurst throttle POST /actions.
	RateLimitRPS   float64 `koanf:"rate_limit_rps"`
	RateLimitBurst int     `koanf:"rate_limit_burst"`

	// SnapshotPath enables SQLite snapshots when non-empty.
	SnapshotPath string `koanf:"snapshot_path"`

	// SnapshotIntervalMS is how often the state is snapshotted.
	SnapshotIntervalMS int `koanf:"snapshot_interval_ms"`

	// MetricsNamespace and MetricsSubsystem prefix every Prometheus metric.
	MetricsNamespace string `koanf:"metrics_namespace"`
	MetricsSubsystem string `koanf:"metrics_subsystem"`

	// MetricsBuckets overrides the latency histogram buckets, in milliseconds.
	MetricsBuckets []float64 `koanf:"metrics_buckets"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		LogFormat:             "text",
		Addr:                  ":9080",
		QueueSize:             1024,
		DedupeSize:            10_000,
		PlayerName:            "Player",
		CollectiblePrice:      1000,
		ExpeditionMaxTeamSize: 3,
		TickIntervalMS:        1000,
		RandomSeed:            0,
		MaxContributorsLimit:  100,
		RateLimitRPS:          50,
		RateLimitBurst:        100,
		SnapshotPath:          "",
		SnapshotIntervalMS:    30_000,
		MetricsNamespace:      "chongus",
		MetricsSubsystem:      "game",
	}
}

// TickInterval returns the Driver period.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMS) * time.Millisecond
}

// SnapshotInterval returns the snapshot period.
func (c *Config) SnapshotInterval() time.Duration {
	return time.Duration(c.SnapshotIntervalMS) * time.Millisecond
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.QueueSize < 1:
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	case c.DedupeSize < 1:
		return fmt.Errorf("%w: dedupe_size must be positive", ErrInvalidConfig)
	case !(c.CollectiblePrice > 0):
		return fmt.Errorf("%w: collectible_price must be positive", ErrInvalidConfig)
	case c.ExpeditionMaxTeamSize < 1:
		return fmt.Errorf("%w: expedition_max_team_size must be at least 1", ErrInvalidConfig)
	case c.TickIntervalMS < 1:
		return fmt.Errorf("%w: tick_interval_ms must be positive", ErrInvalidConfig)
	case c.MaxContributorsLimit < 1:
		return fmt.Errorf("%w: max_contributors_limit must be positive", ErrInvalidConfig)
	case !(c.RateLimitRPS > 0) || c.RateLimitBurst < 1:
		return fmt.Errorf("%w: rate limit must be positive", ErrInvalidConfig)
	case c.SnapshotPath != "" && c.SnapshotIntervalMS < 1:
		return fmt.Errorf("%w: snapshot_interval_ms must be positive", ErrInvalidConfig)
	case c.MetricsNamespace == "":
		return fmt.Errorf("%w: metrics_namespace must not be empty", ErrInvalidConfig)
	case !slices.IsSorted(c.MetricsBuckets):
		return fmt.Errorf("%w: metrics_buckets must be ascending", ErrInvalidConfig)
	}
	return nil
}
