package config

import (
	"time"

	"github.com/Lattice-Works/Portland-PD/internal/portland"
	"github.com/Lattice-Works/Portland-PD/internal/sink"
)

// Sink kinds.
const (
	SinkShuttle = "shuttle"
	SinkSQLite  = "sqlite"
	SinkYAML    = "yaml"
)

// Environments.
const (
	EnvLocal      = "local"
	EnvStaging    = "staging"
	EnvProduction = "production"
)

// Log formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// DefaultEnvFile is read when present and no other env file is given.
const DefaultEnvFile = ".env"

// EnvPrefix prefixes environment variables read by Load.
const EnvPrefix = "FLIGHT_"

// Config holds all CLI configuration options.
type Config struct {
	Environment string        `koanf:"environment" validate:"oneof=local staging production"`
	Sink        string        `koanf:"sink" validate:"oneof=shuttle sqlite yaml"`
	Workers     int           `koanf:"workers" validate:"min=1,max=256"`
	TimeZone    string        `koanf:"timezone" validate:"required,timezone"`
	DatePattern string        `koanf:"date_pattern" validate:"required"`
	Shuttle     ShuttleConfig `koanf:"shuttle"`
	SQLite      SQLiteConfig  `koanf:"sqlite"`
	Log         LogConfig     `koanf:"log"`
}

// ShuttleConfig configures the HTTP sink.
type ShuttleConfig struct {
	URL        string        `koanf:"url" validate:"omitempty,url"`
	Token      string        `koanf:"token"`
	BatchSize  int           `koanf:"batch_size" validate:"min=1,max=10000"`
	MaxRetries int           `koanf:"max_retries" validate:"min=0,max=20"`
	Timeout    time.Duration `koanf:"timeout" validate:"min=0"`
}

// SQLiteConfig configures the local database sink.
type SQLiteConfig struct {
	Path string `koanf:"path" validate:"required"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=text json"`
}

// environmentURLs are the integration endpoints per environment.
var environmentURLs = map[string]string{
	EnvLocal:      "http://localhost:8080",
	EnvStaging:    "https://api.staging.openlattice.com",
	EnvProduction: "https://api.openlattice.com",
}

// ShuttleURL returns the configured URL or the default of the environment.
func (c *Config) ShuttleURL() string {
	if c.Shuttle.URL != "" {
		return c.Shuttle.URL
	}

	return environmentURLs[c.Environment]
}

// defaults are the lowest configuration layer.
func defaults() map[string]any {
	flight := portland.DefaultOptions()

	return map[string]any{
		"environment":         EnvLocal,
		"sink":                SinkShuttle,
		"workers":             1,
		"timezone":            flight.TimeZone,
		"date_pattern":        flight.DatePattern,
		"shuttle.batch_size":  sink.DefaultBatchSize,
		"shuttle.max_retries": sink.DefaultMaxRetries,
		"shuttle.timeout":     sink.DefaultTimeout.String(),
		"sqlite.path":         "flights.db",
		"log.level":           "info",
		"log.format":          FormatText,
	}
}
