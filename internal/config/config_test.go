package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lattice-Works/Portland-PD/internal/sink"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func testFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("workers", 1, "")
	fs.String("sink", "", "")
	fs.String("token", "", "")
	fs.Int("shuttle-batch-size", 0, "")
	fs.String("log-level", "", "")
	require.NoError(t, fs.Parse(args))

	return fs
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(LoadOptions{EnvFiles: []string{}})
	require.NoError(t, err)

	assert.Equal(t, EnvLocal, cfg.Environment)
	assert.Equal(t, SinkShuttle, cfg.Sink)
	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, "America/New_York", cfg.TimeZone)
	assert.Equal(t, "yyyy-MM-dd", cfg.DatePattern)
	assert.Equal(t, sink.DefaultBatchSize, cfg.Shuttle.BatchSize)
	assert.Equal(t, sink.DefaultMaxRetries, cfg.Shuttle.MaxRetries)
	assert.Equal(t, sink.DefaultTimeout, cfg.Shuttle.Timeout)
	assert.Equal(t, "flights.db", cfg.SQLite.Path)
	assert.Equal(t, LogConfig{Level: "info", Format: FormatText}, cfg.Log)
	assert.Equal(t, "http://localhost:8080", cfg.ShuttleURL())
}

func TestLoad_Precedence(t *testing.T) {
	file := writeFile(t, "flight.yaml", `
sink: sqlite
workers: 2
timezone: UTC
shuttle:
  batch_size: 50
  url: https://shuttle.example.com
`)
	dotenv := writeFile(t, ".env", "FLIGHT_WORKERS=3\nFLIGHT_SHUTTLE_TIMEOUT=5s\nOTHER=ignored\n")

	t.Setenv("FLIGHT_WORKERS", "4")
	t.Setenv("FLIGHT_LOG_LEVEL", "debug")

	tests := []struct {
		name        string
		flags       []string
		wantWorkers int
		wantBatch   int
	}{
		{name: "env over dotenv and file", wantWorkers: 4, wantBatch: 50},
		{name: "flags over env", flags: []string{"--workers=5", "--shuttle-batch-size=7"}, wantWorkers: 5, wantBatch: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(LoadOptions{File: file, EnvFiles: []string{dotenv}, Flags: testFlags(t, tt.flags...)})
			require.NoError(t, err)

			assert.Equal(t, tt.wantWorkers, cfg.Workers)
			assert.Equal(t, tt.wantBatch, cfg.Shuttle.BatchSize)
			assert.Equal(t, SinkSQLite, cfg.Sink)
			assert.Equal(t, "UTC", cfg.TimeZone)
			assert.Equal(t, 5*time.Second, cfg.Shuttle.Timeout)
			assert.Equal(t, "debug", cfg.Log.Level)
			assert.Equal(t, "https://shuttle.example.com", cfg.ShuttleURL())
		})
	}
}

func TestLoad_DotenvOverFile(t *testing.T) {
	file := writeFile(t, "flight.yaml", "workers: 2\n")
	dotenv := writeFile(t, ".env", "FLIGHT_WORKERS=3\n")

	cfg, err := Load(LoadOptions{File: file, EnvFiles: []string{dotenv}})
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Workers)
}

func TestLoad_UnchangedFlagsIgnored(t *testing.T) {
	file := writeFile(t, "flight.yaml", "workers: 2\n")

	cfg, err := Load(LoadOptions{File: file, EnvFiles: []string{}, Flags: testFlags(t)})
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Workers)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		opts    func(t *testing.T) LoadOptions
		wantErr string
	}{
		{
			name:    "missing file",
			opts:    func(t *testing.T) LoadOptions { return LoadOptions{File: filepath.Join(t.TempDir(), "nope.yaml")} },
			wantErr: "error reading config file",
		},
		{
			name: "missing env file",
			opts: func(t *testing.T) LoadOptions {
				return LoadOptions{EnvFiles: []string{filepath.Join(t.TempDir(), ".env")}}
			},
			wantErr: "cannot read env files",
		},
		{
			name: "unknown sink",
			opts: func(t *testing.T) LoadOptions {
				return LoadOptions{EnvFiles: []string{}, Flags: testFlags(t, "--sink=kafka")}
			},
			wantErr: `key="sink", value="kafka", failed "oneof" validation`,
		},
		{
			name: "bad timezone",
			opts: func(t *testing.T) LoadOptions {
				return LoadOptions{File: writeFile(t, "f.yaml", "timezone: Mars/Olympus\n"), EnvFiles: []string{}}
			},
			wantErr: `key="timezone"`,
		},
		{
			name: "zero workers",
			opts: func(t *testing.T) LoadOptions {
				return LoadOptions{EnvFiles: []string{}, Flags: testFlags(t, "--workers=0")}
			},
			wantErr: `key="workers", value="0", failed "min" validation`,
		},
		{
			name: "nested key",
			opts: func(t *testing.T) LoadOptions {
				return LoadOptions{File: writeFile(t, "f.yaml", "log:\n  format: xml\n"), EnvFiles: []string{}}
			},
			wantErr: `key="log.format"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.opts(t))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_CheckSink(t *testing.T) {
	cfg := &Config{Sink: SinkShuttle, Environment: EnvLocal}
	err := cfg.CheckSink()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shuttle.token")

	cfg.Shuttle.Token = "secret"
	require.NoError(t, cfg.CheckSink())

	cfg.Environment = "moon"
	require.Error(t, cfg.CheckSink())

	assert.NoError(t, (&Config{Sink: SinkYAML}).CheckSink())
}

func TestKeys(t *testing.T) {
	tests := []struct {
		in   string
		want string
		fn   func(string) string
	}{
		{in: "FLIGHT_WORKERS", want: "workers", fn: envKey},
		{in: "FLIGHT_DATE_PATTERN", want: "date_pattern", fn: envKey},
		{in: "FLIGHT_SHUTTLE_BATCH_SIZE", want: "shuttle.batch_size", fn: envKey},
		{in: "FLIGHT_SQLITE_PATH", want: "sqlite.path", fn: envKey},
		{in: "FLIGHT_LOG_FORMAT", want: "log.format", fn: envKey},
		{in: "token", want: "shuttle.token", fn: flagKey},
		{in: "shuttle-max-retries", want: "shuttle.max_retries", fn: flagKey},
		{in: "date-pattern", want: "date_pattern", fn: flagKey},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fn(tt.in))
		})
	}
}

func TestLogConfig_NewLogger(t *testing.T) {
	var buf bytes.Buffer

	logger, err := LogConfig{Level: "warn", Format: FormatJSON}.NewLogger(&buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	_, err = LogConfig{Level: "loud"}.NewLogger(&buf)
	require.Error(t, err)

	_, err = LogConfig{Level: "info", Format: "xml"}.NewLogger(&buf)
	require.Error(t, err)
}
