package cli

import (
	"fmt"
	"io"

	"github.com/Lattice-Works/Portland-PD/internal/config"
	"github.com/Lattice-Works/Portland-PD/internal/mapping"
	"github.com/Lattice-Works/Portland-PD/internal/portland"
	"github.com/Lattice-Works/Portland-PD/internal/schema"
	"github.com/Lattice-Works/Portland-PD/internal/sink"
)

// flightDefinition returns the flight definition in use: the --flight file or the
// embedded Portland PD flight.
func (a *app) flightDefinition() (*mapping.FlightFile, error) {
	if a.flightFile == "" {
		return portland.File()
	}

	return mapping.LoadFile(a.flightFile)
}

// schema builds the flight schema. Settings declared in a flight file win
// over the configured time zone and date pattern.
func (a *app) schema() (*schema.Schema, error) {
	if a.flightFile == "" {
		return portland.Schema(portland.Options{TimeZone: a.cfg.TimeZone, DatePattern: a.cfg.DatePattern})
	}

	ff, err := mapping.LoadFile(a.flightFile)
	if err != nil {
		return nil, err
	}

	ff.Settings = ff.Settings.Or(mapping.Settings{TimeZone: a.cfg.TimeZone, DatePattern: a.cfg.DatePattern})

	return mapping.Compile(ff, nil)
}

// sink opens the configured sink. out receives YAML documents.
func (a *app) sink(out io.Writer) (sink.Sink, error) {
	switch a.cfg.Sink {
	case config.SinkShuttle:
		if err := a.cfg.CheckSink(); err != nil {
			return nil, err
		}

		return sink.NewShuttle(sink.ShuttleConfig{
			URL:        a.cfg.ShuttleURL(),
			Token:      a.cfg.Shuttle.Token,
			BatchSize:  a.cfg.Shuttle.BatchSize,
			MaxRetries: a.cfg.Shuttle.MaxRetries,
			Timeout:    a.cfg.Shuttle.Timeout,
			Logger:     a.logger,
		})
	case config.SinkSQLite:
		return sink.OpenSQLite(sink.SQLiteConfig{Path: a.cfg.SQLite.Path, Logger: a.logger})
	case config.SinkYAML:
		return sink.NewYAML(out, nil), nil
	default:
		return nil, fmt.Errorf("unknown sink %q", a.cfg.Sink)
	}
}
