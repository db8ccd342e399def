package launch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/Lattice-Works/Portland-PD/internal/engine"
	"github.com/Lattice-Works/Portland-PD/internal/schema"
	"github.com/Lattice-Works/Portland-PD/internal/sink"
	"github.com/Lattice-Works/Portland-PD/internal/source"
)

const (
	flightIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	FlightIDLength   = 16
)

// NewFlightID returns a random flight identifier.
func NewFlightID() string {
	return gonanoid.MustGenerate(flightIDAlphabet, FlightIDLength)
}

// Options configures Run.
type Options struct {
	// FlightID identifies the launch. Generated when empty.
	FlightID string
	Engine   engine.Config
	// Logger is the structured logger (optional, uses discard if nil).
	Logger *slog.Logger
}

// Result is the outcome of Run.
type Result struct {
	Report sink.Report
	Stats  engine.Snapshot
}

// Run maps every record of src with s and launches the graphs into dst.
// Header problems fail before anything is sent. Sources without a header
// are not checked up front.
func Run(ctx context.Context, src source.Source, s *schema.Schema, dst sink.Sink, opts Options) (Result, error) {
	if src == nil || s == nil || dst == nil {
		return Result{}, errors.New("launch requires a source, a schema and a sink")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if header := src.Header(); header != nil {
		if err := s.CheckHeader(header); err != nil {
			return Result{}, fmt.Errorf("input does not match flight %s: %w", s.Name(), err)
		}
	}

	id := opts.FlightID
	if id == "" {
		id = NewFlightID()
	}

	cfg := opts.Engine
	if cfg.Logger == nil {
		cfg.Logger = logger
	}

	mapper := engine.New(s, cfg)

	flight := &sink.Flight{
		ID:     id,
		Schema: s,
		Graphs: mapper.Stream(ctx, src.Records()),
	}

	logger.Info("flight started", slog.String("flight", s.Name()), slog.String("id", id), slog.Int("workers", cfg.Workers))

	report, err := dst.Launch(ctx, flight)

	result := Result{Report: report, Stats: mapper.Stats()}

	if err != nil {
		logger.Error("flight failed", slog.String("id", id), slog.Any("error", err))
		return result, fmt.Errorf("flight %s failed: %w", s.Name(), err)
	}

	logger.Info("flight finished",
		slog.String("id", id),
		slog.Int("records", report.Records),
		slog.Int("entities", report.Entities),
		slog.Int("associations", report.Associations),
		slog.Int("skipped", report.Skipped),
		slog.Int("parse_errors", result.Stats.ParseErrors),
		slog.Duration("duration", report.Duration()),
	)

	return result, nil
}
