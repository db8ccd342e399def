package sink

import (
	"context"
	"iter"
	"time"

	"github.com/Lattice-Works/Portland-PD/internal/engine"
	"github.com/Lattice-Works/Portland-PD/internal/schema"
)

// Flight is one unit of delivery: a schema and the graphs mapped with it.
type Flight struct {
	// ID identifies this launch.
	ID     string
	Schema *schema.Schema
	// Graphs is consumed once. An error ends the flight.
	Graphs iter.Seq2[*engine.Graph, error]
}

// Name returns the schema name.
func (f *Flight) Name() string {
	return f.Schema.Name()
}

// Sink delivers flights.
type Sink interface {
	Launch(ctx context.Context, flight *Flight) (Report, error)
	Close() error
}

// Report summarizes one launch.
type Report struct {
	FlightID     string
	Flight       string
	Records      int
	Entities     int
	Associations int
	// Skipped counts instances that were not delivered because they are
	// invalid or empty.
	Skipped    int
	Batches    int
	StartedAt  time.Time
	FinishedAt time.Time
}

// Duration returns how long the launch took.
func (r Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// add counts the instances of g.
func (r *Report) add(g *engine.Graph) {
	r.Records++

	for _, e := range g.Entities {
		if e.Status == engine.StatusValid {
			r.Entities++
		} else {
			r.Skipped++
		}
	}

	for _, a := range g.Associations {
		if a.Status == engine.StatusValid {
			r.Associations++
		} else {
			r.Skipped++
		}
	}
}

func newReport(f *Flight, now time.Time) Report {
	return Report{FlightID: f.ID, Flight: f.Name(), StartedAt: now}
}
