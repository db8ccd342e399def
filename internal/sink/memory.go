package sink

import (
	"context"
	"fmt"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/Lattice-Works/Portland-PD/internal/engine"
)

// Memory keeps every graph it receives.
type Memory struct {
	mu      sync.Mutex
	clock   clockwork.Clock
	graphs  []*engine.Graph
	reports []Report
}

// NewMemory returns an empty memory sink. A nil clock means the real clock.
func NewMemory(clock clockwork.Clock) *Memory {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &Memory{clock: clock}
}

func (m *Memory) Launch(ctx context.Context, flight *Flight) (Report, error) {
	report := newReport(flight, m.clock.Now())

	for g, err := range flight.Graphs {
		if err != nil {
			return report, fmt.Errorf("flight %s: %w", flight.ID, err)
		}

		if err := ctx.Err(); err != nil {
			return report, err
		}

		report.add(g)

		m.mu.Lock()
		m.graphs = append(m.graphs, g)
		m.mu.Unlock()
	}

	report.Batches = 1
	report.FinishedAt = m.clock.Now()

	m.mu.Lock()
	m.reports = append(m.reports, report)
	m.mu.Unlock()

	return report, nil
}

// Graphs returns the graphs received so far.
func (m *Memory) Graphs() []*engine.Graph {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]*engine.Graph(nil), m.graphs...)
}

// Reports returns the reports of completed launches.
func (m *Memory) Reports() []Report {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]Report(nil), m.reports...)
}

func (m *Memory) Close() error {
	return nil
}
