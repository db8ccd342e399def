package engine

import (
	"maps"
	"sync"
)

// Counts tallies instance outcomes for one declaration.
type Counts struct {
	Valid   int
	Invalid int
	Empty   int
}

// Snapshot is a point-in-time copy of Stats.
type Snapshot struct {
	Records     int
	ParseErrors int
	// Unmapped counts enum misses by "normalizer: value". Unnamed
	// normalizers are counted by column.
	Unmapped map[string]int
	// Declarations counts outcomes by entity or association name.
	Declarations map[string]Counts
}

// Stats collects mapping counters. It is safe for concurrent use.
type Stats struct {
	mu   sync.Mutex
	snap Snapshot
}

func newStats() *Stats {
	return &Stats{snap: Snapshot{
		Unmapped:     make(map[string]int),
		Declarations: make(map[string]Counts),
	}}
}

func (s *Stats) record(g *Graph, parseErrors int, unmapped []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap.Records++
	s.snap.ParseErrors += parseErrors

	for _, u := range unmapped {
		s.snap.Unmapped[u]++
	}

	for _, e := range g.Entities {
		s.count(e.Type.Name, e.Status)
	}

	for _, a := range g.Associations {
		s.count(a.Type.Name, a.Status)
	}
}

func (s *Stats) count(name string, status Status) {
	c := s.snap.Declarations[name]

	switch status {
	case StatusValid:
		c.Valid++
	case StatusInvalid:
		c.Invalid++
	case StatusEmpty:
		c.Empty++
	}

	s.snap.Declarations[name] = c
}

// Snapshot returns a copy of the current counters.
func (s *Stats) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		Records:      s.snap.Records,
		ParseErrors:  s.snap.ParseErrors,
		Unmapped:     maps.Clone(s.snap.Unmapped),
		Declarations: maps.Clone(s.snap.Declarations),
	}
}
