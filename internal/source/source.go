package source

import (
	"iter"

	"github.com/Lattice-Works/Portland-PD/internal/record"
)

// Source produces the records of one payload.
type Source interface {
	// Header returns the column names, or nil when records are unbound.
	Header() *record.Header
	// Records yields every record once, in input order.
	Records() iter.Seq2[record.Record, error]
}

// Slice serves rows held in memory.
type Slice struct {
	header *record.Header
	rows   [][]string
	maps   []map[string]string
}

// NewSlice returns a source of rows bound to header.
func NewSlice(header []string, rows [][]string) *Slice {
	return &Slice{header: record.NewHeader(header), rows: rows}
}

// Maps returns a source of unbound records.
func Maps(rows ...map[string]string) *Slice {
	return &Slice{maps: rows}
}

func (s *Slice) Header() *record.Header {
	return s.header
}

func (s *Slice) Records() iter.Seq2[record.Record, error] {
	return func(yield func(record.Record, error) bool) {
		if s.header == nil {
			for i, m := range s.maps {
				if !yield(record.New(i, m), nil) {
					return
				}
			}

			return
		}

		for i, row := range s.rows {
			if !yield(s.header.Record(i, row), nil) {
				return
			}
		}
	}
}
