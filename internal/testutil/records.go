package testutil

import (
	"iter"

	"github.com/Lattice-Works/Portland-PD/internal/record"
)

// Records yields rows bound to header, indexed from zero.
func Records(header []string, rows ...[]string) iter.Seq2[record.Record, error] {
	h := record.NewHeader(header)

	return func(yield func(record.Record, error) bool) {
		for i, row := range rows {
			if !yield(h.Record(i, row), nil) {
				return
			}
		}
	}
}
