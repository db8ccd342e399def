package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"
	"sync"

	"github.com/jfyne/csvd"

	"github.com/Lattice-Works/Portland-PD/internal/record"
)

// ErrConsumed is returned when the records of a CSV source are read twice.
var ErrConsumed = errors.New("csv records already consumed")

const bom = "\ufeff"

// CSV reads a delimited file. The delimiter is detected from the content.
type CSV struct {
	name   string
	reader *csv.Reader
	closer io.Closer
	header *record.Header

	mu       sync.Mutex
	consumed bool
}

// OpenCSV opens the file at path. The caller must Close the source.
func OpenCSV(path string) (*CSV, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	s, err := newCSV(path, f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	s.closer = f

	return s, nil
}

// NewCSV reads from r. The header row is read immediately.
func NewCSV(r io.Reader) (*CSV, error) {
	return newCSV("input", r)
}

func newCSV(name string, r io.Reader) (*CSV, error) {
	reader := csvd.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: no header row", name)
	}

	if err != nil {
		return nil, fmt.Errorf("%s: failed to read header: %w", name, err)
	}

	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], bom)
	}

	return &CSV{name: name, reader: reader, header: record.NewHeader(header)}, nil
}

func (s *CSV) Header() *record.Header {
	return s.header
}

// Records yields the data rows. A malformed row ends the sequence with an
// error that names the row. The sequence can be ranged over only once.
func (s *CSV) Records() iter.Seq2[record.Record, error] {
	return func(yield func(record.Record, error) bool) {
		s.mu.Lock()
		consumed := s.consumed
		s.consumed = true
		s.mu.Unlock()

		if consumed {
			yield(record.Record{}, ErrConsumed)
			return
		}

		for i := 0; ; i++ {
			row, err := s.reader.Read()
			if errors.Is(err, io.EOF) {
				return
			}

			if err != nil {
				yield(record.Record{}, fmt.Errorf("%s: row %d: %w", s.name, i+2, err))
				return
			}

			if !yield(s.header.Record(i, row), nil) {
				return
			}
		}
	}
}

// Close releases the underlying file, if any.
func (s *CSV) Close() error {
	if s.closer == nil {
		return nil
	}

	return s.closer.Close()
}
