package record

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownColumn is returned when a column is not part of the record's header.
var ErrUnknownColumn = errors.New("unknown column")

// Field is one extracted raw value.
type Field struct {
	Column string
	// Value is the raw cell content, untouched.
	Value string
	// Present is false for absent, empty or whitespace-only values.
	Present bool
}

// String returns the raw value, or "<missing>".
func (f Field) String() string {
	if !f.Present {
		return "<missing>"
	}

	return f.Value
}

// Record is one input row.
type Record struct {
	// Index is the zero-based position of the record in its source.
	Index  int
	values map[string]string
	header *Header
}

// New creates an unbound record. Columns absent from values are treated as missing.
func New(index int, values map[string]string) Record {
	return Record{Index: index, values: values}
}

// Header returns the header the record is bound to, or nil.
func (r Record) Header() *Header {
	return r.header
}

// Extract returns the raw value of column.
func (r Record) Extract(column string) (Field, error) {
	if r.header != nil && !r.header.Has(column) {
		return Field{Column: column}, fmt.Errorf("record %d: %w %q", r.Index, ErrUnknownColumn, column)
	}

	v, ok := r.values[column]
	if !ok || strings.TrimSpace(v) == "" {
		return Field{Column: column, Value: v}, nil
	}

	return Field{Column: column, Value: v, Present: true}, nil
}

// ExtractAll extracts several columns at once, failing on the first unknown column.
func (r Record) ExtractAll(columns []string) ([]Field, error) {
	fields := make([]Field, len(columns))

	for i, c := range columns {
		f, err := r.Extract(c)
		if err != nil {
			return nil, err
		}

		fields[i] = f
	}

	return fields, nil
}

// Values returns a copy of the raw column values.
func (r Record) Values() map[string]string {
	out := make(map[string]string, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}

	return out
}
