package normalize

import (
	"fmt"
	"strings"

	"github.com/Lattice-Works/Portland-PD/internal/record"
)

// Normalizer turns the raw fields of its declared columns into a Value.
type Normalizer interface {
	// Columns lists the input columns in the order Normalize expects them.
	Columns() []string
	// Normalize returns Missing for missing input. A non-nil error is soft
	// (see IsSoft) and is always paired with Missing.
	Normalize(fields []record.Field) (Value, error)
}

// Apply extracts the normalizer's columns from rec and normalizes them.
// Extraction errors (unknown columns) are returned as is.
func Apply(n Normalizer, rec record.Record) (Value, error) {
	fields, err := rec.ExtractAll(n.Columns())
	if err != nil {
		return Missing(), err
	}

	return n.Normalize(fields)
}

// ColumnNormalizer passes a single column through, trimmed.
type ColumnNormalizer struct {
	column string
}

// Column returns a passthrough normalizer for column.
func Column(column string) *ColumnNormalizer {
	return &ColumnNormalizer{column: column}
}

func (c *ColumnNormalizer) Columns() []string {
	return []string{c.column}
}

func (c *ColumnNormalizer) Normalize(fields []record.Field) (Value, error) {
	f, err := single(c.column, fields)
	if err != nil || !f.Present {
		return Missing(), err
	}

	return Text(strings.TrimSpace(f.Value)), nil
}

// FuncNormalizer adapts a plain function. The function is called only when
// at least one input is present.
type FuncNormalizer struct {
	columns []string
	fn      func(fields []record.Field) (Value, error)
}

// Func wraps fn as a Normalizer reading columns.
func Func(fn func(fields []record.Field) (Value, error), columns ...string) *FuncNormalizer {
	return &FuncNormalizer{columns: append([]string(nil), columns...), fn: fn}
}

func (f *FuncNormalizer) Columns() []string {
	return append([]string(nil), f.columns...)
}

func (f *FuncNormalizer) Normalize(fields []record.Field) (Value, error) {
	if len(fields) != len(f.columns) {
		return Missing(), fmt.Errorf("expected %d fields, got %d", len(f.columns), len(fields))
	}

	for _, field := range fields {
		if field.Present {
			return f.fn(fields)
		}
	}

	return Missing(), nil
}

func single(column string, fields []record.Field) (record.Field, error) {
	if len(fields) != 1 {
		return record.Field{Column: column}, fmt.Errorf("column %q: expected 1 field, got %d", column, len(fields))
	}

	return fields[0], nil
}
