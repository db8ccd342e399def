package normalize

import (
	"strconv"
	"strings"

	"github.com/Lattice-Works/Portland-PD/internal/record"
)

// IntNormalizer parses a base-10 integer.
type IntNormalizer struct {
	column string
}

// Int returns an integer normalizer. Leading zeros are decimal ("08" is 8).
func Int(column string) *IntNormalizer {
	return &IntNormalizer{column: column}
}

func (n *IntNormalizer) Columns() []string {
	return []string{n.column}
}

func (n *IntNormalizer) Normalize(fields []record.Field) (Value, error) {
	f, err := single(n.column, fields)
	if err != nil || !f.Present {
		return Missing(), err
	}

	v, err := strconv.ParseInt(strings.TrimSpace(f.Value), 10, 64)
	if err != nil {
		return Missing(), &ParseError{Column: n.column, Value: f.Value, Expected: "integer", Err: err}
	}

	return Integer(v), nil
}
