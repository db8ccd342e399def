package normalize

import (
	"errors"
	"fmt"
	"maps"

	"github.com/Lattice-Works/Portland-PD/internal/common"
	"github.com/Lattice-Works/Portland-PD/internal/record"
)

// EnumNormalizer remaps raw values through a lookup table.
type EnumNormalizer struct {
	column    string
	table     map[string]string
	sentinels map[string]struct{}
}

// Enum builds a remapping normalizer. Lookups are exact and case-sensitive;
// several raw values may map to the same output. Values listed in missing
// map to Missing without error. Any other unmapped value yields Missing and
// an *UnmappedValueError.
func Enum(column string, table map[string]string, missing ...string) (*EnumNormalizer, error) {
	if column == "" {
		return nil, errors.New("enum: column is required")
	}

	if len(table) == 0 {
		return nil, fmt.Errorf("enum %q: table is empty", column)
	}

	e := &EnumNormalizer{
		column:    column,
		table:     maps.Clone(table),
		sentinels: make(map[string]struct{}, len(missing)),
	}

	for _, k := range common.SortedKeys(table) {
		if table[k] == "" {
			return nil, fmt.Errorf("enum %q: value %q maps to an empty string, list it as missing instead", column, k)
		}
	}

	for _, s := range missing {
		if _, ok := table[s]; ok {
			return nil, fmt.Errorf("enum %q: value %q is both mapped and missing", column, s)
		}

		e.sentinels[s] = struct{}{}
	}

	return e, nil
}

func (e *EnumNormalizer) Columns() []string {
	return []string{e.column}
}

func (e *EnumNormalizer) Normalize(fields []record.Field) (Value, error) {
	f, err := single(e.column, fields)
	if err != nil || !f.Present {
		return Missing(), err
	}

	if out, ok := e.table[f.Value]; ok {
		return Text(out), nil
	}

	if _, ok := e.sentinels[f.Value]; ok {
		return Missing(), nil
	}

	return Missing(), &UnmappedValueError{Column: e.column, Value: f.Value}
}

// Table returns a copy of the lookup table.
func (e *EnumNormalizer) Table() map[string]string {
	return maps.Clone(e.table)
}

// Sentinels returns the values that map to Missing, sorted.
func (e *EnumNormalizer) Sentinels() []string {
	return common.SortedKeys(e.sentinels)
}
