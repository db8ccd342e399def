package normalize

import (
	"fmt"
	"strings"

	"github.com/Lattice-Works/Portland-PD/internal/record"
)

// DefaultSeparator joins concatenated parts.
const DefaultSeparator = " "

// ConcatNormalizer joins several columns into one string.
type ConcatNormalizer struct {
	columns   []string
	separator string
	partial   bool
}

// ConcatOption configures Concat.
type ConcatOption func(*ConcatNormalizer)

// WithSeparator overrides DefaultSeparator.
func WithSeparator(sep string) ConcatOption {
	return func(c *ConcatNormalizer) {
		c.separator = sep
	}
}

// Partial joins the present parts and skips missing ones. Without it any
// missing input makes the result Missing.
func Partial() ConcatOption {
	return func(c *ConcatNormalizer) {
		c.partial = true
	}
}

// Concat builds a normalizer over at least two columns. Parts are trimmed.
func Concat(columns []string, opts ...ConcatOption) (*ConcatNormalizer, error) {
	if len(columns) < 2 {
		return nil, fmt.Errorf("concat: need at least 2 columns, got %d", len(columns))
	}

	c := &ConcatNormalizer{
		columns:   append([]string(nil), columns...),
		separator: DefaultSeparator,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func (c *ConcatNormalizer) Columns() []string {
	return append([]string(nil), c.columns...)
}

// Separator returns the join separator.
func (c *ConcatNormalizer) Separator() string {
	return c.separator
}

// IsPartial reports whether missing parts are skipped.
func (c *ConcatNormalizer) IsPartial() bool {
	return c.partial
}

func (c *ConcatNormalizer) Normalize(fields []record.Field) (Value, error) {
	if len(fields) != len(c.columns) {
		return Missing(), fmt.Errorf("concat: expected %d fields, got %d", len(c.columns), len(fields))
	}

	parts := make([]string, 0, len(fields))

	for _, f := range fields {
		if !f.Present {
			if c.partial {
				continue
			}

			return Missing(), nil
		}

		parts = append(parts, strings.TrimSpace(f.Value))
	}

	if len(parts) == 0 {
		return Missing(), nil
	}

	return Text(strings.Join(parts, c.separator)), nil
}
