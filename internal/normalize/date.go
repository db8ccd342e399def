package normalize

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // zones must resolve on hosts without a zoneinfo database

	"github.com/relvacode/iso8601"

	"github.com/Lattice-Works/Portland-PD/internal/record"
)

// DateNormalizer parses a date or timestamp column in a fixed time zone.
type DateNormalizer struct {
	column  string
	pattern string
	layout  string
	loc     *time.Location
}

// Date builds a date normalizer. zone is an IANA name ("" means UTC) and
// pattern is a Java-style pattern, a Go layout or PatternISO8601. Values
// without an explicit offset are interpreted in zone.
func Date(column, zone, pattern string) (*DateNormalizer, error) {
	if column == "" {
		return nil, errors.New("date: column is required")
	}

	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("date %q: failed to load time zone: %w", column, err)
	}

	d := &DateNormalizer{column: column, pattern: pattern, loc: loc}

	if pattern != PatternISO8601 {
		d.layout, err = Layout(pattern)
		if err != nil {
			return nil, fmt.Errorf("date %q: %w", column, err)
		}
	}

	return d, nil
}

func (d *DateNormalizer) Columns() []string {
	return []string{d.column}
}

// Pattern returns the pattern the normalizer was built with.
func (d *DateNormalizer) Pattern() string {
	return d.pattern
}

// Location returns the time zone used for values without an offset.
func (d *DateNormalizer) Location() *time.Location {
	return d.loc
}

func (d *DateNormalizer) Normalize(fields []record.Field) (Value, error) {
	f, err := single(d.column, fields)
	if err != nil || !f.Present {
		return Missing(), err
	}

	raw := strings.TrimSpace(f.Value)

	var t time.Time
	if d.layout == "" {
		t, err = iso8601.ParseInLocation([]byte(raw), d.loc)
	} else {
		t, err = time.ParseInLocation(d.layout, raw, d.loc)
	}

	if err != nil {
		return Missing(), &ParseError{Column: d.column, Value: f.Value, Expected: "date " + d.pattern, Err: err}
	}

	return Timestamp(t), nil
}
