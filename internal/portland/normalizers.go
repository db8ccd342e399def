package portland

import (
	"fmt"

	"github.com/Lattice-Works/Portland-PD/internal/normalize"
)

// Source columns read by normalizers.
const (
	ColumnRace         = "ARRESTEE RACE (11) eng"
	ColumnEthnicity    = "ARRESTEE ETHNIC (32) eng"
	ColumnSex          = "ARRESTEE SEX (10) eng"
	ColumnStreetNumber = "Arrest Location St#"
	ColumnStreetName   = "Arrest Location Whole Street Name"
	ColumnBirthDate    = "Arrestee DOB Date"
	ColumnAge          = "Arrestee Age"
)

// Normalizer names.
const (
	StandardRace      = "standardRace"
	StandardEthnicity = "standardEthnicity"
	StandardSex       = "standardSex"
	StandardAddress   = "standardAddress"
	BirthDate         = "birthDate"
	AgeAtEvent        = "ageAtEvent"
)

// Options are the settings the flight is built with.
type Options struct {
	TimeZone    string
	DatePattern string
}

// DefaultOptions matches the extract: dates are yyyy-MM-dd in Eastern time.
func DefaultOptions() Options {
	return Options{TimeZone: "America/New_York", DatePattern: "yyyy-MM-dd"}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()

	if o.TimeZone == "" {
		o.TimeZone = d.TimeZone
	}

	if o.DatePattern == "" {
		o.DatePattern = d.DatePattern
	}

	return o
}

// Normalizers returns the flight's named normalizers.
func Normalizers(opts Options) (*normalize.Registry, error) {
	opts = opts.withDefaults()

	race, err := normalize.Enum(ColumnRace, map[string]string{
		"ASIAN OR PACIFIC ISLANDER": "asian/pacisland",
		"BLACK":                     "black",
		"WHITE":                     "white",
	}, "UNKNOWN", "HISPANIC", "AMERICAN INDIAN / ALASKAN NATIVE", "* Race *")
	if err != nil {
		return nil, fmt.Errorf("failed to build %s: %w", StandardRace, err)
	}

	ethnicity, err := normalize.Enum(ColumnEthnicity, map[string]string{
		"HISPANIC":    "hispanic",
		"NONHISPANIC": "nonhispanic",
	}, "UNKNOWN", "* Ethnic Background *")
	if err != nil {
		return nil, fmt.Errorf("failed to build %s: %w", StandardEthnicity, err)
	}

	sex, err := normalize.Enum(ColumnSex, map[string]string{
		"FEMALE": "F",
		"MALE":   "M",
	}, "UNKNOWN")
	if err != nil {
		return nil, fmt.Errorf("failed to build %s: %w", StandardSex, err)
	}

	address, err := normalize.Concat([]string{ColumnStreetNumber, ColumnStreetName})
	if err != nil {
		return nil, fmt.Errorf("failed to build %s: %w", StandardAddress, err)
	}

	dob, err := normalize.Date(ColumnBirthDate, opts.TimeZone, opts.DatePattern)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s: %w", BirthDate, err)
	}

	reg := normalize.NewRegistry()

	for _, entry := range []struct {
		name string
		n    normalize.Normalizer
	}{
		{StandardRace, race},
		{StandardEthnicity, ethnicity},
		{StandardSex, sex},
		{StandardAddress, address},
		{BirthDate, dob},
		{AgeAtEvent, normalize.Int(ColumnAge)},
	} {
		if err := reg.Register(entry.name, entry.n); err != nil {
			return nil, err
		}
	}

	return reg, nil
}
