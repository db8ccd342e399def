package mapping

import (
	"errors"
	"fmt"

	"github.com/Lattice-Works/Portland-PD/internal/normalize"
)

// Defaults applied to date normalizers when neither the normalizer nor the
// file settings name a time zone or pattern.
const (
	DefaultTimeZone    = "UTC"
	DefaultDatePattern = normalize.PatternISO8601
)

// Or fills empty settings from fallback.
func (s Settings) Or(fallback Settings) Settings {
	if s.TimeZone == "" {
		s.TimeZone = fallback.TimeZone
	}

	if s.DatePattern == "" {
		s.DatePattern = fallback.DatePattern
	}

	return s
}

// DateSettings resolves the time zone and pattern of a date normalizer: its
// own values first, then the file settings, then the package defaults.
func (def NormalizerDef) DateSettings(file Settings) Settings {
	return Settings{TimeZone: def.TimeZone, DatePattern: def.Pattern}.
		Or(file).
		Or(Settings{TimeZone: DefaultTimeZone, DatePattern: DefaultDatePattern})
}

// BuildNormalizer constructs the normalizer a definition describes.
func BuildNormalizer(def NormalizerDef, settings Settings) (normalize.Normalizer, error) {
	if len(def.Column) == 0 {
		return nil, errors.New("no column given")
	}

	if def.Kind != KindConcat && len(def.Column) > 1 {
		return nil, fmt.Errorf("kind %s reads a single column, got %d", def.Kind, len(def.Column))
	}

	column := def.Column.First()

	switch def.Kind {
	case KindColumn:
		return normalize.Column(column), nil
	case KindEnum:
		return built(normalize.Enum(column, def.Table, def.Missing...))
	case KindConcat:
		var opts []normalize.ConcatOption
		if def.Separator != "" {
			opts = append(opts, normalize.WithSeparator(def.Separator))
		}

		if def.Partial {
			opts = append(opts, normalize.Partial())
		}

		return built(normalize.Concat(def.Column, opts...))
	case KindDate:
		s := def.DateSettings(settings)

		return built(normalize.Date(column, s.TimeZone, s.DatePattern))
	case KindInt:
		return normalize.Int(column), nil
	case KindCase:
		return built(normalize.Case(column, def.Mode))
	default:
		return nil, fmt.Errorf("unknown normalizer kind %q", def.Kind)
	}
}

// built keeps a failed constructor from producing a non-nil interface.
func built[N normalize.Normalizer](n N, err error) (normalize.Normalizer, error) {
	if err != nil {
		return nil, err
	}

	return n, nil
}

// BuildRegistry returns a registry holding the normalizers of base followed
// by those declared in the file. Definitions that fail to build are reported
// and skipped.
func BuildRegistry(ff *FlightFile, base *normalize.Registry) (*normalize.Registry, []error) {
	registry := normalize.NewRegistry()

	var errs []error

	if base != nil {
		for _, name := range base.Names() {
			n, _ := base.Get(name)
			if err := registry.Register(name, n); err != nil {
				errs = append(errs, err)
			}
		}
	}

	for _, def := range ff.Normalizers {
		n, err := BuildNormalizer(def, ff.Settings)
		if err != nil {
			errs = append(errs, fmt.Errorf("normalizer %q: %w", def.Name, err))
			continue
		}

		if err := registry.Register(def.Name, n); err != nil {
			errs = append(errs, err)
		}
	}

	return registry, errs
}
