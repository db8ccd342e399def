package portland

import (
	_ "embed"
	"fmt"

	"github.com/Lattice-Works/Portland-PD/internal/mapping"
	"github.com/Lattice-Works/Portland-PD/internal/schema"
)

//go:embed flight.yaml
var flightYAML []byte

// FileBytes returns the embedded flight file.
func FileBytes() []byte {
	return append([]byte(nil), flightYAML...)
}

// File parses the embedded flight file.
func File() (*mapping.FlightFile, error) {
	ff, err := mapping.Parse(flightYAML)
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded flight: %w", err)
	}

	return ff, nil
}

// CompileFile builds the flight from the embedded flight file. Non-empty
// options override the file settings.
func CompileFile(opts Options) (*schema.Schema, error) {
	ff, err := File()
	if err != nil {
		return nil, err
	}

	ff.Settings = mapping.Settings{TimeZone: opts.TimeZone, DatePattern: opts.DatePattern}.Or(ff.Settings)

	return mapping.Compile(ff, nil)
}
