package schema

import (
	"fmt"

	"github.com/Lattice-Works/Portland-PD/internal/diagnostic"
)

// Error is returned when a schema is invalid. It carries every problem found.
type Error struct {
	Schema      string
	Diagnostics diagnostic.Diagnostics
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid schema %q: %v", e.Schema, e.Diagnostics.Err())
}
