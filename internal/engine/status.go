package engine

import "github.com/Lattice-Works/Portland-PD/internal/common"

// Status is the outcome of building one instance.
type Status int

const (
	StatusValid Status = iota
	StatusInvalid
	StatusEmpty
)

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusInvalid:
		return "invalid"
	case StatusEmpty:
		return "empty"
	default:
		return common.UnknownStr
	}
}
