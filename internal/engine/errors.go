package engine

import (
	"fmt"
	"strings"
)

// MissingRequiredFieldError marks an instance whose required property has no value.
type MissingRequiredFieldError struct {
	Declaration string
	Key         string
	Columns     []string
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("%s: required property %q is missing (columns: %s)",
		e.Declaration, e.Key, strings.Join(e.Columns, ", "))
}

// EndpointError marks an association whose endpoint entity is not valid.
type EndpointError struct {
	Association string
	Entity      string
	Status      Status
}

func (e *EndpointError) Error() string {
	return fmt.Sprintf("%s: endpoint %s is %s", e.Association, e.Entity, e.Status)
}
