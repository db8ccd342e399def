package schema

import (
	"github.com/Lattice-Works/Portland-PD/internal/common"
	"github.com/Lattice-Works/Portland-PD/internal/normalize"
)

// Binding assigns one target property from either a raw column or a normalizer.
type Binding struct {
	// Key is the target property type, e.g. "nc.PersonGivenName".
	Key string
	// Column is the raw source column (passthrough).
	Column string
	// Normalizer computes the value from one or more columns.
	Normalizer normalize.Normalizer
	// NormalizerName is the registry name of Normalizer, if it has one.
	NormalizerName string
	// Required marks the instance invalid when the value is missing.
	Required bool
}

// Column binds key to a raw column.
func Column(key, column string) Binding {
	return Binding{Key: key, Column: column}
}

// Normalized binds key to the output of n.
func Normalized(key string, n normalize.Normalizer) Binding {
	return Binding{Key: key, Normalizer: n}
}

// Require returns a copy of the binding marked as required.
func (b Binding) Require() Binding {
	b.Required = true
	return b
}

// Named returns a copy of the binding that records the normalizer's registry name.
func (b Binding) Named(name string) Binding {
	b.NormalizerName = name
	return b
}

// Source returns the normalizer that produces the value. Column bindings
// get a passthrough normalizer.
func (b Binding) Source() normalize.Normalizer {
	if b.Normalizer != nil {
		return b.Normalizer
	}

	return normalize.Column(b.Column)
}

// Columns returns the raw columns the binding reads.
func (b Binding) Columns() []string {
	if b.Normalizer != nil {
		return b.Normalizer.Columns()
	}

	if b.Column == "" {
		return nil
	}

	return []string{b.Column}
}

// IDKind selects how an association instance gets its identifier.
type IDKind int

const (
	IDUnset IDKind = iota
	IDGenerated
	IDDerived
)

// String returns a human-readable ID kind name.
func (k IDKind) String() string {
	switch k {
	case IDUnset:
		return "unset"
	case IDGenerated:
		return "generated"
	case IDDerived:
		return "derived"
	default:
		return common.UnknownStr
	}
}

// IDRule is the identifier rule of an association.
type IDRule struct {
	Kind IDKind
	// Keys are the property keys a derived identifier is computed from.
	Keys []string
}

// GeneratedID gives each association instance a fresh random identifier.
func GeneratedID() IDRule {
	return IDRule{Kind: IDGenerated}
}

// DerivedID computes the identifier from the given property values.
func DerivedID(keys ...string) IDRule {
	return IDRule{Kind: IDDerived, Keys: keys}
}

// EntityDecl declares an entity type.
type EntityDecl struct {
	Name string
	// EntitySet is the destination set; defaults to Name.
	EntitySet  string
	Properties []Binding
	// Key lists the properties that identify an instance; defaults to all of them.
	Key []string
}

// AssociationDecl declares an association type between two entity types.
type AssociationDecl struct {
	Name string
	// EntitySet is the destination set; defaults to Name.
	EntitySet  string
	From       string
	To         string
	Properties []Binding
	ID         IDRule
}

// EntityType is a validated entity declaration.
type EntityType struct {
	Name       string
	EntitySet  string
	Properties []Binding
	Key        []string
}

// AssociationType is a validated association declaration.
type AssociationType struct {
	Name       string
	EntitySet  string
	From       string
	To         string
	Properties []Binding
	ID         IDRule
}
