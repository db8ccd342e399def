package schema

import (
	"fmt"
	"slices"

	"github.com/Lattice-Works/Portland-PD/internal/diagnostic"
	"github.com/Lattice-Works/Portland-PD/internal/match"
	"github.com/Lattice-Works/Portland-PD/internal/record"
)

// Schema is an immutable set of entity and association types.
type Schema struct {
	name         string
	entities     []*EntityType
	associations []*AssociationType
	entityIndex  map[string]*EntityType
	assocIndex   map[string]*AssociationType
}

// Name returns the flight name.
func (s *Schema) Name() string {
	return s.name
}

// Entities returns the entity types in declaration order.
func (s *Schema) Entities() []*EntityType {
	return slices.Clone(s.entities)
}

// Associations returns the association types in declaration order.
func (s *Schema) Associations() []*AssociationType {
	return slices.Clone(s.associations)
}

// Entity looks up an entity type by name.
func (s *Schema) Entity(name string) (*EntityType, bool) {
	e, ok := s.entityIndex[name]
	return e, ok
}

// Association looks up an association type by name.
func (s *Schema) Association(name string) (*AssociationType, bool) {
	a, ok := s.assocIndex[name]
	return a, ok
}

// Columns returns every raw column the schema reads, sorted and unique.
func (s *Schema) Columns() []string {
	seen := make(map[string]struct{})

	add := func(bindings []Binding) {
		for _, b := range bindings {
			for _, c := range b.Columns() {
				seen[c] = struct{}{}
			}
		}
	}

	for _, e := range s.entities {
		add(e.Properties)
	}

	for _, a := range s.associations {
		add(a.Properties)
	}

	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}

	slices.Sort(out)

	return out
}

// CheckHeader verifies that every column the schema reads exists in header.
// Unknown columns are reported with close matches from the header.
func (s *Schema) CheckHeader(header *record.Header) error {
	var diags diagnostic.Diagnostics

	available := header.Columns()

	for _, decl := range s.declarations() {
		for _, b := range decl.properties {
			for _, c := range b.Columns() {
				if header.Has(c) {
					continue
				}

				diags.AddError(diagnostic.CodeUnknownColumn,
					fmt.Sprintf("column %q not found in input header", c),
					decl.name, b.Key, match.Suggest(c, available, 3)...)
			}
		}
	}

	if diags.HasErrors() {
		return &Error{Schema: s.name, Diagnostics: diags}
	}

	return nil
}

type declaration struct {
	name       string
	properties []Binding
}

func (s *Schema) declarations() []declaration {
	out := make([]declaration, 0, len(s.entities)+len(s.associations))

	for _, e := range s.entities {
		out = append(out, declaration{name: e.Name, properties: e.Properties})
	}

	for _, a := range s.associations {
		out = append(out, declaration{name: a.Name, properties: a.Properties})
	}

	return out
}
