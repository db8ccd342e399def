package engine

import (
	"github.com/Lattice-Works/Portland-PD/internal/normalize"
	"github.com/Lattice-Works/Portland-PD/internal/schema"
)

// Property is one bound value.
type Property struct {
	Key   string
	Value normalize.Value
}

// Issue is a problem found while building an instance.
type Issue struct {
	// Key is the property the issue belongs to, empty for instance-level issues.
	Key string
	Err error
}

// EntityInstance is one entity built from one record.
type EntityInstance struct {
	Type       *schema.EntityType
	ID         string
	Properties []Property
	Status     Status
	Issues     []Issue
}

// Value returns the value bound to key.
func (e *EntityInstance) Value(key string) (normalize.Value, bool) {
	return lookup(e.Properties, key)
}

// AssociationInstance links two entity instances of the same record.
type AssociationInstance struct {
	Type       *schema.AssociationType
	ID         string
	Src        *EntityInstance
	Dst        *EntityInstance
	Properties []Property
	Status     Status
	Issues     []Issue
}

// Value returns the value bound to key.
func (a *AssociationInstance) Value(key string) (normalize.Value, bool) {
	return lookup(a.Properties, key)
}

// Graph holds every instance built from one record, in declaration order.
type Graph struct {
	Index        int
	Entities     []*EntityInstance
	Associations []*AssociationInstance
}

// Entity returns the instance of the named entity type.
func (g *Graph) Entity(name string) (*EntityInstance, bool) {
	for _, e := range g.Entities {
		if e.Type.Name == name {
			return e, true
		}
	}

	return nil, false
}

// Association returns the instance of the named association type.
func (g *Graph) Association(name string) (*AssociationInstance, bool) {
	for _, a := range g.Associations {
		if a.Type.Name == name {
			return a, true
		}
	}

	return nil, false
}

func lookup(props []Property, key string) (normalize.Value, bool) {
	for _, p := range props {
		if p.Key == key {
			return p.Value, true
		}
	}

	return normalize.Missing(), false
}
