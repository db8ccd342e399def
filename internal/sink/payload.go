package sink

import (
	"github.com/keboola/go-utils/pkg/orderedmap"

	"github.com/Lattice-Works/Portland-PD/internal/engine"
	"github.com/Lattice-Works/Portland-PD/internal/normalize"
)

// Ref points at an entity instance.
type Ref struct {
	EntitySet string `json:"entitySet"`
	ID        string `json:"id"`
}

// EntityPayload is the wire form of an entity instance.
type EntityPayload struct {
	EntitySet string `json:"entitySet"`
	ID        string `json:"id"`
	// Properties maps property keys to value lists, in declaration order.
	Properties *orderedmap.OrderedMap `json:"properties"`
}

// AssociationPayload is the wire form of an association instance.
type AssociationPayload struct {
	EntitySet  string                 `json:"entitySet"`
	ID         string                 `json:"id"`
	Src        Ref                    `json:"src"`
	Dst        Ref                    `json:"dst"`
	Properties *orderedmap.OrderedMap `json:"properties"`
}

// Batch is a group of records sent together.
type Batch struct {
	FlightID     string               `json:"flightId"`
	Flight       string               `json:"flight"`
	Sequence     int                  `json:"sequence"`
	Entities     []EntityPayload      `json:"entities"`
	Associations []AssociationPayload `json:"associations"`

	records int
}

// Add appends the valid instances of g.
func (b *Batch) Add(g *engine.Graph) {
	b.records++

	for _, e := range g.Entities {
		if e.Status != engine.StatusValid {
			continue
		}

		b.Entities = append(b.Entities, EntityPayload{
			EntitySet:  e.Type.EntitySet,
			ID:         e.ID,
			Properties: properties(e.Properties),
		})
	}

	for _, a := range g.Associations {
		if a.Status != engine.StatusValid {
			continue
		}

		b.Associations = append(b.Associations, AssociationPayload{
			EntitySet:  a.Type.EntitySet,
			ID:         a.ID,
			Src:        Ref{EntitySet: a.Src.Type.EntitySet, ID: a.Src.ID},
			Dst:        Ref{EntitySet: a.Dst.Type.EntitySet, ID: a.Dst.ID},
			Properties: properties(a.Properties),
		})
	}
}

// Records returns how many graphs were added.
func (b *Batch) Records() int {
	return b.records
}

// properties encodes present values as single-element lists.
func properties(props []engine.Property) *orderedmap.OrderedMap {
	m := orderedmap.New()

	for _, p := range props {
		if p.Value.IsMissing() {
			continue
		}

		m.Set(p.Key, []any{wireValue(p.Value)})
	}

	return m
}

// wireValue keeps integers numeric and renders everything else as text.
func wireValue(v normalize.Value) any {
	if v.Kind() == normalize.KindInt {
		return v.Any()
	}

	return v.String()
}
