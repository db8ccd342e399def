package mapping

import (
	"errors"

	"github.com/Lattice-Works/Portland-PD/internal/normalize"
	"github.com/Lattice-Works/Portland-PD/internal/schema"
)

// Compile validates a flight file and builds its schema. registry supplies
// normalizers defined in Go and may be nil. Validation problems are returned
// as a *schema.Error.
func Compile(ff *FlightFile, registry *normalize.Registry) (*schema.Schema, error) {
	diags := Validate(ff, registry)
	if diags.HasErrors() {
		name := ""
		if ff != nil {
			name = ff.Name
		}

		return nil, &schema.Error{Schema: name, Diagnostics: *diags}
	}

	reg, errs := BuildRegistry(ff, registry)
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	b := schema.NewBuilder(ff.Name)

	for _, e := range ff.Entities {
		b.AddEntity(schema.EntityDecl{
			Name:       e.Name,
			EntitySet:  e.Set,
			Properties: bindings(e.Properties, reg),
			Key:        e.Key,
		})
	}

	for _, a := range ff.Associations {
		id := schema.GeneratedID()
		if a.ID.Rule() == IDRuleDerived {
			id = schema.DerivedID(a.ID.Derived...)
		}

		b.AddAssociation(schema.AssociationDecl{
			Name:       a.Name,
			EntitySet:  a.Set,
			From:       a.From,
			To:         a.To,
			Properties: bindings(a.Properties, reg),
			ID:         id,
		})
	}

	return b.Build()
}

func bindings(props []PropertyDef, reg *normalize.Registry) []schema.Binding {
	out := make([]schema.Binding, 0, len(props))

	for _, p := range props {
		var b schema.Binding

		if p.Normalizer != "" {
			n, _ := reg.Get(p.Normalizer)
			b = schema.Normalized(p.Key, n).Named(p.Normalizer)
		} else {
			b = schema.Column(p.Key, p.Column)
		}

		if p.Required {
			b = b.Require()
		}

		out = append(out, b)
	}

	return out
}
