package schema

import (
	"fmt"
	"slices"

	"github.com/Lattice-Works/Portland-PD/internal/diagnostic"
	"github.com/Lattice-Works/Portland-PD/internal/match"
)

const suggestionLimit = 3

// Builder collects declarations. Nothing is validated until Build.
type Builder struct {
	name         string
	entities     []EntityDecl
	associations []AssociationDecl
}

// NewBuilder starts a schema for the named flight.
func NewBuilder(name string) *Builder {
	return &Builder{name: name}
}

// AddEntity appends an entity declaration.
func (b *Builder) AddEntity(decl EntityDecl) *Builder {
	b.entities = append(b.entities, decl)
	return b
}

// AddAssociation appends an association declaration.
func (b *Builder) AddAssociation(decl AssociationDecl) *Builder {
	b.associations = append(b.associations, decl)
	return b
}

// Build validates all declarations and returns the schema, or an *Error
// listing every problem found.
func (b *Builder) Build() (*Schema, error) {
	var diags diagnostic.Diagnostics

	if b.name == "" {
		diags.AddError(diagnostic.CodeEmptyName, "flight name is empty", "", "")
	}

	if len(b.entities) == 0 {
		diags.AddError(diagnostic.CodeNoEntities, "no entity types declared", b.name, "")
	}

	s := &Schema{
		name:        b.name,
		entityIndex: make(map[string]*EntityType, len(b.entities)),
		assocIndex:  make(map[string]*AssociationType, len(b.associations)),
	}

	names := make(map[string]struct{}, len(b.entities)+len(b.associations))

	claim := func(name, kind string) bool {
		if name == "" {
			diags.AddError(diagnostic.CodeEmptyName, kind+" name is empty", "", "")
			return false
		}

		if _, ok := names[name]; ok {
			diags.AddError(diagnostic.CodeDuplicateName, fmt.Sprintf("%s %q is declared more than once", kind, name), name, "")
			return false
		}

		names[name] = struct{}{}

		return true
	}

	for _, decl := range b.entities {
		ok := claim(decl.Name, "entity")
		et := buildEntity(decl, &diags)

		if ok {
			s.entities = append(s.entities, et)
			s.entityIndex[et.Name] = et
		}
	}

	entityNames := make([]string, 0, len(s.entities))
	for _, e := range s.entities {
		entityNames = append(entityNames, e.Name)
	}

	for _, decl := range b.associations {
		ok := claim(decl.Name, "association")
		at := buildAssociation(decl, s.entityIndex, entityNames, &diags)

		if ok {
			s.associations = append(s.associations, at)
			s.assocIndex[at.Name] = at
		}
	}

	if diags.HasErrors() {
		return nil, &Error{Schema: b.name, Diagnostics: diags}
	}

	return s, nil
}

func buildEntity(decl EntityDecl, diags *diagnostic.Diagnostics) *EntityType {
	et := &EntityType{
		Name:       decl.Name,
		EntitySet:  decl.EntitySet,
		Properties: slices.Clone(decl.Properties),
		Key:        slices.Clone(decl.Key),
	}

	if et.EntitySet == "" {
		et.EntitySet = et.Name
	}

	if len(et.Properties) == 0 {
		diags.AddError(diagnostic.CodeInvalidBinding, "entity declares no properties", decl.Name, "")
	}

	keys := checkBindings(decl.Name, et.Properties, diags)

	for _, k := range et.Key {
		if !slices.Contains(keys, k) {
			diags.AddError(diagnostic.CodeUnknownProperty,
				fmt.Sprintf("key property %q is not declared", k),
				decl.Name, k, match.Suggest(k, keys, suggestionLimit)...)
		}
	}

	if len(et.Key) == 0 {
		et.Key = keys
	}

	return et
}

func buildAssociation(
	decl AssociationDecl,
	entities map[string]*EntityType,
	entityNames []string,
	diags *diagnostic.Diagnostics,
) *AssociationType {
	at := &AssociationType{
		Name:       decl.Name,
		EntitySet:  decl.EntitySet,
		From:       decl.From,
		To:         decl.To,
		Properties: slices.Clone(decl.Properties),
		ID:         IDRule{Kind: decl.ID.Kind, Keys: slices.Clone(decl.ID.Keys)},
	}

	if at.EntitySet == "" {
		at.EntitySet = at.Name
	}

	for _, end := range []struct{ role, name string }{{"source", decl.From}, {"destination", decl.To}} {
		if end.name == "" {
			diags.AddError(diagnostic.CodeUnknownEntity, end.role+" entity type is empty", decl.Name, "")
			continue
		}

		if _, ok := entities[end.name]; !ok {
			diags.AddError(diagnostic.CodeUnknownEntity,
				fmt.Sprintf("%s entity type %q is not declared", end.role, end.name),
				decl.Name, "", match.Suggest(end.name, entityNames, suggestionLimit)...)
		}
	}

	keys := checkBindings(decl.Name, at.Properties, diags)

	switch at.ID.Kind {
	case IDUnset:
		diags.AddError(diagnostic.CodeMissingIDRule, "association has no identifier rule", decl.Name, "")
	case IDGenerated:
		if len(at.ID.Keys) > 0 {
			diags.AddError(diagnostic.CodeInvalidIDRule, "generated identifier takes no keys", decl.Name, "")
		}
	case IDDerived:
		if len(at.ID.Keys) == 0 {
			diags.AddError(diagnostic.CodeInvalidIDRule, "derived identifier needs at least one key", decl.Name, "")
		}

		for _, k := range at.ID.Keys {
			if !slices.Contains(keys, k) {
				diags.AddError(diagnostic.CodeUnknownProperty,
					fmt.Sprintf("identifier key %q is not a declared property", k),
					decl.Name, k, match.Suggest(k, keys, suggestionLimit)...)
			}
		}
	default:
		diags.AddError(diagnostic.CodeInvalidIDRule, fmt.Sprintf("unknown identifier rule %d", at.ID.Kind), decl.Name, "")
	}

	return at
}

// checkBindings validates each binding and returns the declared keys in order.
func checkBindings(decl string, bindings []Binding, diags *diagnostic.Diagnostics) []string {
	keys := make([]string, 0, len(bindings))
	seen := make(map[string]struct{}, len(bindings))

	for _, b := range bindings {
		if b.Key == "" {
			diags.AddError(diagnostic.CodeEmptyName, "property key is empty", decl, "")
			continue
		}

		if _, dup := seen[b.Key]; dup {
			diags.AddError(diagnostic.CodeDuplicateProperty,
				fmt.Sprintf("property %q is bound more than once", b.Key), decl, b.Key)

			continue
		}

		seen[b.Key] = struct{}{}
		keys = append(keys, b.Key)

		switch {
		case b.Column != "" && b.Normalizer != nil:
			diags.AddError(diagnostic.CodeInvalidBinding, "binding has both a column and a normalizer", decl, b.Key)
		case b.Column == "" && b.Normalizer == nil:
			diags.AddError(diagnostic.CodeInvalidBinding, "binding has neither a column nor a normalizer", decl, b.Key)
		case b.Normalizer != nil && len(b.Normalizer.Columns()) == 0:
			diags.AddError(diagnostic.CodeInvalidNormalizer, "normalizer reads no columns", decl, b.Key)
		}
	}

	return keys
}
