package mapping

import (
	"fmt"

	"github.com/Lattice-Works/Portland-PD/internal/diagnostic"
	"github.com/Lattice-Works/Portland-PD/internal/match"
	"github.com/Lattice-Works/Portland-PD/internal/normalize"
)

const suggestionLimit = 3

// Validate checks a flight file for problems that can be found without
// building it: version, normalizer definitions and every reference between
// declarations. registry holds normalizers provided by Go code and may be nil.
// Duplicate names and property keys are reported by the schema builder.
func Validate(ff *FlightFile, registry *normalize.Registry) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if ff == nil {
		res.AddError(diagnostic.CodeEmptyName, "flight file is nil", "", "")
		return res
	}

	if ff.Version != CurrentVersion {
		res.AddError(diagnostic.CodeUnsupportedVersion,
			fmt.Sprintf("unsupported version %q, expected %q", ff.Version, CurrentVersion), "", "")
	}

	if ff.Name == "" {
		res.AddError(diagnostic.CodeEmptyName, "flight name is empty", "", "")
	}

	normalizers := validateNormalizers(res, ff, registry)

	if len(ff.Entities) == 0 {
		res.AddError(diagnostic.CodeNoEntities, "no entities declared", ff.Name, "")
	}

	entities := make([]string, 0, len(ff.Entities))
	for _, e := range ff.Entities {
		entities = append(entities, e.Name)
	}

	for _, e := range ff.Entities {
		validateProperties(res, e.Name, e.Properties, normalizers)
	}

	for _, a := range ff.Associations {
		validateProperties(res, a.Name, a.Properties, normalizers)

		for _, end := range []struct{ role, name string }{{"from", a.From}, {"to", a.To}} {
			if !contains(entities, end.name) {
				res.AddError(diagnostic.CodeUnknownEntity,
					fmt.Sprintf("%s entity %q is not declared", end.role, end.name),
					a.Name, "", match.Suggest(end.name, entities, suggestionLimit)...)
			}
		}

		switch a.ID.Rule() {
		case IDRuleNone:
			res.AddError(diagnostic.CodeMissingIDRule, "id must be generated or derived", a.Name, "")
		case IDRuleConflict:
			res.AddError(diagnostic.CodeInvalidIDRule, "id cannot be both generated and derived", a.Name, "")
		}
	}

	return res
}

// validateNormalizers checks each definition and returns every name a
// property may reference.
func validateNormalizers(res *diagnostic.Diagnostics, ff *FlightFile, registry *normalize.Registry) []string {
	var names []string
	if registry != nil {
		names = registry.Names()
	}

	kinds := make([]string, 0, len(Kinds))
	for _, k := range Kinds {
		kinds = append(kinds, string(k))
	}

	for _, def := range ff.Normalizers {
		if def.Name == "" {
			res.AddError(diagnostic.CodeEmptyName, "normalizer name is empty", "", "")
			continue
		}

		if contains(names, def.Name) {
			res.AddError(diagnostic.CodeDuplicateName,
				fmt.Sprintf("normalizer %q is declared more than once", def.Name), def.Name, "")

			continue
		}

		names = append(names, def.Name)

		if !def.Kind.IsValid() {
			res.AddError(diagnostic.CodeInvalidNormalizer,
				fmt.Sprintf("unknown kind %q", def.Kind), def.Name, "",
				match.Suggest(string(def.Kind), kinds, suggestionLimit)...)

			continue
		}

		if _, err := BuildNormalizer(def, ff.Settings); err != nil {
			res.AddError(diagnostic.CodeInvalidNormalizer, err.Error(), def.Name, "")
		}
	}

	return names
}

func validateProperties(res *diagnostic.Diagnostics, decl string, props []PropertyDef, normalizers []string) {
	for _, p := range props {
		switch {
		case p.Column != "" && p.Normalizer != "":
			res.AddError(diagnostic.CodeInvalidBinding, "property sets both column and normalizer", decl, p.Key)
		case p.Column == "" && p.Normalizer == "":
			res.AddError(diagnostic.CodeInvalidBinding, "property sets neither column nor normalizer", decl, p.Key)
		case p.Normalizer != "" && !contains(normalizers, p.Normalizer):
			res.AddError(diagnostic.CodeUnknownNormalizer,
				fmt.Sprintf("normalizer %q is not declared", p.Normalizer),
				decl, p.Key, match.Suggest(p.Normalizer, normalizers, suggestionLimit)...)
		}
	}
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}

	return false
}
