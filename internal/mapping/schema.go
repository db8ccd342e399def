package mapping

import "github.com/Lattice-Works/Portland-PD/internal/common"

// CurrentVersion is the only supported flight file version.
const CurrentVersion = "1"

// FlightFile represents the root of a YAML flight definition.
type FlightFile struct {
	Version      string           `yaml:"version"`
	Name         string           `yaml:"name"`
	Settings     Settings         `yaml:"settings,omitempty"`
	Normalizers  []NormalizerDef  `yaml:"normalizers,omitempty"`
	Entities     []EntityDef      `yaml:"entities"`
	Associations []AssociationDef `yaml:"associations,omitempty"`
}

// Settings are defaults shared by the normalizers of a file.
type Settings struct {
	TimeZone    string `yaml:"timezone,omitempty"`
	DatePattern string `yaml:"date_pattern,omitempty"`
}

// NormalizerKind names a built-in normalizer.
type NormalizerKind string

const (
	KindColumn NormalizerKind = "column"
	KindEnum   NormalizerKind = "enum"
	KindConcat NormalizerKind = "concat"
	KindDate   NormalizerKind = "date"
	KindInt    NormalizerKind = "int"
	KindCase   NormalizerKind = "case"
)

// Kinds lists every supported normalizer kind.
var Kinds = []NormalizerKind{KindColumn, KindEnum, KindConcat, KindDate, KindInt, KindCase}

// IsValid returns true if the kind is supported.
func (k NormalizerKind) IsValid() bool {
	for _, v := range Kinds {
		if k == v {
			return true
		}
	}

	return false
}

// NormalizerDef declares a named normalizer.
type NormalizerDef struct {
	Name string         `yaml:"name"`
	Kind NormalizerKind `yaml:"kind"`
	// Column is one column, or a list for concat.
	Column StringOrArray `yaml:"column"`
	// Table and Missing configure enum.
	Table   map[string]string `yaml:"table,omitempty"`
	Missing []string          `yaml:"missing,omitempty"`
	// Separator and Partial configure concat. An empty separator means the default.
	Separator string `yaml:"separator,omitempty"`
	Partial   bool   `yaml:"partial,omitempty"`
	// TimeZone and Pattern configure date.
	TimeZone string `yaml:"timezone,omitempty"`
	Pattern  string `yaml:"pattern,omitempty"`
	// Mode configures case.
	Mode string `yaml:"mode,omitempty"`
}

// EntityDef declares an entity type.
type EntityDef struct {
	Name       string        `yaml:"name"`
	Set        string        `yaml:"set,omitempty"`
	Key        []string      `yaml:"key,omitempty"`
	Properties []PropertyDef `yaml:"properties"`
}

// AssociationDef declares an association type.
type AssociationDef struct {
	Name       string        `yaml:"name"`
	Set        string        `yaml:"set,omitempty"`
	From       string        `yaml:"from"`
	To         string        `yaml:"to"`
	Properties []PropertyDef `yaml:"properties,omitempty"`
	ID         IDDef         `yaml:"id"`
}

// PropertyDef binds a property key to a column or a named normalizer.
type PropertyDef struct {
	Key        string `yaml:"key"`
	Column     string `yaml:"column,omitempty"`
	Normalizer string `yaml:"normalizer,omitempty"`
	Required   bool   `yaml:"required,omitempty"`
}

// IDDef is the identifier rule of an association. Exactly one field is set.
type IDDef struct {
	Generated bool     `yaml:"generated,omitempty"`
	Derived   []string `yaml:"derived,omitempty"`
}

// IDRuleKind describes which rule an IDDef selects.
type IDRuleKind int

const (
	IDRuleNone IDRuleKind = iota
	IDRuleGenerated
	IDRuleDerived
	IDRuleConflict
)

// String returns a human-readable rule name.
func (k IDRuleKind) String() string {
	switch k {
	case IDRuleNone:
		return "none"
	case IDRuleGenerated:
		return "generated"
	case IDRuleDerived:
		return "derived"
	case IDRuleConflict:
		return "conflict"
	default:
		return common.UnknownStr
	}
}

// Rule returns the rule the definition selects.
func (d IDDef) Rule() IDRuleKind {
	switch {
	case d.Generated && len(d.Derived) > 0:
		return IDRuleConflict
	case d.Generated:
		return IDRuleGenerated
	case len(d.Derived) > 0:
		return IDRuleDerived
	default:
		return IDRuleNone
	}
}
