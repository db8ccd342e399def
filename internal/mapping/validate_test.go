package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lattice-Works/Portland-PD/internal/diagnostic"
	"github.com/Lattice-Works/Portland-PD/internal/normalize"
)

func TestValidate_Valid(t *testing.T) {
	ff, err := Parse([]byte(sampleFlight))
	require.NoError(t, err)

	diags := Validate(ff, nil)
	assert.False(t, diags.HasErrors(), diags.Err())
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(ff *FlightFile)
		code        string
		suggestions []string
	}{
		{
			name:   "unsupported version",
			mutate: func(ff *FlightFile) { ff.Version = "2" },
			code:   diagnostic.CodeUnsupportedVersion,
		},
		{
			name:   "empty name",
			mutate: func(ff *FlightFile) { ff.Name = "" },
			code:   diagnostic.CodeEmptyName,
		},
		{
			name:   "no entities",
			mutate: func(ff *FlightFile) { ff.Entities = nil; ff.Associations = nil },
			code:   diagnostic.CodeNoEntities,
		},
		{
			name:        "unknown kind",
			mutate:      func(ff *FlightFile) { ff.Normalizers[0].Kind = "enumm" },
			code:        diagnostic.CodeInvalidNormalizer,
			suggestions: []string{"enum"},
		},
		{
			name:   "bad enum",
			mutate: func(ff *FlightFile) { ff.Normalizers[0].Table = nil },
			code:   diagnostic.CodeInvalidNormalizer,
		},
		{
			name:   "bad time zone",
			mutate: func(ff *FlightFile) { ff.Normalizers[2].TimeZone = "Nowhere/Land" },
			code:   diagnostic.CodeInvalidNormalizer,
		},
		{
			name:   "concat with one column",
			mutate: func(ff *FlightFile) { ff.Normalizers[1].Column = StringOrArray{"a"} },
			code:   diagnostic.CodeInvalidNormalizer,
		},
		{
			name:   "single column kind with many",
			mutate: func(ff *FlightFile) { ff.Normalizers[0].Column = StringOrArray{"a", "b"} },
			code:   diagnostic.CodeInvalidNormalizer,
		},
		{
			name: "duplicate normalizer",
			mutate: func(ff *FlightFile) {
				ff.Normalizers = append(ff.Normalizers, NormalizerDef{Name: "birthDate", Kind: KindInt, Column: StringOrArray{"a"}})
			},
			code: diagnostic.CodeDuplicateName,
		},
		{
			name:        "unknown normalizer",
			mutate:      func(ff *FlightFile) { ff.Entities[0].Properties[1].Normalizer = "standardSx" },
			code:        diagnostic.CodeUnknownNormalizer,
			suggestions: []string{"standardSex"},
		},
		{
			name:   "both sources",
			mutate: func(ff *FlightFile) { ff.Entities[0].Properties[1].Column = "Sex" },
			code:   diagnostic.CodeInvalidBinding,
		},
		{
			name:   "no source",
			mutate: func(ff *FlightFile) { ff.Entities[0].Properties[0].Column = "" },
			code:   diagnostic.CodeInvalidBinding,
		},
		{
			name:        "unknown endpoint",
			mutate:      func(ff *FlightFile) { ff.Associations[0].To = "PortlandPDIncidnt" },
			code:        diagnostic.CodeUnknownEntity,
			suggestions: []string{"PortlandPDIncident"},
		},
		{
			name:   "missing id",
			mutate: func(ff *FlightFile) { ff.Associations[0].ID = IDDef{} },
			code:   diagnostic.CodeMissingIDRule,
		},
		{
			name:   "conflicting id",
			mutate: func(ff *FlightFile) { ff.Associations[0].ID.Derived = []string{"location.address"} },
			code:   diagnostic.CodeInvalidIDRule,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ff, err := Parse([]byte(sampleFlight))
			require.NoError(t, err)

			tt.mutate(ff)

			diags := Validate(ff, nil)
			require.True(t, diags.HasCode(tt.code), "expected %s, got %v", tt.code, diags.Err())

			if tt.suggestions != nil {
				for _, d := range diags.Errors {
					if d.Code == tt.code {
						assert.Equal(t, tt.suggestions, d.Suggestions)
					}
				}
			}
		})
	}
}

func TestValidate_RegistryNormalizers(t *testing.T) {
	ff, err := Parse([]byte(sampleFlight))
	require.NoError(t, err)

	ff.Entities[0].Properties[0] = PropertyDef{Key: "nc.PersonGivenName", Normalizer: "givenName"}

	assert.True(t, Validate(ff, nil).HasCode(diagnostic.CodeUnknownNormalizer))

	reg := normalize.NewRegistry()
	reg.MustRegister("givenName", normalize.Column("Arrestee First Name"))

	assert.False(t, Validate(ff, reg).HasErrors())

	reg.MustRegister("standardSex", normalize.Column("x"))
	assert.True(t, Validate(ff, reg).HasCode(diagnostic.CodeDuplicateName))
}

func TestValidate_Nil(t *testing.T) {
	assert.True(t, Validate(nil, nil).HasErrors())
}
