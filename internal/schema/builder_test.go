package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lattice-Works/Portland-PD/internal/diagnostic"
	"github.com/Lattice-Works/Portland-PD/internal/normalize"
	"github.com/Lattice-Works/Portland-PD/internal/record"
)

func arrestee() EntityDecl {
	return EntityDecl{
		Name:      "Arrestee",
		EntitySet: "PortlandPDArrestee",
		Properties: []Binding{
			Column("nc.PersonGivenName", "Arrestee First Name"),
			Column("nc.PersonSurName", "Arrestee Last Name").Require(),
		},
	}
}

func incident() EntityDecl {
	return EntityDecl{
		Name:       "Incident",
		Properties: []Binding{Column("criminaljustice.incidentid", "Arrest Incident Number")},
	}
}

func TestBuilder_Build(t *testing.T) {
	s, err := NewBuilder("PortlandPD").
		AddEntity(arrestee()).
		AddEntity(incident()).
		AddAssociation(AssociationDecl{
			Name: "ArrestedIn",
			From: "Arrestee",
			To:   "Incident",
			Properties: []Binding{
				Column("ol.datetime", "Arrest Date"),
			},
			ID: DerivedID("ol.datetime"),
		}).
		Build()
	require.NoError(t, err)

	assert.Equal(t, "PortlandPD", s.Name())
	require.Len(t, s.Entities(), 2)
	require.Len(t, s.Associations(), 1)

	inc, ok := s.Entity("Incident")
	require.True(t, ok)
	assert.Equal(t, "Incident", inc.EntitySet, "entity set defaults to name")
	assert.Equal(t, []string{"criminaljustice.incidentid"}, inc.Key, "key defaults to all properties")

	arr, ok := s.Entity("Arrestee")
	require.True(t, ok)
	assert.True(t, arr.Properties[1].Required)

	assoc, ok := s.Association("ArrestedIn")
	require.True(t, ok)
	assert.Equal(t, IDDerived, assoc.ID.Kind)
	assert.Equal(t, "ArrestedIn", assoc.EntitySet)

	assert.Equal(t, []string{
		"Arrest Date",
		"Arrest Incident Number",
		"Arrestee First Name",
		"Arrestee Last Name",
	}, s.Columns())
}

func TestBuilder_BuildErrors(t *testing.T) {
	sex, err := normalize.Enum("Sex", map[string]string{"MALE": "M"})
	require.NoError(t, err)

	tests := []struct {
		name        string
		build       func() *Builder
		code        string
		suggestions []string
	}{
		{
			name:  "empty flight name",
			build: func() *Builder { return NewBuilder("").AddEntity(incident()) },
			code:  diagnostic.CodeEmptyName,
		},
		{
			name:  "no entities",
			build: func() *Builder { return NewBuilder("f") },
			code:  diagnostic.CodeNoEntities,
		},
		{
			name: "duplicate name across kinds",
			build: func() *Builder {
				return NewBuilder("f").AddEntity(incident()).AddAssociation(AssociationDecl{
					Name: "Incident", From: "Incident", To: "Incident", ID: GeneratedID(),
				})
			},
			code: diagnostic.CodeDuplicateName,
		},
		{
			name: "duplicate property",
			build: func() *Builder {
				return NewBuilder("f").AddEntity(EntityDecl{Name: "E", Properties: []Binding{
					Column("k", "a"), Normalized("k", sex),
				}})
			},
			code: diagnostic.CodeDuplicateProperty,
		},
		{
			name: "binding without source",
			build: func() *Builder {
				return NewBuilder("f").AddEntity(EntityDecl{Name: "E", Properties: []Binding{{Key: "k"}}})
			},
			code: diagnostic.CodeInvalidBinding,
		},
		{
			name: "binding with two sources",
			build: func() *Builder {
				return NewBuilder("f").AddEntity(EntityDecl{Name: "E", Properties: []Binding{
					{Key: "k", Column: "a", Normalizer: sex},
				}})
			},
			code: diagnostic.CodeInvalidBinding,
		},
		{
			name: "unknown key property",
			build: func() *Builder {
				decl := incident()
				decl.Key = []string{"criminaljustice.incidentld"}

				return NewBuilder("f").AddEntity(decl)
			},
			code:        diagnostic.CodeUnknownProperty,
			suggestions: []string{"criminaljustice.incidentid"},
		},
		{
			name: "unknown endpoint",
			build: func() *Builder {
				return NewBuilder("f").AddEntity(arrestee()).AddEntity(incident()).
					AddAssociation(AssociationDecl{Name: "A", From: "Arrestee", To: "Incidents", ID: GeneratedID()})
			},
			code:        diagnostic.CodeUnknownEntity,
			suggestions: []string{"Incident"},
		},
		{
			name: "missing id rule",
			build: func() *Builder {
				return NewBuilder("f").AddEntity(incident()).
					AddAssociation(AssociationDecl{Name: "A", From: "Incident", To: "Incident"})
			},
			code: diagnostic.CodeMissingIDRule,
		},
		{
			name: "derived id without keys",
			build: func() *Builder {
				return NewBuilder("f").AddEntity(incident()).
					AddAssociation(AssociationDecl{Name: "A", From: "Incident", To: "Incident", ID: DerivedID()})
			},
			code: diagnostic.CodeInvalidIDRule,
		},
		{
			name: "derived id on undeclared property",
			build: func() *Builder {
				return NewBuilder("f").AddEntity(incident()).
					AddAssociation(AssociationDecl{Name: "A", From: "Incident", To: "Incident", ID: DerivedID("ol.datetime")})
			},
			code: diagnostic.CodeUnknownProperty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := tt.build().Build()
			require.Error(t, err)
			assert.Nil(t, s)

			var schemaErr *Error
			require.True(t, errors.As(err, &schemaErr))
			assert.True(t, schemaErr.Diagnostics.HasCode(tt.code), schemaErr.Error())

			if tt.suggestions != nil {
				for _, d := range schemaErr.Diagnostics.Errors {
					if d.Code == tt.code {
						assert.Equal(t, tt.suggestions, d.Suggestions)
					}
				}
			}
		})
	}
}

func TestBuilder_CollectsAllErrors(t *testing.T) {
	_, err := NewBuilder("f").
		AddEntity(EntityDecl{Name: "E", Properties: []Binding{{Key: "k"}}}).
		AddAssociation(AssociationDecl{Name: "A", From: "X", To: "Y"}).
		Build()

	var schemaErr *Error
	require.True(t, errors.As(err, &schemaErr))
	assert.Len(t, schemaErr.Diagnostics.Errors, 4)
}

func TestBuilder_DeclarationsAreCopied(t *testing.T) {
	decl := incident()
	b := NewBuilder("f").AddEntity(decl)

	s, err := b.Build()
	require.NoError(t, err)

	decl.Properties[0].Column = "changed"

	inc, _ := s.Entity("Incident")
	assert.Equal(t, "Arrest Incident Number", inc.Properties[0].Column)
}

func TestSchema_CheckHeader(t *testing.T) {
	s, err := NewBuilder("f").AddEntity(arrestee()).AddEntity(incident()).Build()
	require.NoError(t, err)

	ok := record.NewHeader([]string{"Arrestee First Name", "Arrestee Last Name", "Arrest Incident Number", "Extra"})
	assert.NoError(t, s.CheckHeader(ok))

	bad := record.NewHeader([]string{"Arrestee First Nme", "Arrestee Last Name"})
	err = s.CheckHeader(bad)
	require.Error(t, err)

	var schemaErr *Error
	require.True(t, errors.As(err, &schemaErr))
	require.Len(t, schemaErr.Diagnostics.Errors, 2)

	first := schemaErr.Diagnostics.Errors[0]
	assert.Equal(t, diagnostic.CodeUnknownColumn, first.Code)
	assert.Equal(t, "Arrestee", first.Declaration)
	assert.Equal(t, []string{"Arrestee First Nme", "Arrestee Last Name"}, first.Suggestions)
}
