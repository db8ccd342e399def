package portland

import (
	"fmt"

	"github.com/Lattice-Works/Portland-PD/internal/schema"
)

// Name is the flight name.
const Name = "PortlandPD"

// Entity and association names.
const (
	Arrestee      = "PortlandPDArrestee"
	Incident      = "PortlandPDIncident"
	OfficerPerson = "PortlandPDOfficerPerson"
	Officer       = "PortlandPDOfficer"
	ArrestedIn    = "PortlandPDArrestedIn"
	ArrestedBy    = "PortlandPDArrestedBy"
	Becomes       = "PortlandPDBecomes"
)

// Schema builds the flight from Go declarations.
func Schema(opts Options) (*schema.Schema, error) {
	reg, err := Normalizers(opts)
	if err != nil {
		return nil, err
	}

	named := func(key, name string) schema.Binding {
		n, ok := reg.Get(name)
		if !ok {
			panic(fmt.Sprintf("portland: normalizer %q not registered", name))
		}

		return schema.Normalized(key, n).Named(name)
	}

	return schema.NewBuilder(Name).
		AddEntity(schema.EntityDecl{
			Name: Arrestee,
			Properties: []schema.Binding{
				schema.Column("nc.PersonGivenName", "Arrestee First Name"),
				schema.Column("nc.PersonMiddleName", "Arrestee Middle Name"),
				schema.Column("nc.PersonSurName", "Arrestee Last Name"),
				named("nc.PersonRace", StandardRace),
				named("nc.PersonEthnicity", StandardEthnicity),
				named("nc.PersonSex", StandardSex),
				named("nc.PersonBirthDate", BirthDate),
			},
		}).
		AddEntity(schema.EntityDecl{
			Name: Incident,
			Properties: []schema.Binding{
				schema.Column("criminaljustice.incidentid", "Arrest Incident Number"),
			},
		}).
		AddEntity(schema.EntityDecl{
			Name: OfficerPerson,
			Properties: []schema.Binding{
				schema.Column("nc.PersonGivenName", "Arrresting Ofc Frist Name"),
				schema.Column("nc.PersonSurName", "Arresting Ofc Last Name"),
				schema.Column("nc.SubjectIdentification", "Arresting Officer #"),
			},
		}).
		AddEntity(schema.EntityDecl{
			Name: Officer,
			Properties: []schema.Binding{
				schema.Column("publicsafety.officerid", "Arresting Officer #"),
			},
		}).
		AddAssociation(schema.AssociationDecl{
			Name: ArrestedIn,
			From: Arrestee,
			To:   Incident,
			Properties: []schema.Binding{
				named("location.address", StandardAddress),
				schema.Column("ol.arrestcategory", "ARREST TYPE (186) eng"),
				schema.Column("criminaljustice.casenumber", "Arrest Charges Case #"),
				schema.Column("criminaljustice.nibrs", "UCR OFFN CODE (47) eng"),
				schema.Column("ol.numberofcounts", "Adult Arrest Charge Seq #"),
				schema.Column("ol.mapreference", "Map Ref# of Arst"),
				named("person.ageatevent", AgeAtEvent),
				schema.Column("j.ArrestCharge", "ARREST STATE CHARGE (7) eng"),
			},
			ID: schema.GeneratedID(),
		}).
		AddAssociation(schema.AssociationDecl{
			Name: ArrestedBy,
			From: Arrestee,
			To:   Officer,
			Properties: []schema.Binding{
				schema.Column("general.StringID", "Arrest Incident Number"),
			},
			ID: schema.DerivedID("general.StringID"),
		}).
		AddAssociation(schema.AssociationDecl{
			Name: Becomes,
			From: OfficerPerson,
			To:   Officer,
			Properties: []schema.Binding{
				schema.Column("nc.SubjectIdentification", "Arrest Incident Number"),
			},
			ID: schema.DerivedID("nc.SubjectIdentification"),
		}).
		Build()
}
