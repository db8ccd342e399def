// Package schema declares the entity and association types of a flight.
//
// A Schema is assembled with a Builder:
//
//	s, err := schema.NewBuilder("PortlandPD").
//		AddEntity(schema.EntityDecl{
//			Name:      "Arrestee",
//			EntitySet: "PortlandPDArrestee",
//			Properties: []schema.Binding{
//				schema.Column("nc.PersonGivenName", "Arrestee First Name"),
//				schema.Normalized("nc.PersonSex", sex).Require(),
//			},
//		}).
//		AddAssociation(schema.AssociationDecl{
//			Name: "ArrestedIn",
//			From: "Arrestee",
//			To:   "Incident",
//			ID:   schema.GeneratedID(),
//		}).
//		Build()
//
// Build validates the whole declaration at once and reports every problem
// in a single *Error. A built Schema is immutable and safe for concurrent
// use.
package schema
