// Package portland defines the Portland Police Bureau arrest flight.
//
// The flight maps one row of the arrest extract to four entities
// (PortlandPDArrestee, PortlandPDIncident, PortlandPDOfficerPerson and
// PortlandPDOfficer) and three associations:
//
//   - PortlandPDArrestedIn links the arrestee to the incident and carries the
//     arrest details; its identifier is generated per row.
//   - PortlandPDArrestedBy links the arrestee to the arresting officer.
//   - PortlandPDBecomes links the officer as a person to the officer role.
//
// Column names are taken verbatim from the extract, including its
// misspellings ("Arrresting Ofc Frist Name").
//
// The same flight is available as Go declarations (Schema) and as an
// embedded flight file (File). Both compile to equivalent schemas.
package portland
