// Package mapping provides YAML flight definitions, parsing, validation,
// and compilation into a schema.Schema.
//
// A flight file lets a data integrator declare a flight without writing Go.
// Named normalizers replace the hand-written value functions of a Go
// flight, and every declaration compiles to the same builder calls.
//
// # File Overview
//
//	version: "1"
//	name: PortlandPD
//	settings:
//	  timezone: America/New_York
//	  date_pattern: yyyy-MM-dd
//	normalizers:
//	  - name: standardSex
//	    kind: enum
//	    column: ARRESTEE SEX (10) eng
//	    table: {FEMALE: F, MALE: M}
//	    missing: [UNKNOWN]
//	  - name: standardAddress
//	    kind: concat
//	    column: [Arrest Location St#, Arrest Location Whole Street Name]
//	  - name: birthDate
//	    kind: date                  # timezone and pattern default to settings
//	    column: Arrestee DOB Date
//	entities:
//	  - name: PortlandPDArrestee
//	    set: PortlandPDArrestee     # defaults to name
//	    key: [nc.PersonGivenName]   # defaults to every property
//	    properties:
//	      - {key: nc.PersonGivenName, column: Arrestee First Name}
//	      - {key: nc.PersonSex, normalizer: standardSex, required: true}
//	associations:
//	  - name: PortlandPDArrestedIn
//	    from: PortlandPDArrestee
//	    to: PortlandPDIncident
//	    id: {generated: true}
//	  - name: PortlandPDArrestedBy
//	    from: PortlandPDArrestee
//	    to: PortlandPDOfficer
//	    properties:
//	      - {key: general.StringID, column: Arrest Incident Number}
//	    id: {derived: [general.StringID]}
//
// # Normalizer Kinds
//
//   - column: passthrough of one column
//   - enum: table lookup; "missing" lists values that map to nothing
//   - concat: two or more columns; "separator" and "partial" are optional
//   - date: "timezone" and "pattern" override the file settings
//   - int: base-10 integer
//   - case: "mode" is upper, lower or title
//
// Properties reference normalizers by name. Names are resolved against the
// file first and then against the registry passed to Compile, so Go code
// can contribute normalizers a file cannot express.
package mapping
