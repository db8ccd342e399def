// Package engine maps records onto a schema.
//
// For every record the Mapper builds one instance per entity type, in
// declaration order, and then one instance per association type whose
// endpoints are the entity instances built from the same record. No state
// is carried from one record to the next.
//
// Data problems never fail a record. They are attached to the affected
// instance as issues and change its Status:
//
//   - a value that cannot be parsed or remapped becomes missing
//   - a missing required property makes the instance invalid
//   - an entity without any property values is empty
//   - an association is invalid when either endpoint is not valid
//
// The only error Map returns is a reference to a column the record does
// not have, which is a configuration mistake.
package engine
