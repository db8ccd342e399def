// Package normalize provides the normalizer registry: pure functions that turn
// one or more raw record fields into a normalized Value.
//
// # Built-in normalizers
//
//   - Column: passthrough of a single column
//   - Enum: exact, case-sensitive lookup table with explicit "unknown" sentinels
//   - Concat: joins several columns with a separator
//   - Date: parses a date or timestamp in a fixed time zone
//   - Int: parses a base-10 integer
//   - Case: upper, lower or title casing
//
// # Missing values
//
// Every normalizer maps a missing input (absent, empty or whitespace-only) to
// Missing without error. Bad input is reported with a soft error next to a
// Missing value:
//
//   - *ParseError: a typed normalizer could not parse a present value
//   - *UnmappedValueError: an enum value is neither mapped nor a sentinel
//
// Callers decide whether a soft error matters; the mapping engine records it
// and keeps going.
//
// Normalizers are referentially transparent: the same fields always produce
// the same Value and error, and no normalizer keeps state between calls.
package normalize
