// Package gen generates Go source that declares a flight.
//
// A flight file compiles to the same schema at runtime; the generated
// builder function lets a flight live in Go code instead, reviewed and
// versioned like any other source. Generation uses text/template and
// go/format, and the output is deterministic for a given file.
package gen
