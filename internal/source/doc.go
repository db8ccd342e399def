// Package source reads records for a flight.
//
// CSV sources sniff the delimiter of their input, take the header from the
// first row and read the remaining rows lazily. Slice sources serve
// in-memory rows.
package source
