// Package launch runs one flight: it checks the source header against the
// schema, maps records lazily and hands the resulting graphs to a sink.
package launch
