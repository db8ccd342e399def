// Package cli provides the flight command-line interface.
//
// Commands:
//   - run: map a CSV payload and launch it into the configured sink
//   - validate: check a flight definition, and optionally an input header
//   - inspect: print the declarations of a flight
//   - version: print the build version
package cli
