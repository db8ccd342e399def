// Package sink delivers flights.
//
// A Sink receives one Flight per Launch call and consumes its graphs
// lazily. Only valid instances are delivered; invalid and empty ones are
// counted in the Report as skipped. Implementations:
//
//   - Shuttle posts JSON batches to an integration endpoint, with retries
//   - SQLite upserts instances into a local database
//   - YAML writes every graph, including issues, for dry runs
//   - Memory keeps graphs for tests
package sink
