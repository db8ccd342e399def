// Package diagnostic provides structured warnings and errors collected
// while validating flight declarations.
//
// Key capabilities:
//   - Schema errors tied to a declaration (entity or association) and property
//   - "Did you mean" suggestions for misspelled references
//   - A combined error value for callers that only need pass/fail
package diagnostic
