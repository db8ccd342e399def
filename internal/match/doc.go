// Package match provides name normalization, Levenshtein distance calculation
// and "did you mean" suggestions for column, entity and normalizer names.
//
// Key functions:
//   - NormalizeName: normalizes names for fuzzy comparison
//   - Levenshtein: computes edit distance between strings
//   - Suggest: ranks known names by similarity to an unknown one
package match
