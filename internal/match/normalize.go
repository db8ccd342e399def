package match

import (
	"strings"
	"unicode"
)

// NormalizeName normalizes a column or declaration name for fuzzy matching.
// The normalization pipeline:
// 1. Tokenize on punctuation, whitespace and CamelCase boundaries.
// 2. Case-fold every token to lower.
// 3. Join the tokens without separators.
//
// "ARRESTEE SEX (10) eng" and "arrestee_sex_10_eng" both normalize to
// "arresteesex10eng".
func NormalizeName(s string) string {
	return strings.Join(TokenizeName(s), "")
}

// TokenizeName splits a name into normalized lowercase tokens.
func TokenizeName(s string) []string {
	tokens := tokenize(s)
	for i, t := range tokens {
		tokens[i] = strings.ToLower(t)
	}

	return tokens
}

// tokenize splits a string into tokens at separators and CamelCase boundaries.
// Examples:
//   - "PortlandPDArrestee" -> ["Portland", "PD", "Arrestee"]
//   - "Arrest Location St#" -> ["Arrest", "Location", "St"]
//   - "nc.PersonGivenName" -> ["nc", "Person", "Given", "Name"]
func tokenize(s string) []string {
	if s == "" {
		return nil
	}

	var tokens []string

	var current strings.Builder

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}

			continue
		}

		if i > 0 && shouldStartNewToken(runes, i) && current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}

		current.WriteRune(r)
	}

	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}

// isSeparator returns true for anything that is not a letter or a digit.
func isSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// shouldStartNewToken determines if a new token should start at position i.
func shouldStartNewToken(runes []rune, i int) bool {
	r := runes[i]
	prev := runes[i-1]
	isUpper := unicode.IsUpper(r)
	isPrevUpper := unicode.IsUpper(prev)

	// "personName" -> split before 'N'
	if isUpper && !isPrevUpper && !isSeparator(prev) && !unicode.IsDigit(prev) {
		return true
	}

	// "PDArrestee" -> "PD" + "Arrestee", split before 'A'
	hasNextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])

	return isUpper && isPrevUpper && hasNextLower
}
