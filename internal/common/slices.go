package common

import (
	"cmp"
	"maps"
	"slices"
)

// UnknownStr is returned by String methods for out-of-range enum values.
const UnknownStr = "unknown"

// First returns the first element of the slice and true, or the zero value and false if empty.
func First[S ~[]E, E any](s S) (E, bool) {
	if len(s) == 0 {
		var zero E
		return zero, false
	}

	return s[0], true
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[M ~map[K]V, K cmp.Ordered, V any](m M) []K {
	return slices.Sorted(maps.Keys(m))
}

// Duplicates returns every element of s that repeats an earlier element.
func Duplicates[S ~[]E, E comparable](s S) []E {
	seen := make(map[E]struct{}, len(s))

	var dups []E

	for _, v := range s {
		if _, ok := seen[v]; ok {
			dups = append(dups, v)
			continue
		}

		seen[v] = struct{}{}
	}

	return dups
}
