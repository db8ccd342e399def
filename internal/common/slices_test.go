package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirst(t *testing.T) {
	v, ok := First([]string{"a", "b"})
	assert.True(t, ok)
	assert.Equal(t, "a", v)

	v, ok = First([]string(nil))
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestSortedKeys(t *testing.T) {
	keys := SortedKeys(map[string]int{"b": 1, "c": 2, "a": 3})
	assert.Equal(t, []string{"a", "b", "c"}, keys)
}

func TestDuplicates(t *testing.T) {
	assert.Empty(t, Duplicates([]string{"a", "b", "c"}))
	assert.Equal(t, []string{"a", "b"}, Duplicates([]string{"a", "b", "a", "c", "b"}))
}
