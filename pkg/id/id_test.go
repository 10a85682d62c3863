package id

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIsUniqueAndOrdered(t *testing.T) {
	const n = 100

	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		ids = append(ids, New())
	}

	seen := make(map[string]bool, n)
	for _, id := range ids {
		assert.Len(t, id, 26)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}

	assert.True(t, sort.StringsAreSorted(ids))
}
