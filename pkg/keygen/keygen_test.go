package keygen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFormat(t *testing.T) {
	id := New()
	parts := strings.Split(id, "-")
	require.Len(t, parts, 2, "ID should be timestamp-suffix")
	assert.NotEmpty(t, parts[0])
	assert.NotEmpty(t, parts[1])

	// Both halves are base36.
	for _, part := range parts {
		for _, r := range part {
			ok := (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z')
			assert.True(t, ok, "unexpected character %q in %q", r, id)
		}
	}
}

func TestNewUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := New()
		assert.False(t, seen[id], "duplicate ID generated: %s", id)
		seen[id] = true
	}
}
