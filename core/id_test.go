package core

import (
	"strings"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID_ValidPrefix(t *testing.T) {
	testCases := []struct {
		name     string
		prefix   string
		expected string
	}{
		{name: "simple prefix", prefix: "req", expected: "req"},
		{name: "uppercase prefix gets lowercased", prefix: "REQ", expected: "req"},
		{name: "prefix with spaces gets trimmed", prefix: "  dlv  ", expected: "dlv"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			id := NewID(tc.prefix)

			parts := strings.SplitN(id, "_", 2)
			require.Len(t, parts, 2)
			assert.Equal(t, tc.expected, parts[0])

			_, err := ulid.Parse(parts[1])
			assert.NoError(t, err, "suffix should be a valid ULID")
		})
	}
}

func TestNewID_EmptyPrefixPanics(t *testing.T) {
	assert.Panics(t, func() { NewID("") })
	assert.Panics(t, func() { NewID("   ") })
}

func TestNewRequestID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewRequestID()
		assert.True(t, strings.HasPrefix(id, "req_"))
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}
