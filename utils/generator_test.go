package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAPIKey(t *testing.T) {
	key, err := GenerateAPIKey()
	require.NoError(t, err)

	assert.Regexp(t, `^DG_[0-9a-f]{48}$`, key)
	assert.LessOrEqual(t, len(key), 64)
}

func TestGenerateAPIKeyIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		key, err := GenerateAPIKey()
		require.NoError(t, err)
		assert.False(t, seen[key], "duplicate key generated: %s", key)
		seen[key] = true
	}
}
