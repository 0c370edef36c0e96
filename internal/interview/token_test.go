package interview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenIsUniqueAndURLSafe(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		raw, digest, err := NewToken()
		require.NoError(t, err)
		assert.NotContains(t, raw, "+")
		assert.NotContains(t, raw, "/")
		assert.NotContains(t, raw, "=")
		assert.Len(t, digest, 64, "hex sha256")
		assert.False(t, seen[raw], "token collision")
		seen[raw] = true
	}
}

func TestHashTokenIgnoresSurroundingWhitespace(t *testing.T) {
	assert.Equal(t, HashToken("abc123"), HashToken("  abc123\n"))
	assert.NotEqual(t, HashToken("abc123"), HashToken("abc124"))
}
