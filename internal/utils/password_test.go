package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, CheckPassword("s3cret-pass", hash))
	assert.False(t, CheckPassword("wrong-pass", hash))
}

func TestHashPasswordSaltsEachCall(t *testing.T) {
	first, err := HashPassword("same-input")
	require.NoError(t, err)
	second, err := HashPassword("same-input")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestGenerateResetToken(t *testing.T) {
	raw, hashed, err := GenerateResetToken()
	require.NoError(t, err)

	assert.Len(t, raw, 40, "20 random bytes hex-encoded")
	assert.Equal(t, hashed, HashResetToken(raw))
	assert.NotEqual(t, raw, hashed)
}
