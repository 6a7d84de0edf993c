package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secreto1", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "secreto1", hash)

	assert.True(t, VerifyPassword("secreto1", hash))
	assert.False(t, VerifyPassword("secreto2", hash))
}

func TestHashPasswordEmpty(t *testing.T) {
	_, err := HashPassword("", 4)
	assert.Error(t, err)
}
