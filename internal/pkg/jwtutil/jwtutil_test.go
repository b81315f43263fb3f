package jwtutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken("test-secret", time.Hour, 42, "alice", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken("test-secret", token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "admin", claims.Role)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken("test-secret", time.Hour, 1, "bob", "user")
	require.NoError(t, err)

	_, err = ParseToken("other-secret", token)
	assert.Error(t, err)
}

func TestParseToken_Expired(t *testing.T) {
	token, err := GenerateToken("test-secret", -time.Minute, 1, "bob", "user")
	require.NoError(t, err)

	_, err = ParseToken("test-secret", token)
	assert.Error(t, err)
}
