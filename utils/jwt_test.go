package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("unit-test-secret")

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken(testSecret, "jan@example.com", "member", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(testSecret, token, TokenAccess)
	require.NoError(t, err)
	assert.Equal(t, "jan@example.com", claims.Email)
	assert.Equal(t, "member", claims.Role)
	assert.Equal(t, TokenAccess, claims.Type)
}

func TestRefreshTokenIsNotAccessToken(t *testing.T) {
	token, err := GenerateRefreshToken(testSecret, "jan@example.com", time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(testSecret, token, TokenAccess)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	claims, err := ParseToken(testSecret, token, TokenRefresh)
	require.NoError(t, err)
	assert.Empty(t, claims.Role)
}

func TestParseTokenRejectsExpiredAndForeign(t *testing.T) {
	expired, err := GenerateAccessToken(testSecret, "jan@example.com", "member", -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(testSecret, expired, TokenAccess)
	assert.Error(t, err)

	token, err := GenerateAccessToken([]byte("someone-else"), "jan@example.com", "member", time.Hour)
	require.NoError(t, err)
	_, err = ParseToken(testSecret, token, TokenAccess)
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("s3cret!", hash))
	assert.False(t, CheckPasswordHash("guess", hash))
}
