package inkwell

import (
	"testing"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseTokens(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_REFRESH_SECRET", "test-refresh-secret")

	accessToken, refreshToken, err := GenerateTokens("user-123", RoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, accessToken)
	require.NotEmpty(t, refreshToken)

	t.Run("access token round-trips identity and role", func(t *testing.T) {
		token, err := ParseAccessToken(accessToken)
		require.NoError(t, err)
		assert.True(t, token.Valid)

		claims, err := ExtractClaims(token)
		require.NoError(t, err)
		assert.Equal(t, "user-123", ExtractUserId(claims))
		assert.Equal(t, RoleAdmin, ExtractRole(claims))
		assert.False(t, IsExpired(claims))
	})

	t.Run("refresh token verifies with its own secret", func(t *testing.T) {
		token, err := ParseRefreshToken(refreshToken)
		require.NoError(t, err)
		assert.True(t, token.Valid)
	})

	t.Run("access token does not verify as refresh token", func(t *testing.T) {
		token, _ := ParseRefreshToken(accessToken)
		assert.False(t, token.Valid)
	})

	t.Run("tampered token is rejected", func(t *testing.T) {
		token, _ := ParseAccessToken(accessToken + "x")
		assert.False(t, token.Valid)
	})
}

func TestExtractRole_DefaultsToUser(t *testing.T) {
	assert.Equal(t, RoleUser, ExtractRole(jwt.MapClaims{}))
	assert.Equal(t, RoleUser, ExtractRole(jwt.MapClaims{"role": 42}))
}

func TestIsExpired_MissingClaim(t *testing.T) {
	assert.True(t, IsExpired(jwt.MapClaims{}))
	assert.True(t, IsExpired(jwt.MapClaims{"exp": "tomorrow"}))
}

func TestExtractUserId_MissingClaim(t *testing.T) {
	assert.Empty(t, ExtractUserId(jwt.MapClaims{}))
	assert.Empty(t, ExtractUserId(jwt.MapClaims{"sub": 7}))
}
