package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)

	raw, err := issuer.Issue("u-1", "chef@example.com", "chef", true)
	require.NoError(t, err)

	claims, err := issuer.Parse(raw)
	require.NoError(t, err)
	require.Equal(t, "u-1", claims.ID)
	require.Equal(t, "chef@example.com", claims.Email)
	require.Equal(t, "chef", claims.Username)
	require.True(t, claims.IsPremium)
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	raw, err := NewTokenIssuer("secret", time.Hour).Issue("u-1", "a@b.c", "a", false)
	require.NoError(t, err)

	_, err = NewTokenIssuer("other", time.Hour).Parse(raw)
	require.Error(t, err)
}

func TestTokenRejectsExpired(t *testing.T) {
	raw, err := NewTokenIssuer("secret", -time.Minute).Issue("u-1", "a@b.c", "a", false)
	require.NoError(t, err)

	_, err = NewTokenIssuer("secret", time.Hour).Parse(raw)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestTokenRejectsNoneAlg(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{ID: "u-1"})
	raw, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenIssuer("secret", time.Hour).Parse(raw)
	require.Error(t, err)
}
