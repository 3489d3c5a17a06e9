package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionToken_RoundTrip(t *testing.T) {
	tok, err := NewSessionToken("secret", 42, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, tok.ID)

	claims, err := ParseSessionToken("secret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, tok.ID, claims.ID)
	assert.WithinDuration(t, tok.Exp, claims.Exp, time.Second)
}

func TestParseSessionToken_Rejects(t *testing.T) {
	good, err := NewSessionToken("secret", 7, time.Hour)
	require.NoError(t, err)
	expired, err := NewSessionToken("secret", 7, -time.Minute)
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "7",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		secret string
		raw    string
	}{
		{"wrong secret", "other", good.Token},
		{"expired", "secret", expired.Token},
		{"none alg", "secret", noneAlg},
		{"missing subject", "secret", noSubject},
		{"garbage", "secret", "not.a.jwt"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseSessionToken(tc.secret, tc.raw)
			assert.ErrorIs(t, err, ErrInvalidSessionToken)
		})
	}
}
