package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
	"github.com/google/uuid"       // random session identifiers
)

// ErrInvalidSessionToken is returned for tokens that fail signature, expiry
// or subject checks.
var ErrInvalidSessionToken = errors.New("invalid session token")

// SessionToken is a signed HS256 JWT carried in the session cookie.
// ID is the token's jti; the optional server-side registry keys on it.
type SessionToken struct {
	Token string    // the serialized JWT string
	ID    string    // jti claim
	Exp   time.Time // the UTC expiration time
}

// SessionClaims is the verified content of a session token.
type SessionClaims struct {
	UserID uint64
	ID     string
	Exp    time.Time
}

// NewSessionToken builds and signs an HS256 JWT for a user.  The JWT carries
// the standard claims: subject (sub, the user ID), id (jti), expiration (exp)
// and issued at (iat).
func NewSessionToken(secret string, userID uint64, ttl time.Duration) (SessionToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	jti := uuid.NewString()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(userID, 10),
		ID:        jti,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, ID: jti, Exp: exp}, nil
}

// ParseSessionToken verifies the signature (HMAC only) and expiry of raw and
// returns its claims.
func ParseSessionToken(secret, raw string) (SessionClaims, error) {
	var claims jwt.RegisteredClaims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !tok.Valid {
		return SessionClaims{}, ErrInvalidSessionToken
	}
	uid, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || uid == 0 {
		return SessionClaims{}, ErrInvalidSessionToken
	}
	out := SessionClaims{UserID: uid, ID: claims.ID}
	if claims.ExpiresAt != nil {
		out.Exp = claims.ExpiresAt.Time
	}
	return out, nil
}
