package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for tokens that fail signature, expiry or
// claim checks.
var ErrInvalidToken = errors.New("invalid token")

// SessionToken represents a signed JWT session token along with its expiry.
// It is the only bearer of session identity: nothing is stored server side,
// so a token stays valid until Exp even after logout.
type SessionToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// SessionClaims are the claims carried by a session token.  Subject holds the
// decimal user id.
type SessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// UserID decodes the subject claim.
func (c SessionClaims) UserID() (uint64, error) {
	return strconv.ParseUint(c.Subject, 10, 64)
}

// NewSessionToken builds and signs an HS256 JWT for a user.  The token
// includes sub (user id), role, exp and iat.
func NewSessionToken(secret string, userID uint64, role string, ttl time.Duration) (SessionToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := SessionClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}

// ParseSessionToken verifies raw with secret and returns its claims.  Only
// HMAC-signed tokens are accepted.
func ParseSessionToken(secret, raw string) (SessionClaims, error) {
	var claims SessionClaims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil || !tok.Valid {
		return SessionClaims{}, ErrInvalidToken
	}
	if _, err := claims.UserID(); err != nil {
		return SessionClaims{}, ErrInvalidToken
	}
	return claims, nil
}
