package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the session id inside the signed cookie value.
type Claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// Signer mints and verifies the HS256 tokens used as session cookie values.
// Signing makes the cookie tamper-evident; the session itself lives server-side.
type Signer struct {
	key    []byte
	issuer string
}

// NewSigner creates a signer for the given key and issuer.
func NewSigner(key, issuer string) *Signer {
	return &Signer{key: []byte(key), issuer: issuer}
}

// Sign wraps a session id in a signed token expiring with the session.
func (s *Signer) Sign(sessionID string, expiresAt time.Time) (string, error) {
	claims := Claims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
}

// Parse validates a token and returns the embedded session id.
func (s *Signer) Parse(tokenStr string) (string, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return s.key, nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return "", errors.New("invalid token")
	}
	if s.issuer != "" && claims.Issuer != s.issuer {
		return "", errors.New("issuer mismatch")
	}
	if claims.SessionID == "" {
		return "", errors.New("missing session id")
	}
	return claims.SessionID, nil
}
