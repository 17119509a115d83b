package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/cropwise-guidance-service/internal/domain"
)

// TokenIssuer mints and verifies HS256 bearer tokens. The clock is
// injected so tests can exercise expiry deterministically.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	clock  clockwork.Clock
}

// NewTokenIssuer creates a TokenIssuer. Pass a nil clock to use real
// time.
func NewTokenIssuer(secret string, ttl time.Duration, clock clockwork.Clock) *TokenIssuer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, clock: clock}
}

// Issue signs a token with the username as subject, expiring after the
// configured TTL.
func (i *TokenIssuer) Issue(username string) (string, error) {
	claims := jwt.MapClaims{
		"sub": username,
		"exp": i.clock.Now().Add(i.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning its subject. It fails
// closed: any decode error, signature mismatch, expiry, unexpected
// signing method, or missing subject yields an unauthorized error.
func (i *TokenIssuer) Verify(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return i.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.clock.Now),
	)
	if err != nil || !token.Valid {
		return "", domain.Unauthorized("Could not validate credentials")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", domain.Unauthorized("Could not validate credentials")
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", domain.Unauthorized("Could not validate credentials")
	}
	return sub, nil
}
