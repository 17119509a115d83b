package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/cropwise-guidance-service/internal/domain"
)

const testSecret = "test-secret"

func TestHashAndVerifyPassword(t *testing.T) {
	hashed, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hashed)

	assert.True(t, VerifyPassword("hunter2", hashed))
	assert.False(t, VerifyPassword("wrong", hashed))
	assert.False(t, VerifyPassword("hunter2", "not-a-hash"))
}

func TestHashPassword_SaltedPerCall(t *testing.T) {
	h1, err := HashPassword("hunter2")
	require.NoError(t, err)
	h2, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, 24*time.Hour, nil)

	token, err := issuer.Issue("ravi")
	require.NoError(t, err)

	sub, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "ravi", sub)
}

func TestTokenExpiry(t *testing.T) {
	clock := clockwork.NewFakeClock()
	issuer := NewTokenIssuer(testSecret, 24*time.Hour, clock)

	token, err := issuer.Issue("ravi")
	require.NoError(t, err)

	// Still valid just inside the window.
	clock.Advance(23 * time.Hour)
	_, err = issuer.Verify(token)
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)
	_, err = issuer.Verify(token)
	require.Error(t, err)
	var derr *domain.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domain.KindUnauthorized, derr.Kind)
}

func TestVerify_FailsClosed(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, 24*time.Hour, nil)

	t.Run("garbage token", func(t *testing.T) {
		_, err := issuer.Verify("not-a-token")
		require.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenIssuer("other-secret", 24*time.Hour, nil)
		token, err := other.Issue("ravi")
		require.NoError(t, err)
		_, err = issuer.Verify(token)
		require.Error(t, err)
	})

	t.Run("missing subject", func(t *testing.T) {
		claims := jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}
		raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)
		_, err = issuer.Verify(raw)
		require.Error(t, err)
	})

	t.Run("unsigned algorithm", func(t *testing.T) {
		claims := jwt.MapClaims{"sub": "ravi"}
		raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = issuer.Verify(raw)
		require.Error(t, err)
	})
}
