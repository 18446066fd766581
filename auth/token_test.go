package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestTokenSigner_RoundTrip(t *testing.T) {
	signer := NewTokenSigner("secret")

	token, err := signer.Sign("sid-1", 5, time.Hour)
	require.NoError(t, err)

	claims, err := signer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "sid-1", claims.SessionID)
	assert.Equal(t, int64(5), claims.UserID)
	assert.Equal(t, tokenIssuer, claims.Issuer)
}

func TestTokenSigner_Rejects(t *testing.T) {
	signer := NewTokenSigner("secret")

	t.Run("wrong key", func(t *testing.T) {
		token, err := NewTokenSigner("other").Sign("sid", 1, time.Hour)
		require.NoError(t, err)
		_, err = signer.Parse(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		past := NewTokenSigner("secret")
		past.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, err := past.Sign("sid", 1, time.Hour)
		require.NoError(t, err)
		_, err = signer.Parse(token)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("none algorithm", func(t *testing.T) {
		tok := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{SessionID: "sid", UserID: 1})
		s, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = signer.Parse(s)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := signer.Parse("not.a.token")
		assert.Error(t, err)
	})
}

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)
	assert.True(t, h.Verify("s3cret", hash))
	assert.False(t, h.Verify("S3cret", hash))

	// Same password, different salt.
	other, err := h.Hash("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other)

	assert.NotPanics(t, func() { h.CompareDummy("whatever") })

	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).Cost)
}

func TestBcryptHasher_DummyHashReadyAtConstruction(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	// The first unknown-user login must not pay for generating the dummy hash.
	require.NotEmpty(t, h.dummy)
	cost, err := bcrypt.Cost(h.dummy)
	require.NoError(t, err)
	assert.Equal(t, h.Cost, cost)

	before := string(h.dummy)
	h.CompareDummy("whatever")
	assert.Equal(t, before, string(h.dummy))
}
