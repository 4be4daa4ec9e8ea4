package auth

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateMagicLinkToken(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		tok, err := GenerateMagicLinkToken()
		require.NoError(t, err)

		raw, err := base64.RawURLEncoding.DecodeString(tok)
		require.NoError(t, err, "token must be url-safe base64")
		assert.Len(t, raw, 32)

		_, dup := seen[tok]
		assert.False(t, dup, "duplicate token %q", tok)
		seen[tok] = struct{}{}
	}
}

func TestNewCodec(t *testing.T) {
	t.Parallel()

	_, err := NewCodec("", "HS256", time.Hour)
	assert.ErrorIs(t, err, ErrMissingSigningKey)

	_, err = NewCodec("k", "RS256", time.Hour)
	assert.ErrorIs(t, err, ErrUnsupportedSigning)

	c, err := NewCodec("k", "", 0)
	require.NoError(t, err)
	assert.Equal(t, 7*24*time.Hour, c.TTL())
}

func TestSessionToken_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, alg := range []string{"HS256", "HS384", "HS512"} {
		alg := alg
		t.Run(alg, func(t *testing.T) {
			t.Parallel()

			c, err := NewCodec("super-secret", alg, time.Hour)
			require.NoError(t, err)

			id := Identity{Subject: "7b1c1c0e-8f3a-4c55-9f0e-3a9d7c1e2b44", Email: "new.user@example.com", Username: "new.user"}
			tok, expiresAt, err := c.CreateSessionToken(id)
			require.NoError(t, err)
			assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

			claims, err := c.DecodeSessionToken(tok)
			require.NoError(t, err)
			assert.Equal(t, id.Subject, claims.Subject)
			assert.Equal(t, id.Email, claims.Email)
			assert.Equal(t, id.Username, claims.Username)
			require.NotNil(t, claims.IssuedAt)
			require.NotNil(t, claims.ExpiresAt)
			assert.Equal(t, expiresAt.Unix(), claims.ExpiresAt.Unix())
		})
	}
}

func TestDecodeSessionToken_Expired(t *testing.T) {
	t.Parallel()

	c, err := NewCodec("secret", "HS256", time.Hour)
	require.NoError(t, err)

	issued := time.Now()
	c.now = func() time.Time { return issued }
	tok, _, err := c.CreateSessionToken(Identity{Subject: "u1"})
	require.NoError(t, err)

	c.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = c.DecodeSessionToken(tok)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestDecodeSessionToken_Invalid(t *testing.T) {
	t.Parallel()

	c, err := NewCodec("right-secret", "HS256", time.Hour)
	require.NoError(t, err)
	other, err := NewCodec("wrong-secret", "HS256", time.Hour)
	require.NoError(t, err)
	otherAlg, err := NewCodec("right-secret", "HS512", time.Hour)
	require.NoError(t, err)

	foreign, _, err := other.CreateSessionToken(Identity{Subject: "u1"})
	require.NoError(t, err)
	wrongAlg, _, err := otherAlg.CreateSessionToken(Identity{Subject: "u1"})
	require.NoError(t, err)
	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1"}).SignedString([]byte("right-secret"))
	require.NoError(t, err)
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "u1"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := map[string]string{
		"empty":           "",
		"malformed":       "not.a.jwt",
		"bad signature":   foreign,
		"other algorithm": wrongAlg,
		"no expiry":       noExp,
		"alg none":        unsigned,
	}

	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			claims, err := c.DecodeSessionToken(tok)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, ErrInvalidSession)
		})
	}
}
