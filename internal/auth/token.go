// Package auth issues magic-link tokens and signs/verifies session tokens.
package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// magicLinkTokenBytes gives 256 bits of entropy.
const magicLinkTokenBytes = 32

var (
	// ErrInvalidSession covers every expected decode failure: malformed,
	// expired or badly signed tokens. Callers must not learn which.
	ErrInvalidSession = errors.New("invalid or expired session token")

	ErrMissingSigningKey  = errors.New("session signing key is required")
	ErrUnsupportedSigning = errors.New("unsupported session signing algorithm")
)

// GenerateMagicLinkToken returns a URL-safe random token. Uniqueness is left
// to the storage constraint.
func GenerateMagicLinkToken() (string, error) {
	raw := make([]byte, magicLinkTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// SessionClaims are the claims carried by a session token. Subject holds the
// user id.
type SessionClaims struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Identity is what a session token is minted for.
type Identity struct {
	Subject  string
	Email    string
	Username string
}

// Codec signs and verifies session tokens with one process-wide key and
// algorithm.
type Codec struct {
	key    []byte
	method jwt.SigningMethod
	ttl    time.Duration
	now    func() time.Time
}

func NewCodec(secret, algorithm string, ttl time.Duration) (*Codec, error) {
	if secret == "" {
		return nil, ErrMissingSigningKey
	}

	var method jwt.SigningMethod
	switch algorithm {
	case "", "HS256":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSigning, algorithm)
	}

	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}

	return &Codec{key: []byte(secret), method: method, ttl: ttl, now: time.Now}, nil
}

func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// CreateSessionToken signs the identity with issued-at and expiry claims.
func (c *Codec) CreateSessionToken(id Identity) (string, time.Time, error) {
	issuedAt := c.now()
	expiresAt := issuedAt.Add(c.ttl)

	claims := SessionClaims{
		Email:    id.Email,
		Username: id.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Subject,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(c.method, claims).SignedString(c.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, expiresAt, nil
}

// DecodeSessionToken verifies signature and expiry and returns the claims.
func (c *Codec) DecodeSessionToken(token string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, c.Keyfunc,
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

// Keyfunc resolves the verification key and rejects tokens signed with any
// other algorithm.
func (c *Codec) Keyfunc(t *jwt.Token) (interface{}, error) {
	if t.Method.Alg() != c.method.Alg() {
		return nil, fmt.Errorf("unexpected signing method %s", t.Method.Alg())
	}
	return c.key, nil
}
