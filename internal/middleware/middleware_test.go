package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/polito-log/backend/internal/auth"
	"github.com/polito-log/backend/internal/dto"
	"github.com/polito-log/backend/internal/models"
	"github.com/polito-log/backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-secret"

type stubAuthenticator struct {
	users map[string]*models.User
	err   error
}

func (s stubAuthenticator) Authenticate(_ context.Context, claims *auth.SessionClaims) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[claims.Subject]
	if !ok || !u.IsActive {
		return nil, services.ErrUnauthenticated
	}
	return u, nil
}

func newCodec(t *testing.T) *auth.Codec {
	t.Helper()
	c, err := auth.NewCodec(testSecret, "HS256", time.Hour)
	require.NoError(t, err)
	return c
}

func sessionFor(t *testing.T, codec *auth.Codec, u *models.User) string {
	t.Helper()
	tok, _, err := codec.CreateSessionToken(auth.Identity{Subject: u.ID.String(), Email: u.Email, Username: u.Username})
	require.NoError(t, err)
	return tok
}

func whoami(c *fiber.Ctx) error {
	if u := CurrentUser(c); u != nil {
		return c.SendString(u.Username)
	}
	return c.SendString("anonymous")
}

func do(t *testing.T, app *fiber.App, token string) (int, string, string) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body), resp.Header.Get(fiber.HeaderWWWAuthenticate)
}

func TestRequireUser(t *testing.T) {
	codec := newCodec(t)
	active := &models.User{ID: uuid.New(), Username: "jane", IsActive: true, Role: models.RoleDefault}
	inactive := &models.User{ID: uuid.New(), Username: "gone", IsActive: false, Role: models.RoleDefault}
	users := stubAuthenticator{users: map[string]*models.User{
		active.ID.String():   active,
		inactive.ID.String(): inactive,
	}}

	app := fiber.New()
	app.Get("/", RequireUser(codec, users), whoami)

	status, body, _ := do(t, app, sessionFor(t, codec, active))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "jane", body)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": active.ID.String()}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	otherKey, err := auth.NewCodec("another-secret", "HS256", time.Hour)
	require.NoError(t, err)
	issued := time.Now().Add(-2 * time.Hour)
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.SessionClaims{
		Username: active.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   active.ID.String(),
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	cases := map[string]string{
		"missing header": "",
		"garbage":        "abc.def.ghi",
		"wrong key":      sessionFor(t, otherKey, active),
		"no expiry":      noExp,
		"expired":        expired,
		"inactive user":  sessionFor(t, codec, inactive),
		"unknown user":   sessionFor(t, codec, &models.User{ID: uuid.New()}),
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			status, body, challenge := do(t, app, tok)
			assert.Equal(t, fiber.StatusUnauthorized, status)
			assert.Equal(t, "Bearer", challenge)

			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal([]byte(body), &resp))
			assert.True(t, resp.Error)
			assert.Equal(t, "Could not validate credentials", resp.Message)
		})
	}
}

func TestRequireUser_AuthenticatorFailure(t *testing.T) {
	codec := newCodec(t)
	u := &models.User{ID: uuid.New(), Username: "jane", IsActive: true}

	app := fiber.New()
	app.Get("/", RequireUser(codec, stubAuthenticator{err: errors.New("db down")}), whoami)

	status, _, _ := do(t, app, sessionFor(t, codec, u))
	assert.Equal(t, fiber.StatusInternalServerError, status)
}

func TestOptionalUser(t *testing.T) {
	codec := newCodec(t)
	u := &models.User{ID: uuid.New(), Username: "jane", IsActive: true}
	users := stubAuthenticator{users: map[string]*models.User{u.ID.String(): u}}

	app := fiber.New()
	app.Get("/", OptionalUser(codec, users), whoami)

	status, body, _ := do(t, app, sessionFor(t, codec, u))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "jane", body)

	for _, tok := range []string{"", "not-a-token"} {
		status, body, _ := do(t, app, tok)
		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "anonymous", body)
	}
}

func TestRoleRequired(t *testing.T) {
	codec := newCodec(t)
	admin := &models.User{ID: uuid.New(), Username: "root", IsActive: true, Role: models.RoleAdmin}
	plain := &models.User{ID: uuid.New(), Username: "jane", IsActive: true, Role: models.RoleDefault}
	users := stubAuthenticator{users: map[string]*models.User{
		admin.ID.String(): admin,
		plain.ID.String(): plain,
	}}

	app := fiber.New()
	app.Get("/", RequireUser(codec, users), AdminRequired(), whoami)

	status, body, _ := do(t, app, sessionFor(t, codec, admin))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "root", body)

	status, _, _ = do(t, app, sessionFor(t, codec, plain))
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestRoleRequired_WithoutUser(t *testing.T) {
	app := fiber.New()
	app.Get("/", RoleRequired(models.RoleAdmin, models.RoleModerator), whoami)

	status, _, challenge := do(t, app, "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "Bearer", challenge)
}
