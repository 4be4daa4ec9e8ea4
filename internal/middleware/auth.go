package middleware

import (
	"context"
	"errors"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/polito-log/backend/internal/auth"
	"github.com/polito-log/backend/internal/dto"
	"github.com/polito-log/backend/internal/models"
	"github.com/polito-log/backend/internal/services"
)

const (
	tokenKey       = "session"
	currentUserKey = "currentUser"
)

// Authenticator resolves verified session claims to a user.
type Authenticator interface {
	Authenticate(ctx context.Context, claims *auth.SessionClaims) (*models.User, error)
}

// RequireUser rejects the request unless it carries a valid bearer token for
// an active user.
func RequireUser(codec *auth.Codec, users Authenticator) fiber.Handler {
	return jwtware.New(jwtware.Config{
		ContextKey:     tokenKey,
		Claims:         &auth.SessionClaims{},
		KeyFunc:        codec.Keyfunc,
		SuccessHandler: resolveUser(users, false),
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return unauthorized(c)
		},
	})
}

// OptionalUser attaches the user when a valid bearer token is present and
// lets every request through.
func OptionalUser(codec *auth.Codec, users Authenticator) fiber.Handler {
	return jwtware.New(jwtware.Config{
		ContextKey:     tokenKey,
		Claims:         &auth.SessionClaims{},
		KeyFunc:        codec.Keyfunc,
		SuccessHandler: resolveUser(users, true),
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Next()
		},
		Filter: func(c *fiber.Ctx) bool {
			return c.Get(fiber.HeaderAuthorization) == ""
		},
	})
}

func resolveUser(users Authenticator, optional bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, _ := c.Locals(tokenKey).(*jwt.Token)
		claims, ok := sessionClaims(token)

		var user *models.User
		if ok {
			var err error
			user, err = users.Authenticate(c.UserContext(), claims)
			if err != nil && !errors.Is(err, services.ErrUnauthenticated) {
				return err
			}
		}

		if user == nil {
			if optional {
				return c.Next()
			}
			return unauthorized(c)
		}

		c.Locals(currentUserKey, user)
		return c.Next()
	}
}

// sessionClaims also enforces the expiry claim, which the bearer parser
// treats as optional.
func sessionClaims(token *jwt.Token) (*auth.SessionClaims, bool) {
	if token == nil || !token.Valid {
		return nil, false
	}
	claims, ok := token.Claims.(*auth.SessionClaims)
	if !ok || claims.ExpiresAt == nil || claims.Subject == "" {
		return nil, false
	}
	return claims, true
}

// CurrentUser returns the user attached by RequireUser or OptionalUser.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(currentUserKey).(*models.User)
	return user
}

func unauthorized(c *fiber.Ctx) error {
	c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error:   true,
		Message: "Could not validate credentials",
	})
}
