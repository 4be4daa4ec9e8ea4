package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/polito-log/backend/internal/dto"
	"github.com/polito-log/backend/internal/models"
)

// RoleRequired must run after RequireUser. It rejects users whose role is
// not listed.
func RoleRequired(roles ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return unauthorized(c)
		}

		if contains(roles, user.Role) {
			return c.Next()
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Insufficient permissions",
		})
	}
}

// AdminRequired restricts a route to admins.
func AdminRequired() fiber.Handler {
	return RoleRequired(models.RoleAdmin)
}

func contains(list []models.UserRole, val models.UserRole) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
