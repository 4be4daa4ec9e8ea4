package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/polito-log/backend/internal/dto"
	"github.com/polito-log/backend/internal/models"
	"github.com/polito-log/backend/internal/services"
	"github.com/polito-log/backend/internal/validator"
)

type UserAdmin interface {
	UpdateUserAccess(ctx context.Context, id uuid.UUID, req *dto.UpdateUserAccessRequest) (*models.User, error)
	CleanupExpiredMagicLinks(ctx context.Context) (int64, error)
}

type AdminHandler struct {
	admin    UserAdmin
	validate *validator.Validator
}

func NewAdminHandler(admin UserAdmin, validate *validator.Validator) *AdminHandler {
	return &AdminHandler{admin: admin, validate: validate}
}

func (h *AdminHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid user ID")
	}

	var req dto.UpdateUserAccessRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}

	user, err := h.admin.UpdateUserAccess(c.UserContext(), id, &req)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "User not found")
		}
		return internalError(c, err)
	}

	return c.JSON(dto.NewUserResponse(user))
}

func (h *AdminHandler) CleanupMagicLinks(c *fiber.Ctx) error {
	n, err := h.admin.CleanupExpiredMagicLinks(c.UserContext())
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(dto.CleanupResponse{Deleted: n})
}
