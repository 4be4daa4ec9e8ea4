package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/polito-log/backend/internal/dto"
	"github.com/polito-log/backend/internal/middleware"
	"github.com/polito-log/backend/internal/models"
	"github.com/polito-log/backend/internal/services"
	"github.com/polito-log/backend/internal/validator"
)

type MagicLinkAuth interface {
	RequestMagicLink(ctx context.Context, req *dto.MagicLinkRequest) (*dto.MagicLinkResponse, error)
	VerifyMagicLink(ctx context.Context, req *dto.VerifyRequest) (*dto.TokenResponse, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, req *dto.UpdateProfileRequest) (*models.User, error)
}

type AuthHandler struct {
	authService MagicLinkAuth
	validate    *validator.Validator
}

func NewAuthHandler(authService MagicLinkAuth, validate *validator.Validator) *AuthHandler {
	return &AuthHandler{authService: authService, validate: validate}
}

func (h *AuthHandler) RequestMagicLink(c *fiber.Ctx) error {
	var req dto.MagicLinkRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}

	resp, err := h.authService.RequestMagicLink(c.UserContext(), &req)
	if err != nil {
		if errors.Is(err, services.ErrDeliveryFailed) {
			return errorJSON(c, fiber.StatusInternalServerError, "Failed to send magic link email")
		}
		return internalError(c, err)
	}

	return c.JSON(resp)
}

func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	var req dto.VerifyRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}

	resp, err := h.authService.VerifyMagicLink(c.UserContext(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidMagicLink):
			return errorJSON(c, fiber.StatusUnauthorized, "Invalid or expired magic link")
		case errors.Is(err, services.ErrUsernameTaken):
			return errorJSON(c, fiber.StatusConflict, "Account could not be created, please try again")
		}
		return internalError(c, err)
	}

	return c.JSON(resp)
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Could not validate credentials")
	}
	return c.JSON(dto.NewUserResponse(user))
}

func (h *AuthHandler) UpdateMe(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Could not validate credentials")
	}

	var req dto.UpdateProfileRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}

	updated, err := h.authService.UpdateProfile(c.UserContext(), user.ID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUsernameTaken):
			return errorJSON(c, fiber.StatusBadRequest, "Username already taken")
		case errors.Is(err, services.ErrUserNotFound):
			return errorJSON(c, fiber.StatusNotFound, "User not found")
		}
		return internalError(c, err)
	}

	return c.JSON(dto.NewUserResponse(updated))
}
