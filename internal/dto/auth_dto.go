package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/polito-log/backend/internal/models"
)

type MagicLinkRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
}

type MagicLinkResponse struct {
	Message string `json:"message"`
	Email   string `json:"email"`
}

type VerifyRequest struct {
	Token string `json:"token" validate:"required,max=255"`
}

type TokenResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresAt   time.Time   `json:"expires_at"`
	User        SessionUser `json:"user"`
}

type SessionUser struct {
	ID       uuid.UUID       `json:"id"`
	Email    string          `json:"email"`
	Username string          `json:"username"`
	Role     models.UserRole `json:"role"`
}

type UpdateProfileRequest struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=100"`
}

type UpdateUserAccessRequest struct {
	Role     *models.UserRole `json:"role" validate:"omitempty,user_role"`
	IsActive *bool            `json:"is_active"`
}

type UserResponse struct {
	ID          uuid.UUID       `json:"id"`
	Email       string          `json:"email"`
	Username    string          `json:"username"`
	IsActive    bool            `json:"is_active"`
	Role        models.UserRole `json:"role"`
	LastLoginAt *time.Time      `json:"last_login_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Username:    u.Username,
		IsActive:    u.IsActive,
		Role:        u.Role,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

type CleanupResponse struct {
	Deleted int64 `json:"deleted"`
}

type ErrorResponse struct {
	Error   bool              `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type HealthResponse struct {
	Status      string `json:"status"`
	Service     string `json:"service"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
	Timestamp   string `json:"timestamp"`
	DB          string `json:"db"`
}

type APIInfoResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
}
