package models

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RoleModerator UserRole = "moderator"
	RoleDefault   UserRole = "default"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleModerator, RoleDefault:
		return true
	}
	return false
}

// User is created on the first successful magic-link verification for an email.
type User struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email       string     `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Username    string     `gorm:"not null;size:100;uniqueIndex" json:"username"`
	IsActive    bool       `gorm:"not null;default:true" json:"is_active"`
	Role        UserRole   `gorm:"size:20;not null;default:'default'" json:"role"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
