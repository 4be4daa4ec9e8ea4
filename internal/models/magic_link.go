package models

import (
	"time"

	"github.com/google/uuid"
)

// MagicLink is a one-time login credential. It is consumable at most once and
// only before ExpiresAt.
type MagicLink struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Token     string     `gorm:"size:255;not null;uniqueIndex" json:"-"`
	Email     string     `gorm:"size:255;not null;index" json:"email"`
	UserID    *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	IsUsed    bool       `gorm:"column:is_used;not null;default:false" json:"is_used"`
	ExpiresAt time.Time  `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time  `json:"created_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
}

// ValidAt reports whether the link can still be consumed at t.
func (m *MagicLink) ValidAt(t time.Time) bool {
	return !m.IsUsed && t.Before(m.ExpiresAt)
}
