package models

import (
	"time"

	"github.com/google/uuid"
)

type StatementStatus string

const (
	StatementPending   StatementStatus = "pending"
	StatementVerified  StatementStatus = "verified"
	StatementDisputed  StatementStatus = "disputed"
	StatementRetracted StatementStatus = "retracted"
)

func (s StatementStatus) Valid() bool {
	switch s {
	case StatementPending, StatementVerified, StatementDisputed, StatementRetracted:
		return true
	}
	return false
}

// Statement records something a politician said, with its verification status.
type Statement struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PoliticianName string          `gorm:"size:255;not null;index" json:"politician_name"`
	Party          string          `gorm:"size:255;not null;index" json:"party"`
	StatementText  string          `gorm:"type:text;not null" json:"statement_text"`
	SourceURL      *string         `gorm:"size:512" json:"source_url"`
	StatementDate  time.Time       `gorm:"not null;index" json:"statement_date"`
	Category       *string         `gorm:"size:100;index" json:"category"`
	Status         StatementStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	IsActive       bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
