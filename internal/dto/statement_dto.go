package dto

import (
	"time"

	"github.com/polito-log/backend/internal/models"
)

type CreateStatementRequest struct {
	PoliticianName string                 `json:"politician_name" validate:"required,min=1,max=255"`
	Party          string                 `json:"party" validate:"required,min=1,max=255"`
	StatementText  string                 `json:"statement_text" validate:"required,min=1"`
	SourceURL      *string                `json:"source_url" validate:"omitempty,max=512"`
	StatementDate  time.Time              `json:"statement_date" validate:"required"`
	Category       *string                `json:"category" validate:"omitempty,max=100"`
	Status         models.StatementStatus `json:"status" validate:"omitempty,statement_status"`
}

// UpdateStatementRequest is a partial update; nil fields are left unchanged.
type UpdateStatementRequest struct {
	PoliticianName *string                 `json:"politician_name" validate:"omitempty,min=1,max=255"`
	Party          *string                 `json:"party" validate:"omitempty,min=1,max=255"`
	StatementText  *string                 `json:"statement_text" validate:"omitempty,min=1"`
	SourceURL      *string                 `json:"source_url" validate:"omitempty,max=512"`
	StatementDate  *time.Time              `json:"statement_date"`
	Category       *string                 `json:"category" validate:"omitempty,max=100"`
	Status         *models.StatementStatus `json:"status" validate:"omitempty,statement_status"`
	IsActive       *bool                   `json:"is_active"`
}

// ListQuery is the offset window shared by every statement listing.
type ListQuery struct {
	Skip       int   `query:"skip" json:"skip" validate:"min=0"`
	Limit      int   `query:"limit" json:"limit" validate:"min=1,max=500"`
	ActiveOnly *bool `query:"active_only" json:"active_only"`
}

type CountResponse struct {
	Count int64 `json:"count"`
}
