package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/polito-log/backend/internal/models"
	"gorm.io/gorm"
)

// StatementFilter narrows statement listings. Zero fields do not filter.
type StatementFilter struct {
	ActiveOnly     bool
	PoliticianName string
	Party          string
	Status         models.StatementStatus
	Search         string
}

func (f StatementFilter) scope() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.ActiveOnly {
			db = db.Scopes(ActiveOnly())
		}
		if f.PoliticianName != "" {
			db = db.Where("politician_name = ?", f.PoliticianName)
		}
		if f.Party != "" {
			db = db.Where("party = ?", f.Party)
		}
		if f.Status != "" {
			db = db.Where("status = ?", f.Status)
		}
		if f.Search != "" {
			p := containsPattern(f.Search)
			db = db.Where("statement_text ILIKE ? OR politician_name ILIKE ? OR party ILIKE ?", p, p, p)
		}
		return db
	}
}

type StatementRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Statement, error)
	Find(ctx context.Context, filter StatementFilter, page Page) ([]models.Statement, error)
	Count(ctx context.Context, filter StatementFilter) (int64, error)
	Create(ctx context.Context, s *models.Statement) error
	Save(ctx context.Context, s *models.Statement) error
	SoftDelete(ctx context.Context, id uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type GormStatementRepository struct {
	*Repository[models.Statement]
}

func NewStatementRepository(db *gorm.DB) *GormStatementRepository {
	return &GormStatementRepository{Repository: NewRepository[models.Statement](db)}
}

func (r *GormStatementRepository) Find(ctx context.Context, filter StatementFilter, page Page) ([]models.Statement, error) {
	return r.List(ctx, page, filter.scope(), Newest("statement_date"))
}

func (r *GormStatementRepository) Count(ctx context.Context, filter StatementFilter) (int64, error) {
	return r.Repository.Count(ctx, filter.scope())
}

// SoftDelete clears is_active and reports whether the statement existed.
func (r *GormStatementRepository) SoftDelete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.DB(ctx).Model(&models.Statement{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return false, fmt.Errorf("db error: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}
