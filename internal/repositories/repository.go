// Package repositories is the persistence gateway over PostgreSQL.
package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record violates a unique constraint")
)

// Page is an offset/limit window.
type Page struct {
	Skip  int
	Limit int
}

const (
	DefaultLimit = 100
	MaxLimit     = 500
)

// Normalize clamps the window into the accepted range.
func (p Page) Normalize() Page {
	if p.Skip < 0 {
		p.Skip = 0
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Repository implements the CRUD shared by every entity table.
type Repository[T any] struct {
	db *gorm.DB
}

func NewRepository[T any](db *gorm.DB) *Repository[T] {
	return &Repository[T]{db: db}
}

func (r *Repository[T]) DB(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

func (r *Repository[T]) GetByID(ctx context.Context, id uuid.UUID) (*T, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *Repository[T]) List(ctx context.Context, page Page, scopes ...func(*gorm.DB) *gorm.DB) ([]T, error) {
	page = page.Normalize()

	var out []T
	err := r.DB(ctx).Scopes(scopes...).Offset(page.Skip).Limit(page.Limit).Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *Repository[T]) Count(ctx context.Context, scopes ...func(*gorm.DB) *gorm.DB) (int64, error) {
	var n int64
	var model T
	if err := r.DB(ctx).Model(&model).Scopes(scopes...).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *Repository[T]) Create(ctx context.Context, obj *T) error {
	if err := r.DB(ctx).Create(obj).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *Repository[T]) Save(ctx context.Context, obj *T) error {
	if err := r.DB(ctx).Save(obj).Error; err != nil {
		return translate(err)
	}
	return nil
}

// Delete removes the row and reports whether it existed.
func (r *Repository[T]) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	var model T
	res := r.DB(ctx).Where("id = ?", id).Delete(&model)
	if res.Error != nil {
		return false, fmt.Errorf("db error: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *Repository[T]) first(ctx context.Context, query string, args ...interface{}) (*T, error) {
	var out T
	if err := r.DB(ctx).Where(query, args...).First(&out).Error; err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	default:
		return fmt.Errorf("db error: %w", err)
	}
}
