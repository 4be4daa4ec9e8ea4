package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/polito-log/backend/internal/models"
	"gorm.io/gorm"
)

type MagicLinkRepository interface {
	GetByToken(ctx context.Context, token string) (*models.MagicLink, error)
	GetValidByToken(ctx context.Context, token string, now time.Time) (*models.MagicLink, error)
	Create(ctx context.Context, link *models.MagicLink) error
	MarkUsed(ctx context.Context, id uuid.UUID, userID uuid.UUID, at time.Time) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type GormMagicLinkRepository struct {
	*Repository[models.MagicLink]
}

func NewMagicLinkRepository(db *gorm.DB) *GormMagicLinkRepository {
	return &GormMagicLinkRepository{Repository: NewRepository[models.MagicLink](db)}
}

func (r *GormMagicLinkRepository) GetByToken(ctx context.Context, token string) (*models.MagicLink, error) {
	return r.first(ctx, "token = ?", token)
}

// GetValidByToken returns the link only while it is unused and unexpired.
func (r *GormMagicLinkRepository) GetValidByToken(ctx context.Context, token string, now time.Time) (*models.MagicLink, error) {
	return r.first(ctx, "token = ? AND is_used = ? AND expires_at > ?", token, false, now)
}

// MarkUsed consumes the link. The update is conditional on the link still
// being unused and unexpired, so of two concurrent callers exactly one gets
// nil; the other gets ErrNotFound.
func (r *GormMagicLinkRepository) MarkUsed(ctx context.Context, id uuid.UUID, userID uuid.UUID, at time.Time) error {
	res := r.DB(ctx).Model(&models.MagicLink{}).
		Where("id = ? AND is_used = ? AND expires_at > ?", id, false, at).
		Updates(map[string]interface{}{
			"is_used": true,
			"used_at": at,
			"user_id": userID,
		})
	if res.Error != nil {
		return fmt.Errorf("db error: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteExpired removes every link whose expiry has passed, used or not.
func (r *GormMagicLinkRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.DB(ctx).Where("expires_at < ?", now).Delete(&models.MagicLink{})
	if res.Error != nil {
		return 0, fmt.Errorf("db error: %w", res.Error)
	}
	return res.RowsAffected, nil
}
