package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/polito-log/backend/internal/models"
	"gorm.io/gorm"
)

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
}

type GormUserRepository struct {
	*Repository[models.User]
}

func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{Repository: NewRepository[models.User](db)}
}

func (r *GormUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *GormUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.first(ctx, "username = ?", username)
}

// Update writes the mutable columns only.
func (r *GormUserRepository) Update(ctx context.Context, user *models.User) error {
	err := r.DB(ctx).Model(user).
		Select("username", "is_active", "role", "last_login_at", "updated_at").
		Updates(user).Error
	if err != nil {
		return translate(err)
	}
	return nil
}
