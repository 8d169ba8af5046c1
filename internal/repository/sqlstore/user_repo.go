package sqlstore

import (
	"context"
	"errors"

	"fitcoach/backend/internal/domain"
	"fitcoach/backend/internal/repository"

	"gorm.io/gorm"
)

type sqlUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a gorm-backed repository.UserRepository.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &sqlUserRepository{db: db}
}

func (r *sqlUserRepository) Create(ctx context.Context, user *domain.User) (int64, error) {
	if user.Email == "" || user.PasswordHash == "" {
		return 0, errors.New("user email and password hash are required")
	}
	row := User{Email: user.Email, PasswordHash: user.PasswordHash}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, translateError(err)
	}
	user.ID = row.ID
	user.CreatedAt = row.CreatedAt
	user.UpdatedAt = row.UpdatedAt
	return row.ID, nil
}

func (r *sqlUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var row User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&row).Error; err != nil {
		return nil, translateError(err)
	}
	return toDomainUser(&row), nil
}

func (r *sqlUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var row User
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, translateError(err)
	}
	return toDomainUser(&row), nil
}
