package repository

import (
	"context"

	"gorm.io/gorm"

	"carlot/internal/db"
	"carlot/internal/model"
)

// UserRepository defines credential persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByUsername(ctx context.Context, username string) (*model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(gormDB *gorm.DB) UserRepository {
	return &userRepository{db: gormDB}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return db.Conn(ctx, r.db).Create(user).Error
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := db.Conn(ctx, r.db).Where("username = @username", map[string]interface{}{"username": username}).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
