package auth

import (
	"context"

	"github.com/entitledhq/licensing-backend/internal/repo"
	"github.com/entitledhq/licensing-backend/pkg/db/models"
	"gorm.io/gorm"
)

// AdminUserRepository exposes admin account persistence operations.
type AdminUserRepository struct {
	repo.Base
}

// NewAdminUserRepository constructs an admin user repository tied to the provided GORM DB.
func NewAdminUserRepository(db *gorm.DB) *AdminUserRepository {
	return &AdminUserRepository{Base: repo.NewBase(db)}
}

// FindByEmail returns the admin account with the given email.
func (r *AdminUserRepository) FindByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	var row models.AdminUser
	if err := r.DB(ctx).First(&row, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Create inserts a new admin account.
func (r *AdminUserRepository) Create(ctx context.Context, user *models.AdminUser) (*models.AdminUser, error) {
	if err := r.DB(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}
