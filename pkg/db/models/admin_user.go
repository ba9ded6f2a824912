package models

import (
	"time"

	"github.com/google/uuid"
)

// AdminUser is an operator account allowed to provision licenses and browse
// customers. End-user activation never touches this table.
type AdminUser struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string    `gorm:"column:email;not null;unique"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
