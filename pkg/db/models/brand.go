package models

import (
	"time"

	"github.com/google/uuid"
)

// Brand is the tenant root. Products and license keys hang off a brand, and a
// license key never changes brands once created.
type Brand struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Slug      string    `gorm:"column:slug;not null;unique"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
