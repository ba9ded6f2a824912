package models

import (
	"time"

	"github.com/google/uuid"
)

// Product belongs to exactly one brand. Slugs are unique per brand, not
// globally.
type Product struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BrandID   uuid.UUID `gorm:"column:brand_id;type:uuid;not null;uniqueIndex:idx_products_brand_slug"`
	Name      string    `gorm:"column:name;not null"`
	Slug      string    `gorm:"column:slug;not null;uniqueIndex:idx_products_brand_slug"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`

	Brand *Brand `gorm:"foreignKey:BrandID"`
}
