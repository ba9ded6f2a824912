package models

import (
	"time"

	"github.com/google/uuid"
)

// LicenseKey is the customer-facing credential. The key string is unique
// across ALL brands; that global uniqueness is the multi-tenancy boundary
// that keeps one brand from claiming another brand's key.
type LicenseKey struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Key           string    `gorm:"column:key;not null;unique"`
	CustomerEmail string    `gorm:"column:customer_email;not null"`
	BrandID       uuid.UUID `gorm:"column:brand_id;type:uuid;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`

	Brand    *Brand    `gorm:"foreignKey:BrandID"`
	Licenses []License `gorm:"foreignKey:LicenseKeyID"`
}
