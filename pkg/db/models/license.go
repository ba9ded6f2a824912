package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/entitledhq/licensing-backend/pkg/enums"
)

// License entitles a license key to one product with a bounded seat pool.
// Nothing deduplicates (license_key_id, product_id): provisioning the same
// product twice on one key yields two licenses with independent seat pools.
type License struct {
	ID           uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	LicenseKeyID uuid.UUID           `gorm:"column:license_key_id;type:uuid;not null"`
	ProductID    uuid.UUID           `gorm:"column:product_id;type:uuid;not null"`
	Status       enums.LicenseStatus `gorm:"column:status;type:license_status;not null;default:'VALID'"`
	ExpiresAt    *time.Time          `gorm:"column:expires_at"`
	TotalSeats   int                 `gorm:"column:total_seats;not null;default:1"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time           `gorm:"column:updated_at;autoUpdateTime"`

	LicenseKey  *LicenseKey  `gorm:"foreignKey:LicenseKeyID"`
	Product     *Product     `gorm:"foreignKey:ProductID"`
	Activations []Activation `gorm:"foreignKey:LicenseID"`
}

// IsActive reports whether the license admits new activations at the given
// instant. An expiry exactly equal to now counts as expired.
func (l License) IsActive(now time.Time) bool {
	if l.Status != enums.LicenseStatusValid {
		return false
	}
	if l.ExpiresAt != nil && !l.ExpiresAt.After(now) {
		return false
	}
	return true
}
