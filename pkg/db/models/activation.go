package models

import (
	"time"

	"github.com/google/uuid"
)

// Activation is a consumed seat: one running instance of a product bound to
// a license. The (license_id, instance_id) unique index makes re-activation
// of the same instance a no-op instead of a second seat.
type Activation struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	LicenseID   uuid.UUID `gorm:"column:license_id;type:uuid;not null;uniqueIndex:idx_activations_license_instance"`
	InstanceID  string    `gorm:"column:instance_id;not null;uniqueIndex:idx_activations_license_instance"`
	ActivatedAt time.Time `gorm:"column:activated_at;autoCreateTime"`
}
