package licensing

import (
	"time"

	"github.com/entitledhq/licensing-backend/pkg/db/models"
	"github.com/google/uuid"
)

// ActivationProjection is a consumed seat as returned to callers.
type ActivationProjection struct {
	ID          uuid.UUID `json:"id"`
	InstanceID  string    `json:"instance_id"`
	ActivatedAt time.Time `json:"activated_at"`
}

// LicenseProjection is the response shape for a single entitlement. Seat
// usage is derived from the activation rows, never read from a counter.
type LicenseProjection struct {
	ID          uuid.UUID              `json:"id"`
	Product     uuid.UUID              `json:"product"`
	ProductName string                 `json:"product_name"`
	BrandName   string                 `json:"brand_name"`
	Status      string                 `json:"status"`
	ExpiresAt   *time.Time             `json:"expires_at"`
	TotalSeats  int                    `json:"total_seats"`
	ActiveSeats int                    `json:"active_seats"`
	Activations []ActivationProjection `json:"activations"`
	CreatedAt   time.Time              `json:"created_at"`
}

// KeyProjection is the response shape for a license key with its full
// entitlement tree.
type KeyProjection struct {
	ID            uuid.UUID           `json:"id"`
	Key           string              `json:"key"`
	CustomerEmail string              `json:"customer_email"`
	Brand         uuid.UUID           `json:"brand"`
	BrandName     string              `json:"brand_name"`
	Licenses      []LicenseProjection `json:"licenses"`
	CreatedAt     time.Time           `json:"created_at"`
}

func buildActivationProjection(row models.Activation) ActivationProjection {
	return ActivationProjection{
		ID:          row.ID,
		InstanceID:  row.InstanceID,
		ActivatedAt: row.ActivatedAt,
	}
}

// buildLicenseProjection expects Product (with Brand) and Activations loaded.
func buildLicenseProjection(row models.License) LicenseProjection {
	out := LicenseProjection{
		ID:          row.ID,
		Product:     row.ProductID,
		Status:      string(row.Status),
		ExpiresAt:   row.ExpiresAt,
		TotalSeats:  row.TotalSeats,
		ActiveSeats: len(row.Activations),
		Activations: make([]ActivationProjection, 0, len(row.Activations)),
		CreatedAt:   row.CreatedAt,
	}
	if row.Product != nil {
		out.ProductName = row.Product.Name
		if row.Product.Brand != nil {
			out.BrandName = row.Product.Brand.Name
		}
	}
	for _, activation := range row.Activations {
		out.Activations = append(out.Activations, buildActivationProjection(activation))
	}
	return out
}

// buildKeyProjection expects Brand and the Licenses detail tree loaded.
func buildKeyProjection(row models.LicenseKey) KeyProjection {
	out := KeyProjection{
		ID:            row.ID,
		Key:           row.Key,
		CustomerEmail: row.CustomerEmail,
		Brand:         row.BrandID,
		Licenses:      make([]LicenseProjection, 0, len(row.Licenses)),
		CreatedAt:     row.CreatedAt,
	}
	if row.Brand != nil {
		out.BrandName = row.Brand.Name
	}
	for _, license := range row.Licenses {
		out.Licenses = append(out.Licenses, buildLicenseProjection(license))
	}
	return out
}
