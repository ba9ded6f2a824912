package licensing

import (
	"context"
	"time"

	"github.com/entitledhq/licensing-backend/internal/repo"
	"github.com/entitledhq/licensing-backend/pkg/db/models"
	"github.com/entitledhq/licensing-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// keyDetailPreloads loads the full projection tree for a license key.
func keyDetailPreloads(query *gorm.DB) *gorm.DB {
	return query.
		Preload("Brand").
		Preload("Licenses", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Licenses.Product").
		Preload("Licenses.Product.Brand").
		Preload("Licenses.Activations", func(db *gorm.DB) *gorm.DB {
			return db.Order("activated_at ASC")
		})
}

// LicenseKeyRepository exposes license key persistence operations.
type LicenseKeyRepository struct {
	repo.Base
}

// NewLicenseKeyRepository constructs a license key repository tied to the provided GORM DB.
func NewLicenseKeyRepository(db *gorm.DB) *LicenseKeyRepository {
	return &LicenseKeyRepository{Base: repo.NewBase(db)}
}

// Create inserts a new license key row.
func (r *LicenseKeyRepository) Create(ctx context.Context, key *models.LicenseKey) (*models.LicenseKey, error) {
	if err := r.DB(ctx).Create(key).Error; err != nil {
		return nil, err
	}
	return key, nil
}

// FindByKey returns the key row matching the exact key string, across all brands.
func (r *LicenseKeyRepository) FindByKey(ctx context.Context, key string) (*models.LicenseKey, error) {
	var row models.LicenseKey
	if err := r.DB(ctx).First(&row, "key = ?", key).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindByID returns the key row by id.
func (r *LicenseKeyRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.LicenseKey, error) {
	var row models.LicenseKey
	if err := r.DB(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindByKeyWithDetails returns the key row with licenses, products, and
// activations loaded, ready for projection.
func (r *LicenseKeyRepository) FindByKeyWithDetails(ctx context.Context, key string) (*models.LicenseKey, error) {
	var row models.LicenseKey
	if err := keyDetailPreloads(r.DB(ctx)).First(&row, "key = ?", key).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindByIDWithDetails returns the key row with the full detail tree by id.
func (r *LicenseKeyRepository) FindByIDWithDetails(ctx context.Context, id uuid.UUID) (*models.LicenseKey, error) {
	var row models.LicenseKey
	if err := keyDetailPreloads(r.DB(ctx)).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindFirstByEmailAndBrand returns the oldest key for a (customer_email, brand)
// pair, or gorm.ErrRecordNotFound when the customer has no key with the brand.
func (r *LicenseKeyRepository) FindFirstByEmailAndBrand(ctx context.Context, email string, brandID uuid.UUID) (*models.LicenseKey, error) {
	var row models.LicenseKey
	err := r.DB(ctx).
		Where("customer_email = ? AND brand_id = ?", email, brandID).
		Order("created_at ASC").
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ListByEmailWithDetails returns every key matching the exact email across all
// brands, with the full detail tree loaded.
func (r *LicenseKeyRepository) ListByEmailWithDetails(ctx context.Context, email string) ([]models.LicenseKey, error) {
	var rows []models.LicenseKey
	err := keyDetailPreloads(r.DB(ctx)).
		Where("customer_email = ?", email).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// LicenseRepository exposes license persistence operations.
type LicenseRepository struct {
	repo.Base
}

// NewLicenseRepository constructs a license repository tied to the provided GORM DB.
func NewLicenseRepository(db *gorm.DB) *LicenseRepository {
	return &LicenseRepository{Base: repo.NewBase(db)}
}

// Create inserts a new license row.
func (r *LicenseRepository) Create(ctx context.Context, license *models.License) (*models.License, error) {
	if err := r.DB(ctx).Create(license).Error; err != nil {
		return nil, err
	}
	return license, nil
}

// FindForKeyAndProduct returns the oldest license binding a key to a product.
// Duplicate provisioning of the same (key, product) pair is allowed, so more
// than one row can match; activation always targets the earliest one.
func (r *LicenseRepository) FindForKeyAndProduct(ctx context.Context, keyID, productID uuid.UUID) (*models.License, error) {
	var row models.License
	err := r.DB(ctx).
		Where("license_key_id = ? AND product_id = ?", keyID, productID).
		Order("created_at ASC").
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// LockByID reloads a license row under FOR UPDATE inside the caller's
// transaction, serializing concurrent seat checks against the same license.
func (r *LicenseRepository) LockByID(ctx context.Context, id uuid.UUID) (*models.License, error) {
	query := r.DB(ctx)
	// sqlite (tests) has no FOR UPDATE; its single writer covers the same
	// guarantee.
	if query.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var row models.License
	err := query.First(&row, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// FindByIDWithDetails returns a license with product, brand, and activations loaded.
func (r *LicenseRepository) FindByIDWithDetails(ctx context.Context, id uuid.UUID) (*models.License, error) {
	var row models.License
	err := r.DB(ctx).
		Preload("Product").
		Preload("Product.Brand").
		Preload("Activations", func(db *gorm.DB) *gorm.DB {
			return db.Order("activated_at ASC")
		}).
		First(&row, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ListExpiredValid returns VALID licenses whose expiry passed before the cutoff.
func (r *LicenseRepository) ListExpiredValid(ctx context.Context, cutoff time.Time, limit int) ([]models.License, error) {
	var rows []models.License
	err := r.DB(ctx).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?", enums.LicenseStatusValid, cutoff).
		Order("expires_at ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateStatus transitions a license to the given status.
func (r *LicenseRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.LicenseStatus) error {
	return r.DB(ctx).
		Model(&models.License{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// ActivationRepository exposes activation persistence operations.
type ActivationRepository struct {
	repo.Base
}

// NewActivationRepository constructs an activation repository tied to the provided GORM DB.
func NewActivationRepository(db *gorm.DB) *ActivationRepository {
	return &ActivationRepository{Base: repo.NewBase(db)}
}

// Count returns the number of consumed seats on a license.
func (r *ActivationRepository) Count(ctx context.Context, licenseID uuid.UUID) (int64, error) {
	var count int64
	err := r.DB(ctx).
		Model(&models.Activation{}).
		Where("license_id = ?", licenseID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Exists reports whether an instance already holds a seat on a license.
func (r *ActivationRepository) Exists(ctx context.Context, licenseID uuid.UUID, instanceID string) (bool, error) {
	var count int64
	err := r.DB(ctx).
		Model(&models.Activation{}).
		Where("license_id = ? AND instance_id = ?", licenseID, instanceID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a new activation row. Callers treat a unique violation on
// (license_id, instance_id) as an idempotent no-op.
func (r *ActivationRepository) Create(ctx context.Context, activation *models.Activation) (*models.Activation, error) {
	if err := r.DB(ctx).Create(activation).Error; err != nil {
		return nil, err
	}
	return activation, nil
}
