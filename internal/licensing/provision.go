package licensing

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/entitledhq/licensing-backend/pkg/db"
	"github.com/entitledhq/licensing-backend/pkg/db/models"
	"github.com/entitledhq/licensing-backend/pkg/enums"
	pkgerrors "github.com/entitledhq/licensing-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const defaultExpirationDays = 365

func isKeyUnique(err error) bool {
	return db.IsUniqueViolation(err, "uq_license_keys_key")
}

// Provision resolves or creates a license key for the (brand, customer) pair
// and attaches a fresh license for the product. Every provisioning call
// creates exactly one license row, even when the same (key, product) pair was
// provisioned before: the pairs are deliberately not deduplicated, each call
// grants an independent seat pool.
func (s *service) Provision(ctx context.Context, input ProvisionInput) (*KeyProjection, error) {
	brandSlug := strings.ToLower(strings.TrimSpace(input.BrandSlug))
	productSlug := strings.ToLower(strings.TrimSpace(input.ProductSlug))
	email := strings.TrimSpace(input.CustomerEmail)
	keyString := strings.TrimSpace(input.LicenseKey)

	if brandSlug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "brand_slug is required")
	}
	if productSlug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_slug is required")
	}
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer_email is required")
	}
	if input.TotalSeats < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "total_seats must be at least 1")
	}

	brand, err := s.brands.FindBySlug(ctx, brandSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "brand not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup brand")
	}

	product, err := s.products.FindBySlug(ctx, brand.ID, productSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup product")
	}

	expirationDays := input.ExpirationDays
	if expirationDays == 0 {
		expirationDays = defaultExpirationDays
	}
	expiresAt := s.now().Add(time.Duration(expirationDays) * 24 * time.Hour)

	var keyID uuid.UUID
	err = s.store.WithTx(ctx, func(tx *Store) error {
		key, err := s.resolveKey(ctx, tx, brand, email, keyString)
		if err != nil {
			return err
		}

		license := &models.License{
			LicenseKeyID: key.ID,
			ProductID:    product.ID,
			Status:       enums.LicenseStatusValid,
			ExpiresAt:    &expiresAt,
			TotalSeats:   input.TotalSeats,
		}
		if _, err := tx.Licenses().Create(ctx, license); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create license")
		}

		keyID = key.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	row, err := s.store.Keys().FindByIDWithDetails(ctx, keyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load provisioned key")
	}
	projection := buildKeyProjection(*row)
	return &projection, nil
}

// resolveKey applies the key resolution order: an explicit key string wins
// and is globally unique across brands, otherwise the customer's oldest key
// with this brand is reused, otherwise a new key is generated.
func (s *service) resolveKey(ctx context.Context, tx *Store, brand *models.Brand, email, keyString string) (*models.LicenseKey, error) {
	if keyString != "" {
		existing, err := tx.Keys().FindByKey(ctx, keyString)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup license key")
		}
		if existing != nil {
			if existing.BrandID != brand.ID {
				return nil, pkgerrors.New(pkgerrors.CodeConflict, "license key is already assigned to another brand")
			}
			return existing, nil
		}

		created, err := tx.Keys().Create(ctx, &models.LicenseKey{
			Key:           keyString,
			CustomerEmail: email,
			BrandID:       brand.ID,
		})
		if err != nil {
			// A concurrent call may have claimed the string between the
			// lookup and the insert; surface it as the same conflict.
			if isKeyUnique(err) {
				return nil, pkgerrors.New(pkgerrors.CodeConflict, "license key is already assigned to another brand")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create license key")
		}
		return created, nil
	}

	existing, err := tx.Keys().FindFirstByEmailAndBrand(ctx, email, brand.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup customer key")
	}
	if existing != nil {
		return existing, nil
	}

	created, err := tx.Keys().Create(ctx, &models.LicenseKey{
		Key:           s.newKey(),
		CustomerEmail: email,
		BrandID:       brand.ID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create license key")
	}
	return created, nil
}
