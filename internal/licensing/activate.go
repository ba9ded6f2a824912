package licensing

import (
	"context"
	"errors"
	"strings"

	"github.com/entitledhq/licensing-backend/pkg/db"
	"github.com/entitledhq/licensing-backend/pkg/db/models"
	pkgerrors "github.com/entitledhq/licensing-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Activate admits an instance onto a license seat, or confirms a seat it
// already holds. The seat check and the activation insert run inside one
// transaction with the license row locked, so two concurrent activations for
// different instances cannot both squeeze into the last seat.
func (s *service) Activate(ctx context.Context, input ActivateInput) (*LicenseProjection, error) {
	keyString := strings.TrimSpace(input.LicenseKey)
	productSlug := strings.ToLower(strings.TrimSpace(input.ProductSlug))
	instanceID := strings.TrimSpace(input.InstanceID)

	if keyString == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "license_key is required")
	}
	if productSlug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_slug is required")
	}
	if instanceID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "instance_id is required")
	}

	key, err := s.store.Keys().FindByKey(ctx, keyString)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "license key not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup license key")
	}

	product, err := s.products.FindBySlug(ctx, key.BrandID, productSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no license for product")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup product")
	}

	license, err := s.store.Licenses().FindForKeyAndProduct(ctx, key.ID, product.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no license for product")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup license")
	}

	licenseID := license.ID
	err = s.store.WithTx(ctx, func(tx *Store) error {
		locked, err := tx.Licenses().LockByID(ctx, licenseID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock license")
		}

		if !locked.IsActive(s.now()) {
			return pkgerrors.New(pkgerrors.CodeForbidden, "license is not active or expired")
		}

		seats, err := tx.Activations().Count(ctx, licenseID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count activations")
		}
		if seats >= int64(locked.TotalSeats) {
			held, err := tx.Activations().Exists(ctx, licenseID, instanceID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing activation")
			}
			if !held {
				return pkgerrors.New(pkgerrors.CodeConflict, "no seats remaining")
			}
			// Re-activation of an instance that already holds a seat is an
			// idempotent success even at capacity.
		}

		_, err = tx.Activations().Create(ctx, &models.Activation{
			LicenseID:  licenseID,
			InstanceID: instanceID,
		})
		if err != nil {
			if db.IsUniqueViolation(err, "idx_activations_license_instance") {
				return nil
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create activation")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateStatus(ctx, keyString)

	return s.loadLicenseProjection(ctx, licenseID)
}

func (s *service) loadLicenseProjection(ctx context.Context, licenseID uuid.UUID) (*LicenseProjection, error) {
	row, err := s.store.Licenses().FindByIDWithDetails(ctx, licenseID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load license")
	}
	projection := buildLicenseProjection(*row)
	return &projection, nil
}

// invalidateStatus drops the cached status projection for a key. Failures are
// logged, not surfaced: the entry still expires on its TTL.
func (s *service) invalidateStatus(ctx context.Context, keyString string) {
	if err := s.cache.Del(ctx, s.cache.StatusKey(keyString)); err != nil {
		s.logg.Warn(s.logg.WithLicenseKey(ctx, keyString), "failed to invalidate status cache")
	}
}
