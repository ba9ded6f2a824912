package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/entitledhq/licensing-backend/pkg/db/models"
	"github.com/entitledhq/licensing-backend/pkg/enums"
	"github.com/entitledhq/licensing-backend/pkg/logger"
	"github.com/entitledhq/licensing-backend/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/multierr"
)

const sweepBatchSize = 500

type sweepLicenseRepository interface {
	ListExpiredValid(ctx context.Context, cutoff time.Time, limit int) ([]models.License, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.LicenseStatus) error
}

type sweepKeyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.LicenseKey, error)
}

type statusCache interface {
	Del(ctx context.Context, keys ...string) error
	StatusKey(licenseKey string) string
}

// ExpiredLicenseJobParams configures the expired-license sweep.
type ExpiredLicenseJobParams struct {
	Logger      *logger.Logger
	LicenseRepo sweepLicenseRepository
	KeyRepo     sweepKeyRepository
	Cache       statusCache
	Metrics     *metrics.JobMetrics
	CancelAfter time.Duration
}

// NewExpiredLicenseJob constructs the job that cancels licenses whose expiry
// passed more than CancelAfter ago. Cancelling is terminal; an expired but
// still-VALID license could be revived by pushing its expiry forward, a
// cancelled one cannot.
func NewExpiredLicenseJob(params ExpiredLicenseJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.LicenseRepo == nil {
		return nil, fmt.Errorf("license repository required")
	}
	if params.KeyRepo == nil {
		return nil, fmt.Errorf("key repository required")
	}
	if params.Cache == nil {
		return nil, fmt.Errorf("status cache required")
	}
	if params.CancelAfter <= 0 {
		return nil, fmt.Errorf("cancel-after window must be positive")
	}
	return &expiredLicenseJob{
		logg:        params.Logger,
		licenses:    params.LicenseRepo,
		keys:        params.KeyRepo,
		cache:       params.Cache,
		metrics:     params.Metrics,
		cancelAfter: params.CancelAfter,
		now:         time.Now,
	}, nil
}

type expiredLicenseJob struct {
	logg        *logger.Logger
	licenses    sweepLicenseRepository
	keys        sweepKeyRepository
	cache       statusCache
	metrics     *metrics.JobMetrics
	cancelAfter time.Duration
	now         func() time.Time
}

func (j *expiredLicenseJob) Name() string { return "expired-license-sweep" }

func (j *expiredLicenseJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.cancelAfter)
	rows, err := j.licenses.ListExpiredValid(ctx, cutoff, sweepBatchSize)
	if err != nil {
		return fmt.Errorf("query expired licenses: %w", err)
	}

	var errs []error
	cancelled := 0
	for _, lic := range rows {
		if err := j.cancelLicense(ctx, lic); err != nil {
			errs = append(errs, err)
			continue
		}
		cancelled++
	}

	j.metrics.AddAffected(j.Name(), cancelled)
	logCtx := j.logg.WithFields(ctx, map[string]any{"cancelled": cancelled, "cutoff": cutoff})
	j.logg.Info(logCtx, "expired license sweep complete")
	return multierr.Combine(errs...)
}

func (j *expiredLicenseJob) cancelLicense(ctx context.Context, lic models.License) error {
	if err := j.licenses.UpdateStatus(ctx, lic.ID, enums.LicenseStatusCancelled); err != nil {
		return fmt.Errorf("cancel license %s: %w", lic.ID, err)
	}

	key, err := j.keys.FindByID(ctx, lic.LicenseKeyID)
	if err != nil {
		return fmt.Errorf("load key for license %s: %w", lic.ID, err)
	}
	if err := j.cache.Del(ctx, j.cache.StatusKey(key.Key)); err != nil {
		// The entry still expires on its TTL; log and keep sweeping.
		j.logg.Warn(j.logg.WithLicenseKey(ctx, key.Key), "failed to invalidate status cache")
	}
	return nil
}
