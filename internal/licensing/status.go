package licensing

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	pkgerrors "github.com/entitledhq/licensing-backend/pkg/errors"
	"github.com/entitledhq/licensing-backend/pkg/redis"
	"gorm.io/gorm"
)

// GetStatus returns the key projection, served from the cache when a fresh
// entry exists. Cache entries live for the configured TTL and are dropped
// whenever an activation lands on the key. Provisioning does not invalidate,
// so a status read right after a new license is attached can serve the prior
// projection until the TTL lapses or an activation occurs.
func (s *service) GetStatus(ctx context.Context, licenseKey string) (*KeyProjection, error) {
	keyString := strings.TrimSpace(licenseKey)
	if keyString == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "license key is required")
	}

	cacheKey := s.cache.StatusKey(keyString)
	if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
		var projection KeyProjection
		if err := json.Unmarshal([]byte(cached), &projection); err == nil {
			return &projection, nil
		}
		// Unreadable entry, fall through to the store and overwrite it.
	} else if !errors.Is(err, redis.Nil) {
		s.logg.Warn(s.logg.WithLicenseKey(ctx, keyString), "status cache read failed")
	}

	row, err := s.store.Keys().FindByKeyWithDetails(ctx, keyString)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "license key not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load license key")
	}

	projection := buildKeyProjection(*row)
	if payload, err := json.Marshal(projection); err == nil {
		if err := s.cache.Set(ctx, cacheKey, payload, s.statusTTL); err != nil {
			s.logg.Warn(s.logg.WithLicenseKey(ctx, keyString), "status cache write failed")
		}
	}
	return &projection, nil
}

// ListByCustomer returns every key matching the exact email across all
// brands. An empty email yields an empty list rather than an error.
func (s *service) ListByCustomer(ctx context.Context, email string) ([]KeyProjection, error) {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return []KeyProjection{}, nil
	}

	rows, err := s.store.Keys().ListByEmailWithDetails(ctx, trimmed)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customer keys")
	}

	out := make([]KeyProjection, 0, len(rows))
	for _, row := range rows {
		out = append(out, buildKeyProjection(row))
	}
	return out, nil
}
