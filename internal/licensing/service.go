package licensing

import (
	"context"
	"fmt"
	"time"

	"github.com/entitledhq/licensing-backend/pkg/db"
	"github.com/entitledhq/licensing-backend/pkg/db/models"
	"github.com/entitledhq/licensing-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type brandsRepository interface {
	FindBySlug(ctx context.Context, slug string) (*models.Brand, error)
}

type productsRepository interface {
	FindBySlug(ctx context.Context, brandID uuid.UUID, slug string) (*models.Product, error)
}

type statusCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	StatusKey(licenseKey string) string
}

// Store bundles the entitlement repositories over one connection so the
// engines can run check-then-write sequences inside a single transaction.
type Store struct {
	client      *db.Client
	keys        *LicenseKeyRepository
	licenses    *LicenseRepository
	activations *ActivationRepository
}

// NewStore constructs a store over the shared database client.
func NewStore(client *db.Client) *Store {
	conn := client.DB()
	return &Store{
		client:      client,
		keys:        NewLicenseKeyRepository(conn),
		licenses:    NewLicenseRepository(conn),
		activations: NewActivationRepository(conn),
	}
}

// Keys returns the license key repository.
func (s *Store) Keys() *LicenseKeyRepository { return s.keys }

// Licenses returns the license repository.
func (s *Store) Licenses() *LicenseRepository { return s.licenses }

// Activations returns the activation repository.
func (s *Store) Activations() *ActivationRepository { return s.activations }

// WithTx runs fn against a transaction-scoped copy of the store. The copy's
// repositories all share the same transaction, so precondition checks and the
// writes that depend on them are atomic.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Store) error) error {
	return s.client.WithTx(ctx, func(tx *gorm.DB) error {
		return fn(&Store{
			client:      s.client,
			keys:        NewLicenseKeyRepository(tx),
			licenses:    NewLicenseRepository(tx),
			activations: NewActivationRepository(tx),
		})
	})
}

// ProvisionInput carries a provisioning request after transport validation.
type ProvisionInput struct {
	BrandSlug      string
	ProductSlug    string
	CustomerEmail  string
	LicenseKey     string
	TotalSeats     int
	ExpirationDays int
}

// ActivateInput carries an activation request after transport validation.
type ActivateInput struct {
	LicenseKey  string
	ProductSlug string
	InstanceID  string
}

// Service exposes the entitlement engines: provisioning, activation, and the
// read projections built on top of them.
type Service interface {
	Provision(ctx context.Context, input ProvisionInput) (*KeyProjection, error)
	Activate(ctx context.Context, input ActivateInput) (*LicenseProjection, error)
	GetStatus(ctx context.Context, licenseKey string) (*KeyProjection, error)
	ListByCustomer(ctx context.Context, email string) ([]KeyProjection, error)
}

type service struct {
	store     *Store
	brands    brandsRepository
	products  productsRepository
	cache     statusCache
	logg      *logger.Logger
	statusTTL time.Duration
	now       func() time.Time
	newKey    func() string
}

// NewService builds the licensing service over the entitlement store and the
// catalog repositories.
func NewService(store *Store, brands brandsRepository, products productsRepository, cache statusCache, logg *logger.Logger, statusTTL time.Duration) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("entitlement store required")
	}
	if brands == nil {
		return nil, fmt.Errorf("brand repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if cache == nil {
		return nil, fmt.Errorf("status cache required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if statusTTL <= 0 {
		return nil, fmt.Errorf("status ttl must be positive")
	}
	return &service{
		store:     store,
		brands:    brands,
		products:  products,
		cache:     cache,
		logg:      logg,
		statusTTL: statusTTL,
		now:       time.Now,
		newKey:    func() string { return uuid.NewString() },
	}, nil
}
