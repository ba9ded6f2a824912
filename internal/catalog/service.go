package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/entitledhq/licensing-backend/pkg/db"
	"github.com/entitledhq/licensing-backend/pkg/db/models"
	pkgerrors "github.com/entitledhq/licensing-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type brandsRepository interface {
	Create(ctx context.Context, brand *models.Brand) (*models.Brand, error)
	FindBySlug(ctx context.Context, slug string) (*models.Brand, error)
	List(ctx context.Context) ([]models.Brand, error)
}

type productsRepository interface {
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	FindBySlug(ctx context.Context, brandID uuid.UUID, slug string) (*models.Product, error)
	List(ctx context.Context, brandID *uuid.UUID) ([]models.Product, error)
}

// CreateBrandInput holds the fields required to register a brand.
type CreateBrandInput struct {
	Name string
	Slug string
}

// CreateProductInput holds the fields required to register a product under a brand.
type CreateProductInput struct {
	BrandSlug string
	Name      string
	Slug      string
}

// Service exposes brand and product management for the licensing catalog.
type Service interface {
	CreateBrand(ctx context.Context, input CreateBrandInput) (*models.Brand, error)
	ListBrands(ctx context.Context) ([]models.Brand, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error)
	ListProducts(ctx context.Context, brandSlug string) ([]models.Product, error)
	ResolveProduct(ctx context.Context, brandSlug, productSlug string) (*models.Brand, *models.Product, error)
}

type service struct {
	brands   brandsRepository
	products productsRepository
}

// NewService builds a catalog service backed by the provided repositories.
func NewService(brands brandsRepository, products productsRepository) (Service, error) {
	if brands == nil {
		return nil, fmt.Errorf("brand repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{brands: brands, products: products}, nil
}

func (s *service) CreateBrand(ctx context.Context, input CreateBrandInput) (*models.Brand, error) {
	name := strings.TrimSpace(input.Name)
	slug := normalizeSlug(input.Slug)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}

	brand := &models.Brand{Name: name, Slug: slug}
	created, err := s.brands.Create(ctx, brand)
	if err != nil {
		if db.IsUniqueViolation(err, "uq_brands_slug") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "brand slug already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create brand")
	}
	return created, nil
}

func (s *service) ListBrands(ctx context.Context) ([]models.Brand, error) {
	rows, err := s.brands.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list brands")
	}
	return rows, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	brandSlug := normalizeSlug(input.BrandSlug)
	name := strings.TrimSpace(input.Name)
	slug := normalizeSlug(input.Slug)
	if brandSlug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "brand_slug is required")
	}
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}

	brand, err := s.brands.FindBySlug(ctx, brandSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "brand not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup brand")
	}

	product := &models.Product{BrandID: brand.ID, Name: name, Slug: slug}
	created, err := s.products.Create(ctx, product)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_products_brand_slug") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product slug already exists for brand")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	created.Brand = brand
	return created, nil
}

func (s *service) ListProducts(ctx context.Context, brandSlug string) ([]models.Product, error) {
	var brandID *uuid.UUID
	if slug := normalizeSlug(brandSlug); slug != "" {
		brand, err := s.brands.FindBySlug(ctx, slug)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "brand not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup brand")
		}
		brandID = &brand.ID
	}

	rows, err := s.products.List(ctx, brandID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return rows, nil
}

// ResolveProduct loads a brand and one of its products by slug pair.
func (s *service) ResolveProduct(ctx context.Context, brandSlug, productSlug string) (*models.Brand, *models.Product, error) {
	brand, err := s.brands.FindBySlug(ctx, normalizeSlug(brandSlug))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "brand not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup brand")
	}

	product, err := s.products.FindBySlug(ctx, brand.ID, normalizeSlug(productSlug))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup product")
	}
	return brand, product, nil
}

func normalizeSlug(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}
