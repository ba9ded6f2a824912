package catalog

import (
	"context"

	"github.com/entitledhq/licensing-backend/internal/repo"
	"github.com/entitledhq/licensing-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BrandRepository exposes brand persistence operations.
type BrandRepository struct {
	repo.Base
}

// NewBrandRepository constructs a brand repository tied to the provided GORM DB.
func NewBrandRepository(db *gorm.DB) *BrandRepository {
	return &BrandRepository{Base: repo.NewBase(db)}
}

// Create inserts a new brand row.
func (r *BrandRepository) Create(ctx context.Context, brand *models.Brand) (*models.Brand, error) {
	if err := r.DB(ctx).Create(brand).Error; err != nil {
		return nil, err
	}
	return brand, nil
}

// FindByID returns the brand with the given id.
func (r *BrandRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Brand, error) {
	var row models.Brand
	if err := r.DB(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindBySlug returns the brand with the given slug.
func (r *BrandRepository) FindBySlug(ctx context.Context, slug string) (*models.Brand, error) {
	var row models.Brand
	if err := r.DB(ctx).First(&row, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// List returns all brands ordered by name.
func (r *BrandRepository) List(ctx context.Context) ([]models.Brand, error) {
	var rows []models.Brand
	if err := r.DB(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ProductRepository exposes product persistence operations.
type ProductRepository struct {
	repo.Base
}

// NewProductRepository constructs a product repository tied to the provided GORM DB.
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{Base: repo.NewBase(db)}
}

// Create inserts a new product row.
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.DB(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// FindBySlug returns the product with the given slug scoped to a brand.
func (r *ProductRepository) FindBySlug(ctx context.Context, brandID uuid.UUID, slug string) (*models.Product, error) {
	var row models.Product
	if err := r.DB(ctx).First(&row, "brand_id = ? AND slug = ?", brandID, slug).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// List returns products, optionally filtered by brand, ordered by name.
func (r *ProductRepository) List(ctx context.Context, brandID *uuid.UUID) ([]models.Product, error) {
	query := r.DB(ctx).Preload("Brand").Order("name ASC")
	if brandID != nil {
		query = query.Where("brand_id = ?", *brandID)
	}
	var rows []models.Product
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
