package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/entitledhq/licensing-backend/internal/catalog"
	"github.com/entitledhq/licensing-backend/pkg/db/models"
	pkgerrors "github.com/entitledhq/licensing-backend/pkg/errors"
)

type stubCatalogService struct {
	brand    *models.Brand
	brands   []models.Brand
	product  *models.Product
	products []models.Product
	err      error

	lastBrandInput   catalog.CreateBrandInput
	lastProductInput catalog.CreateProductInput
	lastBrandFilter  string
}

func (s *stubCatalogService) CreateBrand(_ context.Context, input catalog.CreateBrandInput) (*models.Brand, error) {
	s.lastBrandInput = input
	return s.brand, s.err
}

func (s *stubCatalogService) ListBrands(context.Context) ([]models.Brand, error) {
	return s.brands, s.err
}

func (s *stubCatalogService) CreateProduct(_ context.Context, input catalog.CreateProductInput) (*models.Product, error) {
	s.lastProductInput = input
	return s.product, s.err
}

func (s *stubCatalogService) ListProducts(_ context.Context, brandSlug string) ([]models.Product, error) {
	s.lastBrandFilter = brandSlug
	return s.products, s.err
}

func (s *stubCatalogService) ResolveProduct(context.Context, string, string) (*models.Brand, *models.Product, error) {
	return s.brand, s.product, s.err
}

func TestBrandCreateReturnsCreated(t *testing.T) {
	brand := &models.Brand{ID: uuid.New(), Name: "Acme", Slug: "acme"}
	svc := &stubCatalogService{brand: brand}
	handler := BrandCreate(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/brands", bytes.NewReader([]byte(`{"name":"Acme","slug":"acme"}`)))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", resp.Code, resp.Body.String())
	}
	if svc.lastBrandInput.Slug != "acme" {
		t.Fatalf("unexpected input %+v", svc.lastBrandInput)
	}

	var envelope struct {
		Data brandResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Slug != "acme" {
		t.Fatalf("expected brand in payload got %+v", envelope.Data)
	}
}

func TestBrandCreateDuplicateSlugConflicts(t *testing.T) {
	svc := &stubCatalogService{err: pkgerrors.New(pkgerrors.CodeConflict, "brand slug already exists")}
	handler := BrandCreate(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/brands", bytes.NewReader([]byte(`{"name":"Acme","slug":"acme"}`)))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}

func TestBrandListReturnsAll(t *testing.T) {
	svc := &stubCatalogService{brands: []models.Brand{
		{ID: uuid.New(), Name: "Acme", Slug: "acme"},
		{ID: uuid.New(), Name: "Globex", Slug: "globex"},
	}}
	handler := BrandList(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/brands", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data []brandResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) != 2 {
		t.Fatalf("expected 2 brands got %d", len(envelope.Data))
	}
}

func TestProductCreateReturnsBrandName(t *testing.T) {
	brand := &models.Brand{ID: uuid.New(), Name: "Acme", Slug: "acme"}
	product := &models.Product{ID: uuid.New(), BrandID: brand.ID, Name: "Widget Pro", Slug: "widget-pro", Brand: brand}
	svc := &stubCatalogService{product: product}
	handler := ProductCreate(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewReader([]byte(`{"brand":"acme","name":"Widget Pro","slug":"widget-pro"}`)))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", resp.Code, resp.Body.String())
	}
	if svc.lastProductInput.BrandSlug != "acme" {
		t.Fatalf("unexpected input %+v", svc.lastProductInput)
	}

	var envelope struct {
		Data productResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.BrandName != "Acme" {
		t.Fatalf("expected brand name in payload got %+v", envelope.Data)
	}
}

func TestProductListPassesBrandFilter(t *testing.T) {
	svc := &stubCatalogService{products: []models.Product{}}
	handler := ProductList(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?brand=acme", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastBrandFilter != "acme" {
		t.Fatalf("expected brand filter acme got %q", svc.lastBrandFilter)
	}
}

func TestProductCreateUnknownBrandIsNotFound(t *testing.T) {
	svc := &stubCatalogService{err: pkgerrors.New(pkgerrors.CodeNotFound, "brand not found")}
	handler := ProductCreate(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewReader([]byte(`{"brand":"nope","name":"Widget","slug":"widget"}`)))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
