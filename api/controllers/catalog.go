package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/entitledhq/licensing-backend/api/responses"
	"github.com/entitledhq/licensing-backend/api/validators"
	"github.com/entitledhq/licensing-backend/internal/catalog"
	"github.com/entitledhq/licensing-backend/pkg/db/models"
	pkgerrors "github.com/entitledhq/licensing-backend/pkg/errors"
	"github.com/entitledhq/licensing-backend/pkg/logger"
)

type brandCreateRequest struct {
	Name string `json:"name" validate:"required"`
	Slug string `json:"slug" validate:"required"`
}

type brandResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

func brandResponseFromModel(m *models.Brand) brandResponse {
	return brandResponse{
		ID:        m.ID,
		Name:      m.Name,
		Slug:      m.Slug,
		CreatedAt: m.CreatedAt,
	}
}

// BrandCreate registers a new brand.
func BrandCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload brandCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.CreateBrand(r.Context(), catalog.CreateBrandInput{
			Name: strings.TrimSpace(payload.Name),
			Slug: strings.TrimSpace(payload.Slug),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, brandResponseFromModel(created))
	}
}

// BrandList lists every brand.
func BrandList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		brands, err := svc.ListBrands(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]brandResponse, 0, len(brands))
		for i := range brands {
			out = append(out, brandResponseFromModel(&brands[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

type productCreateRequest struct {
	Brand string `json:"brand" validate:"required"`
	Name  string `json:"name" validate:"required"`
	Slug  string `json:"slug" validate:"required"`
}

type productResponse struct {
	ID        uuid.UUID `json:"id"`
	Brand     uuid.UUID `json:"brand"`
	BrandName string    `json:"brand_name,omitempty"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

func productResponseFromModel(m *models.Product) productResponse {
	resp := productResponse{
		ID:        m.ID,
		Brand:     m.BrandID,
		Name:      m.Name,
		Slug:      m.Slug,
		CreatedAt: m.CreatedAt,
	}
	if m.Brand != nil {
		resp.BrandName = m.Brand.Name
	}
	return resp
}

// ProductCreate registers a new product under a brand.
func ProductCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload productCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.CreateProduct(r.Context(), catalog.CreateProductInput{
			BrandSlug: strings.TrimSpace(payload.Brand),
			Name:      strings.TrimSpace(payload.Name),
			Slug:      strings.TrimSpace(payload.Slug),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, productResponseFromModel(created))
	}
}

// ProductList lists products, optionally filtered by ?brand=<slug>.
func ProductList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		brandSlug := validators.QueryString(r, "brand")

		products, err := svc.ListProducts(r.Context(), brandSlug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]productResponse, 0, len(products))
		for i := range products {
			out = append(out, productResponseFromModel(&products[i]))
		}
		responses.WriteSuccess(w, out)
	}
}
