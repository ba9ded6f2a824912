package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/entitledhq/licensing-backend/api/responses"
	"github.com/entitledhq/licensing-backend/api/validators"
	"github.com/entitledhq/licensing-backend/internal/licensing"
	pkgerrors "github.com/entitledhq/licensing-backend/pkg/errors"
	"github.com/entitledhq/licensing-backend/pkg/logger"
)

type provisionRequest struct {
	BrandSlug     string `json:"brand_slug" validate:"required"`
	ProductSlug   string `json:"product_slug" validate:"required"`
	CustomerEmail string `json:"customer_email" validate:"required,email"`
	LicenseKey    string `json:"license_key"`
	TotalSeats    int    `json:"total_seats" validate:"omitempty,min=1"`
	// Negative values are legal and produce an already-expired license.
	ExpirationDays int `json:"expiration_days"`
}

func (r provisionRequest) toInput() licensing.ProvisionInput {
	seats := r.TotalSeats
	if seats == 0 {
		seats = 1
	}
	return licensing.ProvisionInput{
		BrandSlug:      strings.TrimSpace(r.BrandSlug),
		ProductSlug:    strings.TrimSpace(r.ProductSlug),
		CustomerEmail:  strings.TrimSpace(r.CustomerEmail),
		LicenseKey:     strings.TrimSpace(r.LicenseKey),
		TotalSeats:     seats,
		ExpirationDays: r.ExpirationDays,
	}
}

// Provision issues or extends a license key for a customer.
func Provision(svc licensing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "licensing service unavailable"))
			return
		}

		var payload provisionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		key, err := svc.Provision(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, key)
	}
}

type activateRequest struct {
	LicenseKey  string `json:"license_key" validate:"required"`
	ProductSlug string `json:"product_slug" validate:"required"`
	InstanceID  string `json:"instance_id" validate:"required"`
}

func (r activateRequest) toInput() licensing.ActivateInput {
	return licensing.ActivateInput{
		LicenseKey:  strings.TrimSpace(r.LicenseKey),
		ProductSlug: strings.TrimSpace(r.ProductSlug),
		InstanceID:  strings.TrimSpace(r.InstanceID),
	}
}

// Activate claims a seat on a license for an installed instance.
func Activate(svc licensing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "licensing service unavailable"))
			return
		}

		var payload activateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		license, err := svc.Activate(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, license)
	}
}

// Status returns the full projection for a license key.
func Status(svc licensing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "licensing service unavailable"))
			return
		}

		key := strings.TrimSpace(chi.URLParam(r, "key"))
		if key == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "license key is required"))
			return
		}

		projection, err := svc.GetStatus(r.Context(), key)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, projection)
	}
}

// CustomerLookup lists every license key held by a customer email.
func CustomerLookup(svc licensing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "licensing service unavailable"))
			return
		}

		// An empty email is not an error; the lookup just matches nothing.
		email := validators.QueryString(r, "email")

		keys, err := svc.ListByCustomer(r.Context(), email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, keys)
	}
}
