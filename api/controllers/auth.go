package controllers

import (
	"net/http"

	"github.com/entitledhq/licensing-backend/api/responses"
	"github.com/entitledhq/licensing-backend/api/validators"
	"github.com/entitledhq/licensing-backend/internal/auth"
	pkgerrors "github.com/entitledhq/licensing-backend/pkg/errors"
	"github.com/entitledhq/licensing-backend/pkg/logger"
)

// Login exchanges admin credentials for a bearer token.
func Login(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var payload auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token, err := svc.Login(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, token)
	}
}
