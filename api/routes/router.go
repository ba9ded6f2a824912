package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/entitledhq/licensing-backend/api/controllers"
	"github.com/entitledhq/licensing-backend/api/middleware"
	"github.com/entitledhq/licensing-backend/internal/auth"
	"github.com/entitledhq/licensing-backend/internal/catalog"
	"github.com/entitledhq/licensing-backend/internal/licensing"
	"github.com/entitledhq/licensing-backend/pkg/config"
	"github.com/entitledhq/licensing-backend/pkg/db"
	"github.com/entitledhq/licensing-backend/pkg/logger"
	"github.com/entitledhq/licensing-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	cacheP redis.Pinger,
	authService auth.Service,
	catalogService catalog.Service,
	licensingService licensing.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, cacheP, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.Login(authService, logg))
	})

	r.Route("/api/v1/licensing", func(r chi.Router) {
		// Activation and status checks come from installed product instances
		// that only hold a license key, never an admin token.
		r.Post("/activate", controllers.Activate(licensingService, logg))
		r.Get("/status/{key}", controllers.Status(licensingService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Post("/provision", controllers.Provision(licensingService, logg))
			r.Get("/customer-lookup", controllers.CustomerLookup(licensingService, logg))
		})
	})

	r.Route("/api/v1/brands", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Get("/", controllers.BrandList(catalogService, logg))
		r.Post("/", controllers.BrandCreate(catalogService, logg))
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Get("/", controllers.ProductList(catalogService, logg))
		r.Post("/", controllers.ProductCreate(catalogService, logg))
	})

	return r
}
