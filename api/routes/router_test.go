package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	authsvc "github.com/entitledhq/licensing-backend/internal/auth"
	"github.com/entitledhq/licensing-backend/internal/catalog"
	"github.com/entitledhq/licensing-backend/internal/licensing"
	pkgAuth "github.com/entitledhq/licensing-backend/pkg/auth"
	"github.com/entitledhq/licensing-backend/pkg/config"
	"github.com/entitledhq/licensing-backend/pkg/db/models"
	"github.com/entitledhq/licensing-backend/pkg/enums"
)

type stubLicensing struct{}

func (stubLicensing) Provision(context.Context, licensing.ProvisionInput) (*licensing.KeyProjection, error) {
	return &licensing.KeyProjection{Key: "KEY-1"}, nil
}

func (stubLicensing) Activate(context.Context, licensing.ActivateInput) (*licensing.LicenseProjection, error) {
	return &licensing.LicenseProjection{}, nil
}

func (stubLicensing) GetStatus(context.Context, string) (*licensing.KeyProjection, error) {
	return &licensing.KeyProjection{Key: "KEY-1"}, nil
}

func (stubLicensing) ListByCustomer(context.Context, string) ([]licensing.KeyProjection, error) {
	return nil, nil
}

type stubCatalog struct{}

func (stubCatalog) CreateBrand(context.Context, catalog.CreateBrandInput) (*models.Brand, error) {
	return &models.Brand{}, nil
}

func (stubCatalog) ListBrands(context.Context) ([]models.Brand, error) { return nil, nil }

func (stubCatalog) CreateProduct(context.Context, catalog.CreateProductInput) (*models.Product, error) {
	return &models.Product{}, nil
}

func (stubCatalog) ListProducts(context.Context, string) ([]models.Product, error) { return nil, nil }

func (stubCatalog) ResolveProduct(context.Context, string, string) (*models.Brand, *models.Product, error) {
	return nil, nil, nil
}

type stubAuth struct{}

func (stubAuth) Login(context.Context, authsvc.LoginRequest) (*authsvc.LoginResponse, error) {
	return &authsvc.LoginResponse{AccessToken: "token"}, nil
}

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

func newTestRouter(t *testing.T) (http.Handler, config.JWTConfig) {
	t.Helper()
	jwtCfg := config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60}
	cfg := &config.Config{
		App: config.AppConfig{Env: "dev", Port: "0"},
		JWT: jwtCfg,
	}
	router := NewRouter(cfg, nil, stubPinger{}, stubPinger{}, stubAuth{}, stubCatalog{}, stubLicensing{})
	return router, jwtCfg
}

func adminToken(t *testing.T, cfg config.JWTConfig) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg, time.Now(), pkgAuth.AccessTokenPayload{
		AdminID: uuid.New(),
		Email:   "admin@example.com",
		Role:    enums.ActorRoleAdmin,
	})
	if err != nil {
		t.Fatalf("minting token: %v", err)
	}
	return token
}

func TestPublicRoutesDoNotRequireAuth(t *testing.T) {
	router, _ := newTestRouter(t)

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/health/live"},
		{http.MethodGet, "/health/ready"},
		{http.MethodGet, "/api/v1/licensing/status/KEY-1"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code == http.StatusUnauthorized || resp.Code == http.StatusForbidden {
			t.Fatalf("%s %s unexpectedly gated: %d", tc.method, tc.path, resp.Code)
		}
	}
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	router, _ := newTestRouter(t)

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/licensing/provision"},
		{http.MethodGet, "/api/v1/licensing/customer-lookup"},
		{http.MethodGet, "/api/v1/brands/"},
		{http.MethodPost, "/api/v1/brands/"},
		{http.MethodGet, "/api/v1/products/"},
		{http.MethodPost, "/api/v1/products/"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s expected 401 got %d", tc.method, tc.path, resp.Code)
		}
	}
}

func TestAdminTokenUnlocksCustomerLookup(t *testing.T) {
	router, jwtCfg := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/licensing/customer-lookup?email=jo%40example.com", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken(t, jwtCfg))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", resp.Code, resp.Body.String())
	}
}
