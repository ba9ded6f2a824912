package auth

import (
	"context"
	"testing"
	"time"

	pkgauth "github.com/entitledhq/licensing-backend/pkg/auth"
	"github.com/entitledhq/licensing-backend/pkg/config"
	"github.com/entitledhq/licensing-backend/pkg/db/models"
	"github.com/entitledhq/licensing-backend/pkg/enums"
	pkgerrors "github.com/entitledhq/licensing-backend/pkg/errors"
	"github.com/entitledhq/licensing-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type stubAdminRepo struct {
	admin *models.AdminUser
}

func (s *stubAdminRepo) FindByEmail(_ context.Context, email string) (*models.AdminUser, error) {
	if s.admin != nil && s.admin.Email == email {
		return s.admin, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "licensing-backend",
		ExpirationMinutes: 30,
	}
}

func newAdmin(t *testing.T, email, password string) *models.AdminUser {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{
		ArgonMemoryKB:    32768,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	})
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	return &models.AdminUser{ID: uuid.New(), Email: email, PasswordHash: hash}
}

func TestLoginMintsAdminToken(t *testing.T) {
	admin := newAdmin(t, "ops@example.com", "hunter2!")
	svc, err := NewService(&stubAdminRepo{admin: admin}, testJWTConfig())
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "Ops@Example.com ", Password: "hunter2!"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if resp.TokenType != "Bearer" {
		t.Fatalf("expected Bearer token type, got %q", resp.TokenType)
	}
	if !resp.ExpiresAt.After(time.Now()) {
		t.Fatal("expected expiry in the future")
	}

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("ParseAccessToken returned error: %v", err)
	}
	if claims.AdminID != admin.ID {
		t.Fatalf("expected admin id %s, got %s", admin.ID, claims.AdminID)
	}
	if claims.Role != enums.ActorRoleAdmin {
		t.Fatalf("expected admin role, got %s", claims.Role)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	admin := newAdmin(t, "ops@example.com", "hunter2!")
	svc, err := NewService(&stubAdminRepo{admin: admin}, testJWTConfig())
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{Email: "ops@example.com", Password: "wrong"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginUnknownAccount(t *testing.T) {
	svc, err := NewService(&stubAdminRepo{}, testJWTConfig())
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginValidation(t *testing.T) {
	svc, err := NewService(&stubAdminRepo{}, testJWTConfig())
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{Email: "", Password: ""})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
