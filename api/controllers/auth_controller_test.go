package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/entitledhq/licensing-backend/internal/auth"
	pkgerrors "github.com/entitledhq/licensing-backend/pkg/errors"
)

type stubAuthService struct {
	resp *auth.LoginResponse
	err  error
	last auth.LoginRequest
}

func (s *stubAuthService) Login(_ context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	s.last = req
	return s.resp, s.err
}

func TestLoginReturnsToken(t *testing.T) {
	svc := &stubAuthService{resp: &auth.LoginResponse{
		AccessToken: "access-token",
		TokenType:   "Bearer",
		ExpiresAt:   time.Now().Add(time.Hour),
	}}
	handler := Login(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader([]byte(`{"email":"admin@example.com","password":"Secret#1"}`)))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", resp.Code, resp.Body.String())
	}
	if svc.last.Email != "admin@example.com" {
		t.Fatalf("unexpected request passthrough %+v", svc.last)
	}

	var envelope struct {
		Data struct {
			AccessToken string `json:"access_token"`
			TokenType   string `json:"token_type"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.AccessToken != "access-token" || envelope.Data.TokenType != "Bearer" {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}

func TestLoginRejectsMalformedBody(t *testing.T) {
	svc := &stubAuthService{}
	handler := Login(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader([]byte(`{"email":"not-an-email","password":"x"}`)))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestLoginMapsInvalidCredentials(t *testing.T) {
	svc := &stubAuthService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}
	handler := Login(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader([]byte(`{"email":"admin@example.com","password":"wrong"}`)))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}
