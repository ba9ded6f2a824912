package validators

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/entitledhq/licensing-backend/pkg/errors"
)

type samplePayload struct {
	Email string `json:"email" validate:"required,email"`
	Seats int    `json:"seats" validate:"omitempty,min=1"`
}

func decodeSample(t *testing.T, body string) error {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte(body)))
	var payload samplePayload
	return DecodeJSONBody(req, &payload)
}

func TestDecodeJSONBodyAcceptsValidPayload(t *testing.T) {
	if err := decodeSample(t, `{"email":"jo@example.com","seats":3}`); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	err := decodeSample(t, `{"email":"jo@example.com","bogus":true}`)
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBodyReportsFieldsByJSONName(t *testing.T) {
	err := decodeSample(t, `{"email":"not-an-email","seats":0}`)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected details map, got %T", typed.Details())
	}
	if details["email"] != "must be a valid email" {
		t.Fatalf("unexpected email message %q", details["email"])
	}
}

func TestDecodeJSONBodyRejectsMalformedJSON(t *testing.T) {
	err := decodeSample(t, `{"email":`)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
