package auth

import (
	"github.com/entitledhq/licensing-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	AdminID uuid.UUID
	Email   string
	Role    enums.ActorRole
}

// AccessTokenClaims represents the typed JWT issued to administrative clients.
type AccessTokenClaims struct {
	AdminID uuid.UUID       `json:"admin_id"`
	Email   string          `json:"email"`
	Role    enums.ActorRole `json:"role"`
	jwt.RegisteredClaims
}
