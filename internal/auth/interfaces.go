package auth

import (
	"context"

	"github.com/greenloop/greenloop/internal/database/models"
)

// Authenticator defines the interface for user authentication operations.
type Authenticator interface {
	LoginWithExternalIdentity(ctx context.Context, ident ExternalIdentity) (*AuthResponse, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// TokenService defines the interface for JWT token operations.
type TokenService interface {
	GenerateToken(subjectID string, isAdmin bool) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// Compile-time interface satisfaction checks
var (
	_ Authenticator = (*Service)(nil)
	_ TokenService  = (*JWTService)(nil)
)
