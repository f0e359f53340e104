// Package auth provides JWT-based authentication for found3r-engine.
// Tokens from the external identity provider are validated against its JWKS
// endpoints; the middleware resolves them to a local user record.
package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/found3r/found3r-engine/pkg/apperrors"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// ClaimsKey is the context key for storing JWT claims.
	ClaimsKey contextKey = "claims"
	// UserIDKey is the context key for the resolved local user ID.
	UserIDKey contextKey = "user_id"
)

// Claims is the JWT claims structure from the identity provider.
// RegisteredClaims carries the standard fields (sub, iss, exp, etc.).
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// GetClaims retrieves JWT claims from the request context.
func GetClaims(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*Claims)
	return claims, ok
}

// GetUserID retrieves the resolved local user ID from the request context.
func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// RequireUserID returns the local user ID from the context, or
// ErrUnauthenticated if the request did not pass the auth middleware.
func RequireUserID(ctx context.Context) (uuid.UUID, error) {
	userID, ok := GetUserID(ctx)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, apperrors.ErrUnauthenticated
	}
	return userID, nil
}
