package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/found3r/found3r-engine/pkg/audit"
	"github.com/found3r/found3r-engine/pkg/services"
)

// Middleware provides HTTP authentication middleware. It validates bearer
// tokens and resolves the subject to a local user record, provisioning the
// record on first sight.
type Middleware struct {
	validator TokenValidator
	users     services.UserService
	auditor   *audit.SecurityAuditor
	logger    *zap.Logger
}

// NewMiddleware creates a new auth middleware.
func NewMiddleware(validator TokenValidator, users services.UserService, logger *zap.Logger) *Middleware {
	return &Middleware{
		validator: validator,
		users:     users,
		auditor:   audit.NewSecurityAuditor(logger),
		logger:    logger.Named("auth"),
	}
}

// RequireAuth validates the bearer token and puts the claims and the
// resolved local user ID in the request context.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenString, ok := bearerToken(r)
		if !ok {
			m.auditor.LogAuthFailure(r.RemoteAddr, r.URL.Path, "missing bearer token")
			m.unauthorized(w, "Authentication required")
			return
		}

		claims, err := m.validator.ValidateToken(tokenString)
		if err != nil {
			m.logger.Debug("JWT validation failed",
				zap.String("path", r.URL.Path),
				zap.Error(err))
			m.auditor.LogAuthFailure(r.RemoteAddr, r.URL.Path, "invalid token")
			m.unauthorized(w, "Authentication required")
			return
		}

		user, err := m.users.Resolve(r.Context(), claims.Subject, claims.Email, claims.Name)
		if err != nil {
			m.logger.Error("Failed to resolve user from claims",
				zap.String("subject", claims.Subject),
				zap.Error(err))
			m.unauthorized(w, "Authentication required")
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsKey, claims)
		ctx = context.WithValue(ctx, UserIDKey, user.ID)
		next(w, r.WithContext(ctx))
	}
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// unauthorized returns a 401 response with JSON error body.
func (m *Middleware) unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "unauthorized",
		"message": message,
	})
}
