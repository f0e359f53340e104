package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/found3r/found3r-engine/pkg/audit"
	"github.com/found3r/found3r-engine/pkg/auth"
	"github.com/found3r/found3r-engine/pkg/models"
	"github.com/found3r/found3r-engine/pkg/services"
)

// UserWebhookEvent is an identity-provider lifecycle notification.
type UserWebhookEvent struct {
	Type    string `json:"type"` // user.created, user.updated, user.deleted
	Subject string `json:"subject"`
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
}

// UsersHandler handles the current-user endpoints and the identity-provider
// webhook.
type UsersHandler struct {
	users         services.UserService
	webhookSecret string
	auditor       *audit.SecurityAuditor
	logger        *zap.Logger
}

// NewUsersHandler creates a new users handler.
func NewUsersHandler(users services.UserService, webhookSecret string, logger *zap.Logger) *UsersHandler {
	return &UsersHandler{
		users:         users,
		webhookSecret: webhookSecret,
		auditor:       audit.NewSecurityAuditor(logger),
		logger:        logger,
	}
}

// RegisterRoutes registers the users handler's routes on the given mux.
func (h *UsersHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/users/me", authMiddleware.RequireAuth(h.Me))
	mux.HandleFunc("PATCH /api/users/me", authMiddleware.RequireAuth(h.UpdateMe))
	mux.HandleFunc("POST /api/webhooks/users", h.Webhook)
}

// Me handles GET /api/users/me.
func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.RequireUserID(r.Context())
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	user, err := h.users.Get(r.Context(), userID)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, user); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// UpdateMe handles PATCH /api/users/me.
func (h *UsersHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.RequireUserID(r.Context())
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	var patch models.UserPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_body", "Invalid JSON body")
		return
	}

	user, err := h.users.Update(r.Context(), userID, patch)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, user); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Webhook handles POST /api/webhooks/users. Authenticated by a shared
// secret header rather than a user token; the caller is the identity
// provider, not a user.
func (h *UsersHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	if h.webhookSecret == "" ||
		subtle.ConstantTimeCompare([]byte(r.Header.Get("X-Webhook-Secret")), []byte(h.webhookSecret)) != 1 {
		h.auditor.LogWebhookRejected(r.RemoteAddr)
		_ = ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Invalid webhook secret")
		return
	}

	var event UserWebhookEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_body", "Invalid JSON body")
		return
	}

	switch event.Type {
	case "user.created", "user.updated":
		if _, err := h.users.Resolve(r.Context(), event.Subject, event.Email, event.Name); err != nil {
			WriteServiceError(w, h.logger, err)
			return
		}
	case "user.deleted":
		if err := h.users.Erase(r.Context(), event.Subject); err != nil {
			WriteServiceError(w, h.logger, err)
			return
		}
		h.auditor.LogUserErased(event.Subject)
	default:
		_ = ErrorResponse(w, http.StatusBadRequest, "unknown_event", "Unknown webhook event type")
		return
	}

	h.logger.Info("Processed user webhook",
		zap.String("type", event.Type),
		zap.String("subject", event.Subject))
	w.WriteHeader(http.StatusNoContent)
}
