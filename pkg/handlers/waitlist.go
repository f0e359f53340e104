package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/found3r/found3r-engine/pkg/auth"
	"github.com/found3r/found3r-engine/pkg/models"
	"github.com/found3r/found3r-engine/pkg/services"
)

// JoinWaitlistRequest is the body for POST /api/waitlist.
type JoinWaitlistRequest struct {
	ProjectID uuid.UUID `json:"project_id"`
	Email     string    `json:"email"`
	Source    string    `json:"source,omitempty"`
	Referrer  string    `json:"referrer,omitempty"`
}

// WaitlistCountResponse pairs the signup list with its size.
type WaitlistCountResponse struct {
	Count   int                      `json:"count"`
	Signups []*models.WaitlistSignup `json:"signups"`
}

// WaitlistHandler handles waitlist HTTP requests. Join is public: it is
// called from deployed landing pages by anonymous visitors.
type WaitlistHandler struct {
	waitlist services.WaitlistService
	logger   *zap.Logger
}

// NewWaitlistHandler creates a new waitlist handler.
func NewWaitlistHandler(waitlist services.WaitlistService, logger *zap.Logger) *WaitlistHandler {
	return &WaitlistHandler{waitlist: waitlist, logger: logger}
}

// RegisterRoutes registers the waitlist handler's routes on the given mux.
func (h *WaitlistHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/waitlist", h.Join)
	mux.HandleFunc("GET /api/projects/{pid}/waitlist", authMiddleware.RequireAuth(h.List))
}

// Join handles POST /api/waitlist.
func (h *WaitlistHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req JoinWaitlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_body", "Invalid JSON body")
		return
	}
	if req.ProjectID == uuid.Nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_project_id", "project_id is required")
		return
	}

	signup, err := h.waitlist.Join(r.Context(), req.ProjectID, req.Email, req.Source, req.Referrer)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusCreated, signup); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// List handles GET /api/projects/{pid}/waitlist.
func (h *WaitlistHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.RequireUserID(r.Context())
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	projectID, err := uuid.Parse(r.PathValue("pid"))
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_project_id", "Invalid project ID")
		return
	}

	signups, err := h.waitlist.List(r.Context(), userID, projectID)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}
	if signups == nil {
		signups = []*models.WaitlistSignup{}
	}

	if err := WriteJSON(w, http.StatusOK, WaitlistCountResponse{Count: len(signups), Signups: signups}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
