package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/found3r/found3r-engine/pkg/auth"
	"github.com/found3r/found3r-engine/pkg/models"
	"github.com/found3r/found3r-engine/pkg/services"
)

// defaultActivityLimit bounds activity reads when the client does not ask
// for a specific page size.
const defaultActivityLimit = 50

// CreateProjectRequest is the body for POST /api/projects.
type CreateProjectRequest struct {
	Name  string `json:"name"`
	Niche string `json:"niche"`
}

// ProjectsHandler handles project, brain, and activity HTTP requests.
type ProjectsHandler struct {
	projects services.ProjectService
	logger   *zap.Logger
}

// NewProjectsHandler creates a new projects handler.
func NewProjectsHandler(projects services.ProjectService, logger *zap.Logger) *ProjectsHandler {
	return &ProjectsHandler{projects: projects, logger: logger}
}

// RegisterRoutes registers the projects handler's routes on the given mux.
func (h *ProjectsHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/projects", authMiddleware.RequireAuth(h.Create))
	mux.HandleFunc("GET /api/projects", authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("GET /api/projects/{pid}", authMiddleware.RequireAuth(h.Get))
	mux.HandleFunc("PATCH /api/projects/{pid}", authMiddleware.RequireAuth(h.Update))
	mux.HandleFunc("DELETE /api/projects/{pid}", authMiddleware.RequireAuth(h.Delete))
	mux.HandleFunc("GET /api/projects/{pid}/brain", authMiddleware.RequireAuth(h.GetBrain))
	mux.HandleFunc("GET /api/projects/{pid}/activity", authMiddleware.RequireAuth(h.GetActivity))
}

// Create handles POST /api/projects.
func (h *ProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.RequireUserID(r.Context())
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	var req CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_body", "Invalid JSON body")
		return
	}

	project, err := h.projects.Create(r.Context(), userID, req.Name, req.Niche)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusCreated, project); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// List handles GET /api/projects.
func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.RequireUserID(r.Context())
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	projects, err := h.projects.List(r.Context(), userID)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}
	if projects == nil {
		projects = []*models.Project{}
	}

	if err := WriteJSON(w, http.StatusOK, projects); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /api/projects/{pid}.
func (h *ProjectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, projectID, ok := h.requireProjectScope(w, r)
	if !ok {
		return
	}

	project, err := h.projects.Get(r.Context(), userID, projectID)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, project); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PATCH /api/projects/{pid}.
func (h *ProjectsHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, projectID, ok := h.requireProjectScope(w, r)
	if !ok {
		return
	}

	var patch models.ProjectPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_body", "Invalid JSON body")
		return
	}

	project, err := h.projects.Update(r.Context(), userID, projectID, patch)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, project); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /api/projects/{pid}.
func (h *ProjectsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, projectID, ok := h.requireProjectScope(w, r)
	if !ok {
		return
	}

	if err := h.projects.Delete(r.Context(), userID, projectID); err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetBrain handles GET /api/projects/{pid}/brain.
func (h *ProjectsHandler) GetBrain(w http.ResponseWriter, r *http.Request) {
	userID, projectID, ok := h.requireProjectScope(w, r)
	if !ok {
		return
	}

	brain, err := h.projects.GetBrain(r.Context(), userID, projectID)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, brain); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// GetActivity handles GET /api/projects/{pid}/activity?limit=&order=.
func (h *ProjectsHandler) GetActivity(w http.ResponseWriter, r *http.Request) {
	userID, projectID, ok := h.requireProjectScope(w, r)
	if !ok {
		return
	}

	limit := defaultActivityLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			_ = ErrorResponse(w, http.StatusBadRequest, "invalid_limit", "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	order := models.OldestFirst
	switch r.URL.Query().Get("order") {
	case "", "asc":
	case "desc":
		order = models.NewestFirst
	default:
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_order", "order must be asc or desc")
		return
	}

	entries, err := h.projects.GetActivity(r.Context(), userID, projectID, limit, order)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}
	if entries == nil {
		entries = []*models.ActivityEntry{}
	}

	if err := WriteJSON(w, http.StatusOK, entries); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// requireProjectScope extracts the caller's user ID and the {pid} path
// parameter, writing the error response itself on failure.
func (h *ProjectsHandler) requireProjectScope(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	userID, err := auth.RequireUserID(r.Context())
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return uuid.Nil, uuid.Nil, false
	}

	projectID, err := uuid.Parse(r.PathValue("pid"))
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_project_id", "Invalid project ID")
		return uuid.Nil, uuid.Nil, false
	}

	return userID, projectID, true
}
