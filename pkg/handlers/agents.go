package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/found3r/found3r-engine/pkg/agents"
	"github.com/found3r/found3r-engine/pkg/auth"
	"github.com/found3r/found3r-engine/pkg/services"
)

// RunAgentResponse is the body returned by a successful agent run.
type RunAgentResponse struct {
	Agent   string `json:"agent"`
	Summary string `json:"summary"`
}

// AgentsHandler handles agent run and sweep HTTP requests.
type AgentsHandler struct {
	orchestrator services.Orchestrator
	projects     services.ProjectService
	logger       *zap.Logger
}

// NewAgentsHandler creates a new agents handler.
func NewAgentsHandler(orchestrator services.Orchestrator, projects services.ProjectService, logger *zap.Logger) *AgentsHandler {
	return &AgentsHandler{orchestrator: orchestrator, projects: projects, logger: logger}
}

// RegisterRoutes registers the agents handler's routes on the given mux.
func (h *AgentsHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/projects/{pid}/agents/{agent}/run", authMiddleware.RequireAuth(h.Run))
	mux.HandleFunc("POST /api/projects/{pid}/sweep", authMiddleware.RequireAuth(h.StartSweep))
	mux.HandleFunc("GET /api/projects/{pid}/sweep/status", authMiddleware.RequireAuth(h.SweepStatus))
}

// Run handles POST /api/projects/{pid}/agents/{agent}/run.
// The run is synchronous: agents take seconds, and the dashboard polls the
// activity log for detail.
func (h *AgentsHandler) Run(w http.ResponseWriter, r *http.Request) {
	userID, projectID, ok := h.projectScope(w, r)
	if !ok {
		return
	}

	var opts agents.Options
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
			_ = ErrorResponse(w, http.StatusBadRequest, "invalid_body", "Invalid JSON body")
			return
		}
	}

	agentName := r.PathValue("agent")
	summary, err := h.orchestrator.RunAgent(r.Context(), userID, projectID, agentName, opts)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, RunAgentResponse{Agent: agentName, Summary: summary}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// StartSweep handles POST /api/projects/{pid}/sweep. The sweep runs in the
// background; progress is polled via SweepStatus.
func (h *AgentsHandler) StartSweep(w http.ResponseWriter, r *http.Request) {
	userID, projectID, ok := h.projectScope(w, r)
	if !ok {
		return
	}

	// Ownership is confirmed before accepting: a stranger's request must
	// get the 404 here, not a 202 with the rejection buried in the logs.
	if _, err := h.projects.Get(r.Context(), userID, projectID); err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	// Detach from the request context: the sweep outlives this response.
	go func() {
		if err := h.orchestrator.RunFullSweep(context.Background(), userID, projectID); err != nil {
			h.logger.Warn("Full sweep ended with error",
				zap.String("project_id", projectID.String()),
				zap.Error(err))
		}
	}()

	w.WriteHeader(http.StatusAccepted)
}

// SweepStatus handles GET /api/projects/{pid}/sweep/status.
func (h *AgentsHandler) SweepStatus(w http.ResponseWriter, r *http.Request) {
	userID, projectID, ok := h.projectScope(w, r)
	if !ok {
		return
	}

	status, err := h.orchestrator.SweepStatus(r.Context(), userID, projectID)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, status); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func (h *AgentsHandler) projectScope(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
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
