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

// TicketsHandler handles ticket HTTP requests.
type TicketsHandler struct {
	projects services.ProjectService
	logger   *zap.Logger
}

// NewTicketsHandler creates a new tickets handler.
func NewTicketsHandler(projects services.ProjectService, logger *zap.Logger) *TicketsHandler {
	return &TicketsHandler{projects: projects, logger: logger}
}

// RegisterRoutes registers the tickets handler's routes on the given mux.
func (h *TicketsHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/projects/{pid}/tickets", authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("PATCH /api/tickets/{id}", authMiddleware.RequireAuth(h.Update))
}

// List handles GET /api/projects/{pid}/tickets.
func (h *TicketsHandler) List(w http.ResponseWriter, r *http.Request) {
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

	tickets, err := h.projects.ListTickets(r.Context(), userID, projectID)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}
	if tickets == nil {
		tickets = []*models.Ticket{}
	}

	if err := WriteJSON(w, http.StatusOK, tickets); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PATCH /api/tickets/{id}.
func (h *TicketsHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.RequireUserID(r.Context())
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	ticketID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_ticket_id", "Invalid ticket ID")
		return
	}

	var patch models.TicketPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_body", "Invalid JSON body")
		return
	}

	ticket, err := h.projects.UpdateTicket(r.Context(), userID, ticketID, patch)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ticket); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
