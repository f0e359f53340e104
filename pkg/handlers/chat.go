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

// ChatRequest is the body for POST /api/projects/{pid}/chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse carries the assistant's reply for one turn.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// ChatHandler handles Copilot chat HTTP requests.
type ChatHandler struct {
	chat         services.ChatService
	historyLimit int
	logger       *zap.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(chat services.ChatService, historyLimit int, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{chat: chat, historyLimit: historyLimit, logger: logger}
}

// RegisterRoutes registers the chat handler's routes on the given mux.
func (h *ChatHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/projects/{pid}/chat", authMiddleware.RequireAuth(h.Send))
	mux.HandleFunc("GET /api/projects/{pid}/chat", authMiddleware.RequireAuth(h.History))
}

// Send handles POST /api/projects/{pid}/chat.
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
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

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_body", "Invalid JSON body")
		return
	}

	reply, err := h.chat.Send(r.Context(), userID, projectID, req.Message)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ChatResponse{Reply: reply}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// History handles GET /api/projects/{pid}/chat.
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
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

	messages, err := h.chat.History(r.Context(), userID, projectID, h.historyLimit)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}
	if messages == nil {
		messages = []*models.ChatMessage{}
	}

	if err := WriteJSON(w, http.StatusOK, messages); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
