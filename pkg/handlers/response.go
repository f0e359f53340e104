// Package handlers contains the HTTP layer: one handler struct per resource,
// registered on a net/http ServeMux with method/path patterns.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/found3r/found3r-engine/pkg/agents"
	"github.com/found3r/found3r-engine/pkg/apperrors"
)

// ErrorResponse writes a JSON error response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// WriteServiceError maps a service-layer error onto the HTTP taxonomy:
// 401 unauthenticated, 404 not found, 400 validation or unknown agent,
// 409 conflict or agent already running, 422 unparseable LLM output,
// 502 gateway failure, 500 everything else.
func WriteServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var status int
	var code string
	var message string

	var parseErr *agents.ParseError
	var execErr *agents.ExecutionError

	switch {
	case errors.Is(err, apperrors.ErrUnauthenticated):
		status, code, message = http.StatusUnauthorized, "unauthorized", "Authentication required"
	case errors.Is(err, apperrors.ErrNotFound):
		status, code, message = http.StatusNotFound, "not_found", "Resource not found"
	case errors.Is(err, apperrors.ErrValidation):
		status, code, message = http.StatusBadRequest, "validation_failed", err.Error()
	case errors.Is(err, apperrors.ErrUnknownAgent):
		status, code, message = http.StatusBadRequest, "unknown_agent", err.Error()
	case errors.Is(err, apperrors.ErrAgentRunning):
		status, code, message = http.StatusConflict, "agent_running", "An agent is already running for this project"
	case errors.Is(err, apperrors.ErrConflict):
		status, code, message = http.StatusConflict, "conflict", "Resource already exists"
	case errors.As(err, &parseErr):
		status, code, message = http.StatusUnprocessableEntity, "unprocessable_response",
			"The agent returned output that could not be processed"
	case errors.As(err, &execErr):
		status, code, message = http.StatusBadGateway, "agent_failed",
			"The agent failed to complete"
	default:
		status, code, message = http.StatusInternalServerError, "internal_error", "Internal server error"
	}

	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", zap.Int("status", status), zap.Error(err))
	}

	if writeErr := ErrorResponse(w, status, code, message); writeErr != nil {
		logger.Error("Failed to write error response", zap.Error(writeErr))
	}
}
