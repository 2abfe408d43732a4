package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/example/classtime/internal/application"
)

type errorResponse struct {
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

type responder struct {
	logger *zap.Logger
}

func newResponder(logger *zap.Logger) responder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(w http.ResponseWriter, status int, payload any) {
	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (r responder) writeBadRequest(w http.ResponseWriter, message string) {
	r.writeJSON(w, http.StatusBadRequest, errorResponse{Message: message})
}

// handleServiceError maps the application error taxonomy onto HTTP statuses:
// not-found renders 404, rejected operations 409, malformed input 422.
func (r responder) handleServiceError(w http.ResponseWriter, err error) {
	if err == nil {
		r.writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "unknown error"})
		return
	}

	if errors.Is(err, application.ErrNotFound) {
		r.writeJSON(w, http.StatusNotFound, errorResponse{Message: "the requested resource was not found"})
		return
	}

	var cErr *application.ConflictError
	if errors.As(err, &cErr) {
		r.writeJSON(w, http.StatusConflict, errorResponse{Message: cErr.Reason})
		return
	}

	var vErr *application.ValidationError
	if errors.As(err, &vErr) {
		r.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Message: "validation failed",
			Details: vErr.FieldErrors,
		})
		return
	}

	r.logger.Error("request failed", zap.Error(err))
	r.writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "internal server error"})
}
