package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.trai.ch/artisan/internal/core/domain"
)

type successEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type errorEnvelope struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, successEnvelope{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, r *http.Request, status int, title, message string) {
	writeJSON(w, status, errorEnvelope{
		Error:     title,
		Message:   message,
		RequestID: RequestIDFrom(r.Context()),
	})
}

// statusFor maps an error kind to its HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, domain.ErrRemoteAPI), errors.Is(err, domain.ErrRemoteTaskFailed), errors.Is(err, domain.ErrUpload):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, title string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(err, "route", r.URL.Path, "request_id", RequestIDFrom(r.Context()))
	} else {
		s.logger.Warn(title, "error", err.Error(), "request_id", RequestIDFrom(r.Context()))
	}
	writeError(w, r, status, title, err.Error())
}
