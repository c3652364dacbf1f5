package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ilfiscal/fiscal-data-service/internal/repository"
	"github.com/ilfiscal/fiscal-data-service/internal/service"
)

// response is the envelope of every JSON reply
type response struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
}

func (h *Handler) respondJSON(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(response{Status: "success", Data: data}); err != nil {
		h.log.Errorf("Failed to encode response: %v", err)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(response{Status: "error", Error: msg}); err != nil {
		h.log.Errorf("Failed to encode error response: %v", err)
	}
}

// respondServiceError maps service-layer errors onto HTTP status codes
func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		h.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		h.respondError(w, http.StatusNotFound, "entity not found")
	case errors.Is(err, service.ErrMailDisabled):
		h.respondError(w, http.StatusServiceUnavailable, err.Error())
	default:
		h.log.Errorf("Request failed: %v", err)
		h.respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
