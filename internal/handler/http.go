package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"company-directory/internal/core"
	"company-directory/internal/service"
)

// ServedRecorder observes the size of each dataset handed out.
type ServedRecorder interface {
	ObserveServed(count int)
}

type noopRecorder struct{}

func (noopRecorder) ObserveServed(int) {}

// Handler serves the static company dataset
type Handler struct {
	svc      *service.CatalogService
	recorder ServedRecorder
	logger   *zap.Logger
}

// NewHandler creates a new HTTP handler. recorder and logger may be nil.
func NewHandler(svc *service.CatalogService, recorder ServedRecorder, logger *zap.Logger) *Handler {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, recorder: recorder, logger: logger}
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// Companies handles GET /companies.json
func (h *Handler) Companies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.svc.Companies(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.recorder.ObserveServed(len(companies))
	w.Header().Set("Cache-Control", "no-cache")
	respondJSON(w, h.logger, companies, http.StatusOK)
}

// handleServiceError maps service errors to HTTP status codes
func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrSourceUnavailable):
		h.logger.Error("Record source unavailable", zap.Error(err))
		respondError(w, "companies unavailable", http.StatusServiceUnavailable)
	case errors.Is(err, core.ErrDuplicateID):
		h.logger.Error("Refusing to serve dataset", zap.Error(err))
		respondError(w, "dataset is invalid", http.StatusInternalServerError)
	default:
		h.logger.Error("Internal error", zap.Error(err))
		respondError(w, "internal server error", http.StatusInternalServerError)
	}
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, logger *zap.Logger, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Error encoding response", zap.Error(err))
	}
}

// respondError writes an error response
func respondError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}
