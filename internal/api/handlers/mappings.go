package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fieldcrew/statsync/internal/domain"
)

// MappingHandler handles status mapping HTTP requests
type MappingHandler struct {
	mappings domain.StatusMappingRepository
}

// NewMappingHandler creates a new MappingHandler
func NewMappingHandler(mappings domain.StatusMappingRepository) *MappingHandler {
	return &MappingHandler{mappings: mappings}
}

// List handles GET /api/v1/mappings
func (h *MappingHandler) List(w http.ResponseWriter, r *http.Request) {
	mappings, err := h.mappings.List(r.Context())
	if err != nil {
		RenderError(w, http.StatusInternalServerError, "Failed to list mappings: "+err.Error())
		return
	}
	if mappings == nil {
		mappings = []*domain.StatusMapping{}
	}

	RenderJSON(w, http.StatusOK, mappings)
}

// CreateMappingRequest is the body of POST /api/v1/mappings
type CreateMappingRequest struct {
	ExternalStatus string `json:"external_status"`
	RecordType     string `json:"record_type"`
	Category       string `json:"category"`
}

// Create handles POST /api/v1/mappings. The external status is stored
// exactly as given, matching later is case-sensitive.
func (h *MappingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateMappingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RenderError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.ExternalStatus) == "" {
		RenderError(w, http.StatusBadRequest, "external_status is required")
		return
	}

	recordType := domain.RecordType(req.RecordType)
	if !recordType.IsValid() {
		RenderError(w, http.StatusBadRequest, "Unknown record type: "+req.RecordType)
		return
	}

	category := domain.Category(req.Category)
	if !category.IsValid() {
		RenderError(w, http.StatusBadRequest, "Unknown category: "+req.Category)
		return
	}

	now := time.Now().UTC()
	mapping := &domain.StatusMapping{
		ID:             uuid.New(),
		ExternalStatus: req.ExternalStatus,
		RecordType:     recordType,
		Category:       category,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := h.mappings.Create(r.Context(), mapping); err != nil {
		RenderError(w, http.StatusInternalServerError, "Failed to create mapping: "+err.Error())
		return
	}

	RenderJSON(w, http.StatusCreated, mapping)
}

// Delete handles DELETE /api/v1/mappings/{id}
func (h *MappingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		RenderError(w, http.StatusBadRequest, "Invalid mapping ID")
		return
	}

	if err := h.mappings.Delete(r.Context(), id); err != nil {
		RenderError(w, http.StatusInternalServerError, "Failed to delete mapping: "+err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
