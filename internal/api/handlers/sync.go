package handlers

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/fieldcrew/statsync/internal/domain"
	"github.com/fieldcrew/statsync/internal/service"
)

// SyncServiceInterface defines the sync service methods
type SyncServiceInterface interface {
	Run(ctx context.Context) (*domain.SyncRun, error)
}

// SyncEnqueuer pushes a reconciliation run onto the background queue
type SyncEnqueuer interface {
	EnqueueSync(ctx context.Context) error
}

// SyncHandler handles sync-related HTTP requests
type SyncHandler struct {
	sync  SyncServiceInterface
	runs  domain.SyncRunRepository
	queue SyncEnqueuer
}

// NewSyncHandler creates a new SyncHandler. The queue may be nil when no
// Redis backend is configured; async triggers are then rejected.
func NewSyncHandler(sync SyncServiceInterface, runs domain.SyncRunRepository, queue SyncEnqueuer) *SyncHandler {
	return &SyncHandler{
		sync:  sync,
		runs:  runs,
		queue: queue,
	}
}

// Trigger handles POST /api/v1/sync. With ?async=true the run is pushed
// onto the background queue instead of blocking the request.
func (h *SyncHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		RenderError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if r.URL.Query().Get("async") == "true" {
		if h.queue == nil {
			RenderError(w, http.StatusConflict, "Background queue is not configured")
			return
		}
		if err := h.queue.EnqueueSync(r.Context()); err != nil {
			RenderError(w, http.StatusInternalServerError, "Failed to enqueue sync: "+err.Error())
			return
		}
		RenderJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
		return
	}

	run, err := h.sync.Run(r.Context())
	if err != nil {
		log.Printf("[Sync] Run failed: %v", err)
		RenderError(w, syncErrorStatus(err), "Sync failed: "+err.Error())
		return
	}

	RenderJSON(w, http.StatusOK, run)
}

// ListRuns handles GET /api/v1/sync/runs
func (h *SyncHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		RenderError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	page, perPage := parsePagination(r)

	runs, total, err := h.runs.List(r.Context(), perPage, (page-1)*perPage)
	if err != nil {
		RenderError(w, http.StatusInternalServerError, "Failed to list sync runs: "+err.Error())
		return
	}
	if runs == nil {
		runs = []*domain.SyncRun{}
	}

	RenderJSON(w, http.StatusOK, NewPaginatedResponse(runs, total, page, perPage))
}

// GetRun handles GET /api/v1/sync/runs/{id}
func (h *SyncHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		RenderError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		RenderError(w, http.StatusBadRequest, "Invalid run ID")
		return
	}

	run, err := h.runs.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			RenderError(w, http.StatusNotFound, "Sync run not found")
			return
		}
		RenderError(w, http.StatusInternalServerError, "Failed to get sync run: "+err.Error())
		return
	}

	RenderJSON(w, http.StatusOK, run)
}

// syncErrorStatus distinguishes operator configuration problems from
// infrastructure failures
func syncErrorStatus(err error) int {
	if errors.Is(err, service.ErrNoMappings) || errors.Is(err, service.ErrNoReportSources) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
