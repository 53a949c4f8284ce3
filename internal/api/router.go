package api

import (
	"net/http"

	"github.com/fieldcrew/statsync/internal/api/handlers"
)

// Router sets up all API routes
type Router struct {
	mux      *http.ServeMux
	sync     *handlers.SyncHandler
	reports  *handlers.ReportHandler
	mappings *handlers.MappingHandler
	stats    *handlers.StatsHandler
}

// NewRouter creates a new Router
func NewRouter(
	sync *handlers.SyncHandler,
	reports *handlers.ReportHandler,
	mappings *handlers.MappingHandler,
	stats *handlers.StatsHandler,
) *Router {
	return &Router{
		mux:      http.NewServeMux(),
		sync:     sync,
		reports:  reports,
		mappings: mappings,
		stats:    stats,
	}
}

// Setup configures all routes
func (r *Router) Setup(token string) http.Handler {
	r.mux.HandleFunc("/health", handleHealth)

	// Dashboard
	r.mux.HandleFunc("/api/v1/stats", r.stats.GetDashboardStats)

	// Sync endpoints
	r.mux.HandleFunc("/api/v1/sync", r.sync.Trigger)
	r.mux.HandleFunc("/api/v1/sync/runs", r.sync.ListRuns)
	r.mux.HandleFunc("/api/v1/sync/runs/{id}", r.sync.GetRun)

	// Report endpoints
	r.mux.HandleFunc("/api/v1/reports/send", r.reports.Send)
	r.mux.HandleFunc("/api/v1/reports/{period}", r.reports.Preview)

	// Mapping endpoints
	r.mux.HandleFunc("/api/v1/mappings", r.handleMappings)
	r.mux.HandleFunc("/api/v1/mappings/{id}", r.handleMapping)

	// Apply middleware
	return Chain(r.mux,
		Recovery,
		Logger,
		CORS,
		SecurityHeaders,
		Auth(token),
	)
}

// handleMappings routes requests for /api/v1/mappings
func (r *Router) handleMappings(w http.ResponseWriter, req *http.Request) {
	switch req.Method {
	case http.MethodGet:
		r.mappings.List(w, req)
	case http.MethodPost:
		r.mappings.Create(w, req)
	default:
		handlers.RenderError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// handleMapping routes requests for /api/v1/mappings/{id}
func (r *Router) handleMapping(w http.ResponseWriter, req *http.Request) {
	switch req.Method {
	case http.MethodDelete:
		r.mappings.Delete(w, req)
	default:
		handlers.RenderError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
