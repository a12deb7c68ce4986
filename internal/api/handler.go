package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/climatewatch/climatewatch/internal/classifier"
	"github.com/climatewatch/climatewatch/internal/docstore"
	"github.com/climatewatch/climatewatch/internal/geocoder"
	"github.com/climatewatch/climatewatch/internal/ingest"
	"github.com/climatewatch/climatewatch/internal/store"
)

// Handler handles HTTP requests for the API
type Handler struct {
	store      store.Store
	docs       docstore.Store
	pipeline   *ingest.Pipeline
	weather    ingest.Source
	fire       ingest.Source
	oil        ingest.Source
	geocoder   *geocoder.Geocoder
	classifier *classifier.Classifier
	version    string
	buildTime  string
	gitCommit  string
	startTime  time.Time
}

// NewHandler creates a new API handler
func NewHandler(st store.Store, docs docstore.Store, pipeline *ingest.Pipeline, weather, fire, oil ingest.Source, version, buildTime, gitCommit string) *Handler {
	return &Handler{
		store:      st,
		docs:       docs,
		pipeline:   pipeline,
		weather:    weather,
		fire:       fire,
		oil:        oil,
		geocoder:   geocoder.New(),
		classifier: classifier.New(),
		version:    version,
		buildTime:  buildTime,
		gitCommit:  gitCommit,
		startTime:  time.Now(),
	}
}

// RegisterRoutes registers all API routes
func (h *Handler) RegisterRoutes(r *chi.Mux) {
	// Health check endpoints
	r.Get("/health", h.healthHandler)
	r.Get("/health/ready", h.readinessHandler)
	r.Get("/health/live", h.livenessHandler)

	// External data ingestion endpoints
	r.Get("/climate_data", h.climateDataHandler)
	r.Get("/fire_data", h.fireDataHandler)
	r.Get("/spill_data_oil", h.oilSlickDataHandler)

	// Portal endpoints
	r.Get("/users", h.listUsersHandler)
	r.Post("/users", h.createUserHandler)
	r.Get("/alerts", h.listAlertsHandler)
	r.Post("/alerts", h.createAlertHandler)
	r.Get("/issues", h.listIssuesHandler)
	r.Post("/issues", h.createIssueHandler)
	r.Get("/dashboard", h.dashboardHandler)
	r.Get("/quiz", h.getQuizHandler)
	r.Post("/quiz", h.submitQuizHandler)
	r.Get("/world_map", h.worldMapHandler)

	// System info
	r.Get("/version", h.versionHandler)
}

// healthHandler provides basic health check
func (h *Handler) healthHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
		"version":   h.version,
	}

	h.writeJSONResponse(w, http.StatusOK, response)
}

// readinessHandler checks if the application is ready to serve traffic
func (h *Handler) readinessHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	checks := map[string]string{
		"store":    "ok",
		"docstore": "ok",
	}

	statusCode := http.StatusOK

	if err := h.store.Health(ctx); err != nil {
		checks["store"] = "error: " + err.Error()
		statusCode = http.StatusServiceUnavailable
	}

	if err := h.docs.Health(ctx); err != nil {
		checks["docstore"] = "error: " + err.Error()
		statusCode = http.StatusServiceUnavailable
	}

	response := map[string]interface{}{
		"status":    "ready",
		"timestamp": time.Now().UTC(),
		"checks":    checks,
	}

	h.writeJSONResponse(w, statusCode, response)
}

// livenessHandler checks if the application is alive
func (h *Handler) livenessHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "alive",
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(h.startTime).String(),
	}

	h.writeJSONResponse(w, http.StatusOK, response)
}

// versionHandler returns version information
func (h *Handler) versionHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"version":    h.version,
		"build_time": h.buildTime,
		"git_commit": h.gitCommit,
	}

	h.writeJSONResponse(w, http.StatusOK, response)
}

// writeJSONResponse writes a JSON response
func (h *Handler) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// writeErrorResponse writes the error envelope. details is omitted when empty.
func (h *Handler) writeErrorResponse(w http.ResponseWriter, statusCode int, message, details string) {
	response := map[string]interface{}{
		"error": message,
	}
	if details != "" {
		response["details"] = details
	}

	h.writeJSONResponse(w, statusCode, response)
}
