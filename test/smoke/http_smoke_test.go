package smoke

import (
	"net/http/httptest"
	"testing"
	"time"

	chi "github.com/go-chi/chi/v5"

	"github.com/climatewatch/climatewatch/config"
	"github.com/climatewatch/climatewatch/internal/api"
	"github.com/climatewatch/climatewatch/internal/docstore"
	"github.com/climatewatch/climatewatch/internal/ingest"
	"github.com/climatewatch/climatewatch/internal/store"
)

func TestHealthAndPortalSmoke(t *testing.T) {
	cfg := config.UpstreamConfig{
		WeatherBaseURL: "http://unused.invalid",
		WeatherTimeout: time.Second,
		FireBaseURL:    "http://unused.invalid",
		FireTimeout:    time.Second,
		OilBaseURL:     "http://unused.invalid",
		OilTimeout:     time.Second,
	}

	docs := docstore.NewMemoryStore()
	h := api.NewHandler(
		store.NewInMemoryStore(),
		docs,
		ingest.New(docs, 1),
		ingest.NewWeatherSource(cfg),
		ingest.NewFireSource(cfg),
		ingest.NewOilSlickSource(cfg),
		"dev", time.Now().Format(time.RFC3339), "git",
	)
	r := chi.NewRouter()
	h.RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
	if rec.Code != 200 {
		t.Fatalf("/health %d", rec.Code)
	}

	rec2 := httptest.NewRecorder()
	r.ServeHTTP(rec2, httptest.NewRequest("GET", "/users", nil))
	if rec2.Code != 200 {
		t.Fatalf("/users %d", rec2.Code)
	}

	// Missing coordinates must not reach any upstream.
	rec3 := httptest.NewRecorder()
	r.ServeHTTP(rec3, httptest.NewRequest("GET", "/climate_data", nil))
	if rec3.Code != 400 {
		t.Fatalf("/climate_data without params %d", rec3.Code)
	}
}
