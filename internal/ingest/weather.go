package ingest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/climatewatch/climatewatch/config"
	"github.com/climatewatch/climatewatch/internal/docstore"
	apperrors "github.com/climatewatch/climatewatch/internal/errors"
	"github.com/climatewatch/climatewatch/internal/logger"
)

// WeatherSource proxies the Open-Meteo daily forecast API. Forecast snapshots
// are append-only: successive runs for the same location are all kept, since
// the forecast changes run to run.
type WeatherSource struct {
	baseURL string
	client  *http.Client
}

// NewWeatherSource creates the weather source from upstream configuration
func NewWeatherSource(cfg config.UpstreamConfig) *WeatherSource {
	return &WeatherSource{
		baseURL: cfg.WeatherBaseURL,
		client:  &http.Client{Timeout: cfg.WeatherTimeout},
	}
}

// Name returns the source name
func (s *WeatherSource) Name() string { return "weather" }

// Collection returns the document store collection
func (s *WeatherSource) Collection() string { return docstore.WeatherCollection }

// Fetch requires latitude and longitude; everything else is fixed: a 16-day
// window, daily max/min temperature fields, and the Europe/London timezone.
func (s *WeatherSource) Fetch(ctx context.Context, params Params) ([]byte, error) {
	latitude := params.Get("latitude")
	longitude := params.Get("longitude")

	if latitude == "" {
		return nil, apperrors.ValidationError{Field: "latitude", Message: "is required"}
	}
	if longitude == "" {
		return nil, apperrors.ValidationError{Field: "longitude", Message: "is required"}
	}

	q := url.Values{}
	q.Set("latitude", latitude)
	q.Set("longitude", longitude)
	q.Set("forecast_days", "16")
	q.Set("daily", "temperature_2m_max,temperature_2m_min")
	q.Set("timezone", "Europe/London")

	fullURL := s.baseURL + "/v1/forecast?" + q.Encode()
	logger.Debug("Constructed upstream URL", "source", s.Name(), "url", fullURL)

	return get(ctx, s.client, s.Name(), fullURL)
}

// weatherPayload is the subset of the forecast response the parser reads.
type weatherPayload struct {
	Daily struct {
		Time    []string  `json:"time"`
		MaxTemp []float64 `json:"temperature_2m_max"`
		MinTemp []float64 `json:"temperature_2m_min"`
	} `json:"daily"`
}

// Parse zips the parallel daily arrays index-wise into flat records. A length
// mismatch truncates to the shortest array.
func (s *WeatherSource) Parse(raw []byte, _ Params) (ParseResult, error) {
	var payload weatherPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ParseResult{}, apperrors.ParseError{Source: s.Name(), Err: err}
	}

	// The caller gets the upstream forecast JSON back unchanged.
	var full map[string]any
	if err := json.Unmarshal(raw, &full); err != nil {
		return ParseResult{}, apperrors.ParseError{Source: s.Name(), Err: err}
	}

	n := len(payload.Daily.Time)
	if len(payload.Daily.MaxTemp) < n {
		n = len(payload.Daily.MaxTemp)
	}
	if len(payload.Daily.MinTemp) < n {
		n = len(payload.Daily.MinTemp)
	}

	docs := make([]Document, 0, n)
	for i := 0; i < n; i++ {
		docs = append(docs, Document{
			"date":     payload.Daily.Time[i],
			"max_temp": payload.Daily.MaxTemp[i],
			"min_temp": payload.Daily.MinTemp[i],
		})
	}

	return ParseResult{Documents: docs, Raw: full}, nil
}

// Key reports no natural key: weather records are never deduplicated.
func (s *WeatherSource) Key(Document) (string, any, bool) {
	return "", nil, false
}
