package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/climatewatch/climatewatch/config"
	"github.com/climatewatch/climatewatch/internal/docstore"
	apperrors "github.com/climatewatch/climatewatch/internal/errors"
	"github.com/climatewatch/climatewatch/internal/logger"
)

// OilSlickSource proxies the Cerulean oil-slick detection API.
type OilSlickSource struct {
	baseURL string
	client  *http.Client
}

// NewOilSlickSource creates the oil-slick source from upstream configuration
func NewOilSlickSource(cfg config.UpstreamConfig) *OilSlickSource {
	return &OilSlickSource{
		baseURL: cfg.OilBaseURL,
		client:  &http.Client{Timeout: cfg.OilTimeout},
	}
}

// Name returns the source name
func (s *OilSlickSource) Name() string { return "oil_slick" }

// Collection returns the document store collection
func (s *OilSlickSource) Collection() string { return docstore.OilCollection }

// Fetch builds the slick query. min_confidence becomes a server-side filter
// expression, percent-encoded into the query string; bbox whitespace is
// stripped. Missing parameters are forwarded as-is and surface as upstream
// errors rather than local validation failures.
func (s *OilSlickSource) Fetch(ctx context.Context, params Params) ([]byte, error) {
	bbox := strings.ReplaceAll(params.Get("bbox"), " ", "")
	startDate := params.Get("start_date")
	endDate := params.Get("end_date")
	minConfidence := params.Get("min_confidence")
	limit := params.Get("limit")

	filter := fmt.Sprintf("machine_confidence GTE %s", minConfidence)

	fullURL := fmt.Sprintf(
		"%s/collections/public.slick_plus/items?limit=%s&bbox=%s&datetime=%s/%s&sortby=-machine_confidence&filter=%s",
		s.baseURL, limit, bbox, startDate, endDate, url.PathEscape(filter),
	)
	logger.Debug("Constructed upstream URL", "source", s.Name(), "url", fullURL)

	return get(ctx, s.client, s.Name(), fullURL)
}

// oilPayload is the feature-collection shape returned by the slick endpoint.
type oilPayload struct {
	Features []struct {
		Properties map[string]any `json:"properties"`
	} `json:"features"`
	NumberMatched  any `json:"numberMatched"`
	NumberReturned any `json:"numberReturned"`
}

// Parse extracts a fixed set of properties from each feature. Missing
// properties yield nulls, never a failure.
func (s *OilSlickSource) Parse(raw []byte, _ Params) (ParseResult, error) {
	var payload oilPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ParseResult{}, apperrors.ParseError{Source: s.Name(), Err: err}
	}

	docs := make([]Document, 0, len(payload.Features))
	for _, f := range payload.Features {
		docs = append(docs, Document{
			"id":                 f.Properties["id"],
			"area":               f.Properties["area"],
			"machine_confidence": f.Properties["machine_confidence"],
			"slick_timestamp":    f.Properties["slick_timestamp"],
			"classification":     f.Properties["cls_long_name"],
		})
	}

	return ParseResult{
		Documents: docs,
		Meta: map[string]any{
			"numberMatched":  payload.NumberMatched,
			"numberReturned": payload.NumberReturned,
		},
	}, nil
}

// Key uses the upstream-assigned slick identifier.
func (s *OilSlickSource) Key(doc Document) (string, any, bool) {
	return "id", doc["id"], true
}
