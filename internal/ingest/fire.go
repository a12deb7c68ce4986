package ingest

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/climatewatch/climatewatch/config"
	"github.com/climatewatch/climatewatch/internal/docstore"
	apperrors "github.com/climatewatch/climatewatch/internal/errors"
	"github.com/climatewatch/climatewatch/internal/logger"
)

// Fire feed column contract (FIRMS country CSV, VIIRS sources). The feed is
// positional: these indices are part of the upstream's published schema.
const (
	fireColLatitude  = 1
	fireColLongitude = 2
	fireColBright    = 3
	fireColAcqDate   = 6
	fireColFRP       = 13
	fireMinColumns   = 14
)

// Default query parameters for the fire feed.
const (
	DefaultFireCountry       = "USA"
	DefaultFireSource        = "VIIRS_SNPP_NRT"
	DefaultFireDayRange      = "1"
	DefaultFireDisplayNumber = 25
)

// FireSource proxies the NASA FIRMS country CSV API. The MAP key is a fixed
// credential supplied via configuration, never by the caller.
type FireSource struct {
	baseURL string
	mapKey  string
	client  *http.Client
}

// NewFireSource creates the fire source from upstream configuration
func NewFireSource(cfg config.UpstreamConfig) *FireSource {
	return &FireSource{
		baseURL: cfg.FireBaseURL,
		mapKey:  cfg.FireMapKey,
		client:  &http.Client{Timeout: cfg.FireTimeout},
	}
}

// Name returns the source name
func (s *FireSource) Name() string { return "fire" }

// Collection returns the document store collection
func (s *FireSource) Collection() string { return docstore.FireCollection }

// Fetch builds the FIRMS country CSV URL. display_number is a local row cap
// consumed by the parser and is not forwarded upstream.
func (s *FireSource) Fetch(ctx context.Context, params Params) ([]byte, error) {
	country := paramOrDefault(params, "country", DefaultFireCountry)
	source := paramOrDefault(params, "source", DefaultFireSource)
	dayRange := paramOrDefault(params, "day_range", DefaultFireDayRange)

	fullURL := fmt.Sprintf("%s/api/country/csv/%s/%s/%s/%s",
		s.baseURL, s.mapKey, source, country, dayRange)
	logger.Debug("Constructed upstream URL", "source", s.Name(), "url", fullURL)

	return get(ctx, s.client, s.Name(), fullURL)
}

// Parse skips the header row and reads at most display_number data rows,
// extracting the fixed fire columns. Any row with fewer than the required
// number of fields fails the whole parse; there are no partial results.
func (s *FireSource) Parse(raw []byte, params Params) (ParseResult, error) {
	limit, err := displayNumber(params)
	if err != nil {
		return ParseResult{}, err
	}

	r := csv.NewReader(bytes.NewReader(raw))
	r.FieldsPerRecord = -1

	// Header row. An empty feed yields zero records, not an error.
	if _, err := r.Read(); err == io.EOF {
		return ParseResult{Documents: []Document{}}, nil
	} else if err != nil {
		return ParseResult{}, apperrors.ParseError{Source: s.Name(), Err: fmt.Errorf("read header: %w", err)}
	}

	docs := make([]Document, 0, limit)
	for len(docs) < limit {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return ParseResult{}, apperrors.ParseError{Source: s.Name(), Err: err}
		}
		if len(row) < fireMinColumns {
			return ParseResult{}, apperrors.ParseError{
				Source: s.Name(),
				Err:    fmt.Errorf("row %d: expected at least %d fields, got %d", len(docs)+2, fireMinColumns, len(row)),
			}
		}

		docs = append(docs, Document{
			"latitude":             row[fireColLatitude],
			"longitude":            row[fireColLongitude],
			"brightness":           row[fireColBright],
			"acquisition_date":     row[fireColAcqDate],
			"fire_radiative_power": row[fireColFRP],
		})
	}

	return ParseResult{Documents: docs}, nil
}

// Key uses latitude alone, matching the stored collection's unique index.
func (s *FireSource) Key(doc Document) (string, any, bool) {
	return "latitude", doc["latitude"], true
}

func displayNumber(params Params) (int, error) {
	raw := strings.TrimSpace(params.Get("display_number"))
	if raw == "" {
		return DefaultFireDisplayNumber, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperrors.ValidationError{Field: "display_number", Message: "must be a non-negative integer"}
	}
	return n, nil
}

func paramOrDefault(params Params, key, def string) string {
	if v := params.Get(key); v != "" {
		return v
	}
	return def
}
