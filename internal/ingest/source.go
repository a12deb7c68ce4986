package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	apperrors "github.com/climatewatch/climatewatch/internal/errors"
)

// Document is one flat record produced by a source parser. Documents are
// persisted as-is and returned to the caller as-is.
type Document map[string]any

// Params carries the caller's query parameters into a source.
type Params url.Values

// Get returns the first value for key, or ""
func (p Params) Get(key string) string {
	return url.Values(p).Get(key)
}

// ParseResult is the output of a source parser.
type ParseResult struct {
	// Documents is the full ordered parsed set, before deduplication.
	Documents []Document

	// Meta carries source-specific response metadata (e.g. upstream match
	// counts for oil slicks).
	Meta map[string]any

	// Raw is the decoded upstream payload, for sources whose response body
	// passes the upstream data through unchanged.
	Raw any
}

// Source parameterizes the ingestion pipeline for one upstream API.
type Source interface {
	// Name identifies the source in logs, metrics and errors.
	Name() string

	// Collection names the document store collection records land in.
	Collection() string

	// Fetch validates params, builds the upstream URL and issues a GET with
	// the source's timeout. Returns the raw response body.
	Fetch(ctx context.Context, params Params) ([]byte, error)

	// Parse converts the raw payload into an ordered sequence of documents.
	Parse(raw []byte, params Params) (ParseResult, error)

	// Key extracts the natural key used for deduplication. ok=false means
	// the source has no natural key and every parsed record is persisted.
	Key(doc Document) (field string, value any, ok bool)
}

// maxBodySize bounds how much of an upstream response is read.
const maxBodySize = 16 << 20

// get issues a GET against an upstream and returns the body, mapping every
// transport-level failure and non-2xx status to a FetchError.
func get(ctx context.Context, client *http.Client, source, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, apperrors.FetchError{Source: source, Err: fmt.Errorf("create request: %w", err)}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, apperrors.FetchError{Source: source, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, apperrors.FetchError{Source: source, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := string(body)
		if len(detail) > 512 {
			detail = detail[:512]
		}
		return nil, apperrors.FetchError{
			Source: source,
			Err:    fmt.Errorf("HTTP %d: %s", resp.StatusCode, detail),
		}
	}

	return body, nil
}
