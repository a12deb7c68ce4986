package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/climatewatch/climatewatch/internal/docstore"
	"github.com/climatewatch/climatewatch/internal/logger"
	"github.com/climatewatch/climatewatch/internal/metrics"
)

// Result is the outcome of one ingestion run. Documents always holds the full
// parsed set, independent of how many records were newly persisted.
type Result struct {
	Documents []Document
	Meta      map[string]any
	Raw       any
	Inserted  int
}

// Pipeline runs the fetch, parse, dedup, persist sequence for any Source.
type Pipeline struct {
	docs docstore.Store
	sem  *semaphore.Weighted
}

// New creates a pipeline persisting into the given document store.
// maxConcurrent caps in-flight upstream fetches across all sources.
func New(docs docstore.Store, maxConcurrent int) *Pipeline {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Pipeline{
		docs: docs,
		sem:  semaphore.NewWeighted(int64(maxConcurrent)),
	}
}

// Run executes a single synchronous ingestion pass for one source. The first
// failing stage aborts the run; there are no retries and no partial results.
func (p *Pipeline) Run(ctx context.Context, src Source, params Params) (*Result, error) {
	runID := uuid.NewString()
	start := time.Now()

	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("acquire fetch slot: %w", err)
	}
	raw, err := src.Fetch(ctx, params)
	p.sem.Release(1)
	if err != nil {
		metrics.RecordIngestRun(src.Name(), "fetch_error", time.Since(start))
		return nil, err
	}

	parsed, err := src.Parse(raw, params)
	if err != nil {
		metrics.RecordIngestRun(src.Name(), "parse_error", time.Since(start))
		return nil, err
	}

	// Dedup: one point query per candidate against the natural key. Records
	// already present are dropped silently; they still appear in Documents.
	admitted := make([]any, 0, len(parsed.Documents))
	for _, doc := range parsed.Documents {
		field, value, ok := src.Key(doc)
		if ok {
			exists, err := p.docs.Exists(ctx, src.Collection(), field, value)
			if err != nil {
				metrics.RecordIngestRun(src.Name(), "store_error", time.Since(start))
				return nil, err
			}
			if exists {
				continue
			}
		}
		admitted = append(admitted, map[string]any(doc))
	}

	inserted := 0
	if len(admitted) > 0 {
		inserted, err = p.docs.InsertMany(ctx, src.Collection(), admitted)
		if err != nil {
			metrics.RecordIngestRun(src.Name(), "store_error", time.Since(start))
			return nil, err
		}
	}

	duration := time.Since(start)
	metrics.RecordIngestRun(src.Name(), "success", duration)
	metrics.AddIngestRecords(src.Name(), "parsed", len(parsed.Documents))
	metrics.AddIngestRecords(src.Name(), "inserted", inserted)
	metrics.AddIngestRecords(src.Name(), "duplicate", len(parsed.Documents)-len(admitted))

	logger.Info("Ingestion run completed",
		"run_id", runID,
		"source", src.Name(),
		"parsed", len(parsed.Documents),
		"inserted", inserted,
		"duration_ms", duration.Milliseconds(),
	)

	return &Result{
		Documents: parsed.Documents,
		Meta:      parsed.Meta,
		Raw:       parsed.Raw,
		Inserted:  inserted,
	}, nil
}
