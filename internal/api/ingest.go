package api

import (
	"errors"
	"net/http"

	apperrors "github.com/climatewatch/climatewatch/internal/errors"
	"github.com/climatewatch/climatewatch/internal/ingest"
	"github.com/climatewatch/climatewatch/internal/logger"
)

// climateDataHandler handles GET /climate_data. The response body carries the
// upstream forecast JSON unchanged.
func (h *Handler) climateDataHandler(w http.ResponseWriter, r *http.Request) {
	res, err := h.pipeline.Run(r.Context(), h.weather, ingest.Params(r.URL.Query()))
	if err != nil {
		h.writeIngestError(w, r, err,
			"Missing required query parameters",
			"Failed to fetch climate data from Open-Meteo API")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"message": "Climate data fetched successfully",
		"data":    res.Raw,
	})
}

// fireDataHandler handles GET /fire_data
func (h *Handler) fireDataHandler(w http.ResponseWriter, r *http.Request) {
	res, err := h.pipeline.Run(r.Context(), h.fire, ingest.Params(r.URL.Query()))
	if err != nil {
		h.writeIngestError(w, r, err,
			"Missing required parameters",
			"Failed to fetch fire data")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"message": "Global fire data fetched successfully",
		"data":    res.Documents,
	})
}

// oilSlickDataHandler handles GET /spill_data_oil. Parameters are forwarded
// upstream as-is; there is no local validation on this route.
func (h *Handler) oilSlickDataHandler(w http.ResponseWriter, r *http.Request) {
	res, err := h.pipeline.Run(r.Context(), h.oil, ingest.Params(r.URL.Query()))
	if err != nil {
		h.writeIngestError(w, r, err,
			"Missing required parameters",
			"Failed to fetch slick data")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"message":        "Slick data fetched successfully",
		"data":           res.Documents,
		"numberMatched":  res.Meta["numberMatched"],
		"numberReturned": res.Meta["numberReturned"],
	})
}

// writeIngestError maps a pipeline failure onto the error envelope. Validation
// failures carry the route's legacy message rather than the field detail.
func (h *Handler) writeIngestError(w http.ResponseWriter, r *http.Request, err error, validationMsg, fetchMsg string) {
	ctx := r.Context()

	var validationErr apperrors.ValidationError
	var fetchErr apperrors.FetchError
	var parseErr apperrors.ParseError
	var storeErr apperrors.StoreError

	switch {
	case errors.As(err, &validationErr):
		h.writeErrorResponse(w, http.StatusBadRequest, validationMsg, "")
	case errors.As(err, &fetchErr):
		logger.WithContext(ctx).Error("Upstream fetch failed", "source", fetchErr.Source, "error", fetchErr.Err)
		h.writeErrorResponse(w, http.StatusInternalServerError, fetchMsg, fetchErr.Err.Error())
	case errors.As(err, &parseErr):
		logger.WithContext(ctx).Error("Upstream payload parse failed", "source", parseErr.Source, "error", parseErr.Err)
		h.writeErrorResponse(w, http.StatusInternalServerError, "Data processing error", parseErr.Err.Error())
	case errors.As(err, &storeErr):
		logger.WithContext(ctx).Error("Persistence failed", "operation", storeErr.Operation, "error", storeErr.Err)
		h.writeErrorResponse(w, http.StatusInternalServerError, "Data processing error", storeErr.Err.Error())
	default:
		logger.WithContext(ctx).Error("Ingestion failed", "error", err)
		h.writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", "")
	}
}
