package handler

import (
	"context"
	"net/http"

	"pricehunt/internal/model"
	"pricehunt/internal/service"

	"github.com/rs/zerolog"
)

// FeedImporter imports retailer price feeds.
type FeedImporter interface {
	Import(ctx context.Context, paths []string) (*model.ImportResult, error)
}

// AdminHandler handles price ingestion requests guarded by the API key.
type AdminHandler struct {
	prices   service.PriceService
	importer FeedImporter
	logger   zerolog.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(prices service.PriceService, importer FeedImporter, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		prices:   prices,
		importer: importer,
		logger:   logger.With().Str("handler", "admin").Logger(),
	}
}

// RecordPrices handles POST /api/admin/prices requests.
func (h *AdminHandler) RecordPrices(w http.ResponseWriter, r *http.Request) {
	var req model.PriceUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	recorded, err := h.prices.RecordPrices(r.Context(), req.Updates)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.PriceUpdateResponse{Recorded: recorded})
}

// ImportFeeds handles POST /api/admin/feeds/import requests. Feeds that
// fail are reported per path in a 200 response; the call itself only fails
// when the request is malformed.
func (h *AdminHandler) ImportFeeds(w http.ResponseWriter, r *http.Request) {
	var req model.FeedImportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	if len(req.Paths) == 0 {
		writeError(w, r, model.NewDomainError(model.ErrCodeMissingField, "paths is required"), h.logger)
		return
	}

	result, err := h.importer.Import(r.Context(), req.Paths)
	if result == nil {
		writeError(w, r, err, h.logger)
		return
	}
	if err != nil {
		h.logger.Warn().Err(err).Int("failed", result.Failed).Msg("feed import finished with errors")
	}

	writeJSON(w, http.StatusOK, result)
}
