package handler

import (
	"net/http"

	"pricehunt/internal/model"

	"github.com/rs/zerolog"
)

// CatalogReader is the in-memory catalogue served to the storefront.
type CatalogReader interface {
	Search(params model.SearchParams) (model.SearchResult, error)
	Get(id string) (*model.ProductDetail, error)
	ByBarcode(code string) (*model.ProductDetail, error)
}

// CatalogHandler serves the mock catalogue without touching the database.
type CatalogHandler struct {
	catalog CatalogReader
	logger  zerolog.Logger
}

// NewCatalogHandler creates a new catalogue handler.
func NewCatalogHandler(catalog CatalogReader, logger zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
		logger:  logger.With().Str("handler", "catalog").Logger(),
	}
}

// Search handles GET /api/catalog requests.
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	params, err := parseSearchParams(r.URL.Query())
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	result, err := h.catalog.Search(params)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// GetByID handles GET /api/catalog/{id} requests.
func (h *CatalogHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// GetByBarcode handles GET /api/catalog/barcode/{code} requests.
func (h *CatalogHandler) GetByBarcode(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.ByBarcode(r.PathValue("code"))
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}
