package handler

import (
	"net/http"
	"strconv"
	"strings"

	"pricehunt/internal/model"
	"pricehunt/internal/service"

	"github.com/rs/zerolog"
)

// ProductHandler handles product-related HTTP requests.
type ProductHandler struct {
	service service.ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// Search handles GET /api/products requests.
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	params, err := parseSearchParams(r.URL.Query())
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	result, err := h.service.Search(r.Context(), params)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// GetByID handles GET /api/products/{id} requests.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// GetByBarcode handles GET /api/barcode/{code} requests.
func (h *ProductHandler) GetByBarcode(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetByBarcode(r.Context(), r.PathValue("code"))
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Compare handles GET /api/compare?ids=a,b requests.
func (h *ProductHandler) Compare(w http.ResponseWriter, r *http.Request) {
	comparison, err := h.service.Compare(r.Context(), parseIDs(r.URL.Query()))
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, comparison)
}

// History handles GET /api/products/{id}/history requests.
func (h *ProductHandler) History(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	days := 0
	if s := q.Get("days"); s != "" {
		var err error
		days, err = strconv.Atoi(s)
		if err != nil {
			writeError(w, r, model.NewDomainError(model.ErrCodeInvalidParameter, "days must be an integer"), h.logger)
			return
		}
	}

	history, err := h.service.History(r.Context(), r.PathValue("id"), days, strings.TrimSpace(q.Get("store")))
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, history)
}
