package handler

import (
	"net/http"

	"pricehunt/internal/middleware"
	"pricehunt/internal/model"
	"pricehunt/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AlertHandler handles price alert requests for the signed-in user.
type AlertHandler struct {
	service service.AlertService
	logger  zerolog.Logger
}

// NewAlertHandler creates a new alert handler.
func NewAlertHandler(service service.AlertService, logger zerolog.Logger) *AlertHandler {
	return &AlertHandler{
		service: service,
		logger:  logger.With().Str("handler", "alert").Logger(),
	}
}

// List handles GET /api/alerts requests.
func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, r, model.ErrUnauthorised, h.logger)
		return
	}

	alerts, err := h.service.List(r.Context(), userID)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	if alerts == nil {
		alerts = []model.PriceAlert{}
	}

	writeJSON(w, http.StatusOK, alerts)
}

// Create handles POST /api/alerts requests.
func (h *AlertHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, r, model.ErrUnauthorised, h.logger)
		return
	}

	var req model.AlertRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	alert, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, alert)
}

// Delete handles DELETE /api/alerts/{id} requests.
func (h *AlertHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, r, model.ErrUnauthorised, h.logger)
		return
	}

	alertID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, r, model.NewDomainError(model.ErrCodeInvalidParameter, "invalid alert ID format"), h.logger)
		return
	}

	if err := h.service.Delete(r.Context(), userID, alertID); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
