package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"pricehunt/internal/middleware"
	"pricehunt/internal/model"

	"github.com/rs/zerolog"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// errInvalidBody is returned for bodies that are not valid JSON.
var errInvalidBody = model.NewDomainError(model.ErrCodeInvalidJSON, "invalid request body")

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError maps err to a status and writes the JSON error body.
// Internal errors are logged with their cause and hidden from the client.
func writeError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	status, code, message := model.StatusFor(err)

	event := logger.Debug()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.
		Err(err).
		Str("request_id", middleware.RequestIDFromContext(r.Context())).
		Str("code", code).
		Int("status", status).
		Msg("handler error")

	middleware.WriteError(w, r, status, code, message)
}

// errBodyTooLarge is returned for bodies over maxBodyBytes.
var errBodyTooLarge = model.NewDomainError(model.ErrCodeBodyTooLarge, "request body must not exceed 1MB")

// decodeJSON reads a size-limited body holding exactly one JSON value into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)

	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return errBodyTooLarge
		case errors.Is(err, io.EOF):
			return model.NewDomainError(model.ErrCodeInvalidJSON, "request body is required")
		default:
			return errInvalidBody
		}
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errBodyTooLarge
		}
		return model.NewDomainError(model.ErrCodeInvalidJSON, "request body must contain a single JSON value")
	}
	return nil
}

// MethodNotAllowed writes the JSON 405 used when a route exists for other methods.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	middleware.WriteError(w, r, http.StatusMethodNotAllowed, model.ErrCodeMethodNotAllowed, "method not allowed")
}

// NotFound writes the JSON 404 used for unknown routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	middleware.WriteError(w, r, http.StatusNotFound, model.ErrCodeNotFound, "resource not found")
}
