package model

import (
	"errors"
	"net/http"
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON        = "INVALID_JSON"
	ErrCodeBodyTooLarge       = "REQUEST_TOO_LARGE"
	ErrCodeMissingField       = "MISSING_FIELD"
	ErrCodeInvalidParameter   = "INVALID_PARAMETER"
	ErrCodeInvalidBarcode     = "INVALID_BARCODE"
	ErrCodeInvalidPrice       = "INVALID_PRICE"
	ErrCodeInvalidCurrency    = "INVALID_CURRENCY"
	ErrCodeInvalidEmail       = "INVALID_EMAIL"
	ErrCodeWeakPassword       = "WEAK_PASSWORD"
	ErrCodePasswordTooLong    = "PASSWORD_TOO_LONG"
	ErrCodeAlertLimit         = "ALERT_LIMIT_REACHED"
	ErrCodeProductNotFound    = "PRODUCT_NOT_FOUND"
	ErrCodeAlertNotFound      = "ALERT_NOT_FOUND"
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeEmailTaken         = "EMAIL_TAKEN"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeUnauthorised       = "UNAUTHORIZED"
	ErrCodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is matches any DomainError carrying the same code, so a sentinel matches
// errors built later with a more specific message.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrProductNotFound    = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrAlertNotFound      = NewDomainError(ErrCodeAlertNotFound, "Price alert not found")
	ErrUserNotFound       = NewDomainError(ErrCodeUserNotFound, "User not found")
	ErrInvalidBarcode     = NewDomainError(ErrCodeInvalidBarcode, "Barcode must be a valid EAN-8, UPC-A or EAN-13 code")
	ErrInvalidTargetPrice = NewDomainError(ErrCodeInvalidPrice, "Target price must be greater than zero")
	ErrInvalidCurrency    = NewDomainError(ErrCodeInvalidCurrency, "Currency must be an ISO 4217 code")
	ErrInvalidEmail       = NewDomainError(ErrCodeInvalidEmail, "Email address is not valid")
	ErrWeakPassword       = NewDomainError(ErrCodeWeakPassword, "Password must be at least 8 characters")
	ErrPasswordTooLong    = NewDomainError(ErrCodePasswordTooLong, "Password must be at most 72 bytes")
	ErrAlertLimit         = NewDomainError(ErrCodeAlertLimit, "Maximum number of active price alerts reached")
	ErrEmailTaken         = NewDomainError(ErrCodeEmailTaken, "Email address is already registered")
	ErrInvalidCredentials = NewDomainError(ErrCodeInvalidCredentials, "Email or password is incorrect")
	ErrUnauthorised       = NewDomainError(ErrCodeUnauthorised, "Authentication required")
)

// statusByCode maps domain error codes to HTTP status codes.
var statusByCode = map[string]int{
	ErrCodeInvalidJSON:        http.StatusBadRequest,
	ErrCodeBodyTooLarge:       http.StatusRequestEntityTooLarge,
	ErrCodeMissingField:       http.StatusBadRequest,
	ErrCodeInvalidParameter:   http.StatusBadRequest,
	ErrCodeInvalidBarcode:     http.StatusBadRequest,
	ErrCodeInvalidPrice:       http.StatusBadRequest,
	ErrCodeInvalidCurrency:    http.StatusBadRequest,
	ErrCodeInvalidEmail:       http.StatusBadRequest,
	ErrCodeWeakPassword:       http.StatusBadRequest,
	ErrCodePasswordTooLong:    http.StatusBadRequest,
	ErrCodeAlertLimit:         http.StatusUnprocessableEntity,
	ErrCodeProductNotFound:    http.StatusNotFound,
	ErrCodeAlertNotFound:      http.StatusNotFound,
	ErrCodeUserNotFound:       http.StatusNotFound,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeEmailTaken:         http.StatusConflict,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeUnauthorised:       http.StatusUnauthorized,
	ErrCodeMethodNotAllowed:   http.StatusMethodNotAllowed,
}

// StatusFor returns the HTTP status and the client-facing code and message
// for err. Errors that are not domain errors become opaque 500s.
func StatusFor(err error) (status int, code, message string) {
	var de *DomainError
	if errors.As(err, &de) {
		if s, ok := statusByCode[de.Code]; ok {
			return s, de.Code, de.Message
		}
	}
	return http.StatusInternalServerError, ErrCodeInternalError, "internal server error"
}
