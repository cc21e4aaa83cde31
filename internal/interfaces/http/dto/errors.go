package dto

import "net/http"

// Transport-level error codes not produced by the domain layer
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeValidation is used when request body validation fails
	ErrCodeValidation = "VALIDATION_ERROR"
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeUnauthorized is used when authentication is required but missing
	ErrCodeUnauthorized = "UNAUTHORIZED"
	// ErrCodeForbidden is used when the caller lacks permission
	ErrCodeForbidden = "FORBIDDEN"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "CONFLICT"
)

// ErrorCodeHTTPStatus maps domain and transport error codes to HTTP
// status codes. Codes emitted by the domain layer map directly, no
// translation step in between.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeConflict:     http.StatusConflict,

	// Shared domain errors ("NOT_FOUND", "UNAUTHORIZED", "FORBIDDEN" are
	// already covered by the transport-level constants above)
	"ALREADY_EXISTS":       http.StatusConflict,
	"INVALID_INPUT":        http.StatusBadRequest,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"INVALID_STATE":        http.StatusUnprocessableEntity,

	// Storefront domain errors
	"INSUFFICIENT_STOCK":        http.StatusConflict,
	"EMPTY_CART":                http.StatusBadRequest,
	"MISSING_REQUIRED_FIELD":    http.StatusBadRequest,
	"PASSWORD_MISMATCH":         http.StatusBadRequest,
	"DUPLICATE_USERNAME":        http.StatusConflict,
	"DUPLICATE_EMAIL":           http.StatusConflict,
	"INVALID_CREDENTIALS":       http.StatusUnauthorized,
	"ORDER_PERSISTENCE_FAILURE": http.StatusInternalServerError,
	"ORDER_NUMBER_CONFLICT":     http.StatusConflict,
	"INVALID_STATUS":            http.StatusBadRequest,
	"INVALID_QUANTITY":          http.StatusBadRequest,
	"INVALID_SESSION":           http.StatusBadRequest,

	// Token errors surfaced by the auth service
	"TOKEN_EXPIRED":     http.StatusUnauthorized,
	"TOKEN_INVALID":     http.StatusUnauthorized,
	"TOKEN_MAX_REFRESH": http.StatusUnauthorized,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500 Internal Server Error.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
