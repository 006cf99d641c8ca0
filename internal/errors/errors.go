// Package errors maps failures onto RFC 7807 problem responses.
package errors

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// APIError represents a structured API error response
type APIError struct {
	StatusCode int    `json:"status_code"`
	ErrorCode  string `json:"error_code"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// ValidationError represents one invalid field
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors represents multiple validation errors
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// Error codes
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeNotFound         = "NOT_FOUND"
	CodeRateLimit        = "RATE_LIMIT_EXCEEDED"
	CodeInternal         = "INTERNAL_SERVER_ERROR"
	CodeUnavailable      = "SERVICE_UNAVAILABLE"

	CodeNoRiskData      = "NO_RISK_DATA"
	CodeAlertNotFound   = "ALERT_NOT_FOUND"
	CodeInvalidWeights  = "INVALID_WEIGHTS"
	CodeInvalidBacktest = "INVALID_BACKTEST"
	CodeInvalidDate     = "INVALID_DATE"
)

// New creates a new APIError with the given parameters
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates a new APIError with additional details
func NewWithDetails(statusCode int, errorCode, message string, details any) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// Predefined errors
var (
	ErrRateLimitExceeded  = New(http.StatusTooManyRequests, CodeRateLimit, "Rate limit exceeded")
	ErrInternalServer     = New(http.StatusInternalServerError, CodeInternal, "Internal server error")
	ErrServiceUnavailable = New(http.StatusServiceUnavailable, CodeUnavailable, "Service temporarily unavailable")
)

// InvalidRequestWithError creates an invalid request error with details
func InvalidRequestWithError(err error) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeInvalidRequest, "Invalid request format", err.Error())
}

// NewValidationErrors creates validation errors from multiple fields
func NewValidationErrors(errs []ValidationError) *APIError {
	return NewWithDetails(
		http.StatusBadRequest,
		CodeValidationFailed,
		"Request validation failed",
		ValidationErrors{Errors: errs},
	)
}

// NoRiskData reports that no month matches the request
func NoRiskData(message string) *APIError {
	return New(http.StatusNotFound, CodeNoRiskData, message)
}

// AlertNotFound creates the error for an unknown alert id
func AlertNotFound(id int64) *APIError {
	return New(http.StatusNotFound, CodeAlertNotFound, fmt.Sprintf("Alert not found: %d", id))
}

// InvalidWeights creates the error for an out-of-range weight update
func InvalidWeights(message string) *APIError {
	return New(http.StatusBadRequest, CodeInvalidWeights, message)
}

// InvalidBacktest creates the error for a malformed backtest request
func InvalidBacktest(message string) *APIError {
	return New(http.StatusBadRequest, CodeInvalidBacktest, message)
}

// InvalidDate creates the error for an unparseable date parameter
func InvalidDate(param, value string) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeInvalidDate,
		fmt.Sprintf("%s must be a date in YYYY-MM-DD format", param),
		ValidationError{Field: param, Message: fmt.Sprintf("invalid date %q", value)})
}
