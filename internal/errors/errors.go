package errors

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// APIError represents a structured API error response
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
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

// ValidationError represents a single field validation failure
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// New creates a new APIError with the given parameters
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates a new APIError with additional details
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// Error codes shared by the transport layer and the problem type mapping
const (
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeValidationFailed  = "VALIDATION_FAILED"
	CodeNotFound          = "NOT_FOUND"
	CodeRateLimited       = "RATE_LIMIT_EXCEEDED"
	CodeInternal          = "INTERNAL_SERVER_ERROR"
	CodeUnavailable       = "SERVICE_UNAVAILABLE"
	CodeNoMatchingRecords = "NO_MATCHING_RECORDS"
	CodeNoValidDates      = "NO_VALID_DATES"
	CodeInvalidDate       = "INVALID_DATE"
	CodeNoFiles           = "NO_FILES"
	CodeTooManyFiles      = "TOO_MANY_FILES"
	CodeUnsupportedFile   = "UNSUPPORTED_FILE"
	CodeFileTooLarge      = "FILE_TOO_LARGE"
	CodeParseFailed       = "PARSE_FAILED"
	CodeExportFailed      = "EXPORT_FAILED"
)

// Predefined error types for common scenarios
var (
	// 400 Bad Request
	ErrInvalidRequest   = New(http.StatusBadRequest, CodeInvalidRequest, "Invalid request format")
	ErrValidationFailed = New(http.StatusBadRequest, CodeValidationFailed, "Request validation failed")
	ErrNoFiles          = New(http.StatusBadRequest, CodeNoFiles, "At least one trade history file is required")

	// 404 Not Found
	ErrNotFound = New(http.StatusNotFound, CodeNotFound, "Resource not found")

	// 422 Unprocessable Entity
	ErrNoMatchingRecords = New(http.StatusUnprocessableEntity, CodeNoMatchingRecords, "No trades matched the target symbol")
	ErrNoValidDates      = New(http.StatusUnprocessableEntity, CodeNoValidDates, "No trade carried a valid timestamp")
	ErrNoParsedFiles     = New(http.StatusUnprocessableEntity, CodeParseFailed, "None of the uploaded files could be parsed")

	// 429 Too Many Requests
	ErrRateLimitExceeded = New(http.StatusTooManyRequests, CodeRateLimited, "Rate limit exceeded")

	// 500 Internal Server Error
	ErrInternalServer = New(http.StatusInternalServerError, CodeInternal, "Internal server error")

	// 503 Service Unavailable
	ErrServiceUnavailable = New(http.StatusServiceUnavailable, CodeUnavailable, "Service temporarily unavailable")
)

// InvalidRequestWithError creates an invalid request error with details
func InvalidRequestWithError(err error) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeInvalidRequest, "Invalid request format", err.Error())
}

// ErrValidation creates a validation error with field details
func ErrValidation(field, message string) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeValidationFailed, "Request validation failed", ValidationError{
		Field:   field,
		Message: message,
	})
}

// NotFoundError creates a not found error with details
func NotFoundError(resource string) *APIError {
	return NewWithDetails(http.StatusNotFound, CodeNotFound, fmt.Sprintf("%s not found", resource), resource)
}

// InvalidDateError reports the unparsable date text of a trade
func InvalidDateError(text string) *APIError {
	return NewWithDetails(http.StatusUnprocessableEntity, CodeInvalidDate,
		fmt.Sprintf("Trade date %q could not be parsed", text),
		map[string]string{"date_text": text})
}

// TooManyFilesError reports an upload above the per-request file limit
func TooManyFilesError(got, limit int) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeTooManyFiles,
		fmt.Sprintf("At most %d files can be analyzed at once", limit),
		map[string]int{"files": got, "limit": limit})
}

// UnsupportedFileError reports a file whose extension is not accepted
func UnsupportedFileError(name string, allowed []string) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeUnsupportedFile,
		fmt.Sprintf("File %s is not a supported trade history format", name),
		map[string]interface{}{"file": name, "allowed": allowed})
}

// FileTooLargeError reports a file above the configured size limit
func FileTooLargeError(name string, limit int64) *APIError {
	return NewWithDetails(http.StatusRequestEntityTooLarge, CodeFileTooLarge,
		fmt.Sprintf("File %s exceeds the maximum size", name),
		map[string]interface{}{"file": name, "max_bytes": limit})
}

// ExportFailedError wraps a report rendering failure
func ExportFailedError(err error) *APIError {
	return NewWithDetails(http.StatusInternalServerError, CodeExportFailed, "Failed to render the report", err.Error())
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   *APIError `json:"error"`
}

// NewErrorResponse creates a new error response
func NewErrorResponse(err *APIError) *ErrorResponse {
	return &ErrorResponse{
		Success: false,
		Error:   err,
	}
}

// Render implements the render.Renderer interface
func (e *ErrorResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return e.Error.Render(w, r)
}

// ValidationErrors represents multiple validation errors
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// NewValidationErrors creates validation errors from multiple fields
func NewValidationErrors(errors []ValidationError) *APIError {
	return NewWithDetails(
		http.StatusBadRequest,
		CodeValidationFailed,
		"Request validation failed",
		ValidationErrors{Errors: errors},
	)
}

// WriteError writes an error response to the HTTP response writer
func WriteError(w http.ResponseWriter, err *APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.StatusCode)
	json.NewEncoder(w).Encode(NewErrorResponse(err))
}

// NewValidationError creates a simple validation error
func NewValidationError(message string) *APIError {
	return New(http.StatusBadRequest, CodeValidationFailed, message)
}
