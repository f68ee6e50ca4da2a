package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType classifies a failure for the user-facing taxonomy.
type ErrorType string

const (
	ErrTypeMissingFile      ErrorType = "MISSING_FILE"
	ErrTypeEmptyFilename    ErrorType = "EMPTY_FILENAME"
	ErrTypeUnsupportedFile  ErrorType = "UNSUPPORTED_FILE"
	ErrTypePayloadTooLarge  ErrorType = "PAYLOAD_TOO_LARGE"
	ErrTypeSchema           ErrorType = "SCHEMA"
	ErrTypeParse            ErrorType = "PARSE"
	ErrTypeEmptyInput       ErrorType = "EMPTY_INPUT"
	ErrTypeDateRange        ErrorType = "DATE_RANGE"
	ErrTypeInsufficientData ErrorType = "INSUFFICIENT_DATA"
	ErrTypeNonConvergence   ErrorType = "NON_CONVERGENCE"
	ErrTypeRender           ErrorType = "RENDER"
	ErrTypeConfig           ErrorType = "CONFIG"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// UserFacing reports whether the failure was caused by the uploaded input
// rather than by the service.
func (e *AppError) UserFacing() bool {
	switch e.Type {
	case ErrTypeRender, ErrTypeConfig:
		return false
	}
	return true
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// AsAppError returns the first AppError in err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsType reports whether err carries an AppError of the given type.
func IsType(err error, errType ErrorType) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Type == errType
}

// TypeOf returns the AppError type of err, or "" for unclassified errors.
func TypeOf(err error) ErrorType {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Type
	}
	return ""
}

// NewMissingFileError reports a request without a file part.
func NewMissingFileError() *AppError {
	return NewAppError(ErrTypeMissingFile, "No file part", nil)
}

// NewEmptyFilenameError reports a file part submitted without a filename.
func NewEmptyFilenameError() *AppError {
	return NewAppError(ErrTypeEmptyFilename, "No selected file", nil)
}

// NewUnsupportedFileError reports an upload whose extension is not accepted.
func NewUnsupportedFileError(filename string, allowed []string) *AppError {
	return NewAppError(ErrTypeUnsupportedFile,
		fmt.Sprintf("unsupported file %q: expected one of %s", filename, strings.Join(allowed, ", ")), nil).
		WithContext("filename", filename)
}

// NewPayloadTooLargeError reports an upload over the configured limit.
func NewPayloadTooLargeError(limit int64) *AppError {
	return NewAppError(ErrTypePayloadTooLarge,
		fmt.Sprintf("upload exceeds the %d byte limit", limit), nil).
		WithContext("max_bytes", limit)
}

// NewSchemaError reports required columns absent from the header row.
func NewSchemaError(missing []string) *AppError {
	return NewAppError(ErrTypeSchema,
		fmt.Sprintf("missing required column(s): %s", strings.Join(missing, ", ")), nil).
		WithContext("missing_columns", missing)
}

// NewParseError reports a cell that could not be interpreted. Rows are 1-based data rows.
func NewParseError(row int, column, value string, cause error) *AppError {
	return NewAppError(ErrTypeParse,
		fmt.Sprintf("row %d: invalid %s value %q", row, column, value), cause).
		WithContext("row", row).
		WithContext("column", column).
		WithContext("value", value)
}

// NewEmptyInputError reports input with nothing to process.
func NewEmptyInputError(message string) *AppError {
	return NewAppError(ErrTypeEmptyInput, message, nil)
}

// NewDateRangeError reports transactions spread over more days than a daily
// series may hold.
func NewDateRangeError(first, last string, days, limit int) *AppError {
	return NewAppError(ErrTypeDateRange,
		fmt.Sprintf("transactions span %d days from %s to %s, more than the %d day limit", days, first, last, limit), nil).
		WithContext("days", days).
		WithContext("max_days", limit)
}

// NewInsufficientDataError reports a series too short to fit a trend.
func NewInsufficientDataError(have, need int) *AppError {
	return NewAppError(ErrTypeInsufficientData,
		fmt.Sprintf("forecasting needs at least %d daily points, got %d", need, have), nil).
		WithContext("points", have).
		WithContext("required", need)
}

// NewNonConvergenceError reports a model fit that did not produce stable parameters.
func NewNonConvergenceError(message string, cause error) *AppError {
	return NewAppError(ErrTypeNonConvergence, message, cause)
}

// NewRenderError reports a chart that could not be drawn or encoded.
func NewRenderError(message string, cause error) *AppError {
	return NewAppError(ErrTypeRender, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}
