package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/render"

	"github.com/agam25rpro/Personal-Finance-Webapp/internal/infrastructure"
)

// Problem type URIs following RFC 7807
const (
	TypeValidation       = "/errors/validation"
	TypeNotFound         = "/errors/not-found"
	TypeMethodNotAllowed = "/errors/method-not-allowed"
	TypeRateLimit        = "/errors/rate-limit"
	TypeInternal         = "/errors/internal"
	TypeTimeout          = "/errors/timeout"
	TypePayloadTooLarge  = "/errors/payload-too-large"
)

// Upload and pipeline problem types
const (
	TypeMissingFile      = "/errors/upload/missing-file"
	TypeEmptyFilename    = "/errors/upload/empty-filename"
	TypeUnsupportedFile  = "/errors/upload/unsupported-file"
	TypeSchema           = "/errors/data/schema"
	TypeParse            = "/errors/data/parse"
	TypeEmptyInput       = "/errors/data/empty"
	TypeDateRange        = "/errors/data/date-range"
	TypeInsufficientData = "/errors/forecast/insufficient-data"
	TypeNonConvergence   = "/errors/forecast/non-convergence"
)

type problemSpec struct {
	status int
	uri    string
	title  string
}

var appErrorProblems = map[ErrorType]problemSpec{
	ErrTypeMissingFile:      {http.StatusBadRequest, TypeMissingFile, "Missing File"},
	ErrTypeEmptyFilename:    {http.StatusBadRequest, TypeEmptyFilename, "Empty Filename"},
	ErrTypeUnsupportedFile:  {http.StatusUnsupportedMediaType, TypeUnsupportedFile, "Unsupported File"},
	ErrTypePayloadTooLarge:  {http.StatusRequestEntityTooLarge, TypePayloadTooLarge, "Payload Too Large"},
	ErrTypeSchema:           {http.StatusUnprocessableEntity, TypeSchema, "Invalid Columns"},
	ErrTypeParse:            {http.StatusUnprocessableEntity, TypeParse, "Unparseable Value"},
	ErrTypeEmptyInput:       {http.StatusUnprocessableEntity, TypeEmptyInput, "No Data"},
	ErrTypeDateRange:        {http.StatusUnprocessableEntity, TypeDateRange, "Date Range Too Long"},
	ErrTypeInsufficientData: {http.StatusUnprocessableEntity, TypeInsufficientData, "Not Enough Data"},
	ErrTypeNonConvergence:   {http.StatusUnprocessableEntity, TypeNonConvergence, "Forecast Failed"},
}

// StatusFor returns the HTTP status a classified error is reported with.
func StatusFor(err error) int {
	if appErr, ok := AsAppError(err); ok {
		if spec, ok := appErrorProblems[appErr.Type]; ok {
			return spec.status
		}
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return http.StatusGatewayTimeout
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return http.StatusInternalServerError
}

// UserMessage returns text safe to show to the uploader.
func UserMessage(err error) string {
	if appErr, ok := AsAppError(err); ok && appErr.UserFacing() {
		return appErr.Message
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fmt.Sprintf("upload exceeds the %d byte limit", tooLarge.Limit)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "The request took too long to process"
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError {
		if v, ok := apiErr.Details.(ValidationErrors); ok && len(v.Errors) > 0 {
			return v.Errors[0].Message
		}
		return apiErr.Message
	}
	return "An unexpected error occurred while processing your upload"
}

// ErrorHandler provides centralized error handling
type ErrorHandler struct {
	logger       *slog.Logger
	includeStack bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger, includeStack bool) *ErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorHandler{
		logger:       logger.With(slog.String("component", "error_handler")),
		includeStack: includeStack,
	}
}

// HandleError converts any error to RFC 7807 format and responds
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	problem := h.ErrorToProblem(err, r)
	traceID := infrastructure.GetTraceID(r.Context())
	problem.WithExtension("trace_id", traceID)

	level := slog.LevelWarn
	if problem.Status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.logger.LogAttrs(r.Context(), level, "request failed",
		slog.String("error", err.Error()),
		slog.Int("status", problem.Status),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	if h.includeStack && problem.Status >= http.StatusInternalServerError {
		problem.WithExtension("stack", string(debug.Stack()))
	}

	render.Render(w, r, problem)
}

// ErrorToProblem converts an error to RFC 7807 Problem Details
func (h *ErrorHandler) ErrorToProblem(err error, r *http.Request) *ProblemDetails {
	if appErr, ok := AsAppError(err); ok {
		return appErrorToProblem(appErr, r.URL.Path)
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return NewProblemDetails(
			http.StatusRequestEntityTooLarge,
			TypePayloadTooLarge,
			"Payload Too Large",
			UserMessage(err),
			r.URL.Path,
		).WithExtension("max_bytes", tooLarge.Limit)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return NewProblemDetails(
			http.StatusGatewayTimeout,
			TypeTimeout,
			"Request Timeout",
			"The request took too long to process and was cancelled",
			r.URL.Path,
		)
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErrorToProblem(apiErr, r.URL.Path)
	}

	return NewProblemDetails(
		http.StatusInternalServerError,
		TypeInternal,
		"Internal Server Error",
		"An unexpected error occurred while processing your request",
		r.URL.Path,
	)
}

func appErrorToProblem(appErr *AppError, instance string) *ProblemDetails {
	spec, ok := appErrorProblems[appErr.Type]
	if !ok {
		return NewProblemDetails(
			http.StatusInternalServerError,
			TypeInternal,
			"Internal Server Error",
			"An unexpected error occurred while processing your request",
			instance,
		).WithExtension("error_code", string(appErr.Type))
	}

	problem := NewProblemDetails(spec.status, spec.uri, spec.title, appErr.Message, instance).
		WithExtension("error_code", string(appErr.Type))
	for k, v := range appErr.Context {
		problem.WithExtension(k, v)
	}
	return problem
}

func apiErrorToProblem(apiErr *APIError, instance string) *ProblemDetails {
	problemType := TypeInternal
	switch apiErr.ErrorCode {
	case "VALIDATION_FAILED", "INVALID_PARAMETER":
		problemType = TypeValidation
	case "NOT_FOUND":
		problemType = TypeNotFound
	case "RATE_LIMIT_EXCEEDED":
		problemType = TypeRateLimit
	}

	problem := NewProblemDetails(
		apiErr.StatusCode,
		problemType,
		http.StatusText(apiErr.StatusCode),
		apiErr.Message,
		instance,
	).WithExtension("error_code", apiErr.ErrorCode)

	if apiErr.Details != nil {
		problem.WithExtension("details", apiErr.Details)
	}
	return problem
}

// HandlePanic recovers from panics and returns RFC 7807 error
func (h *ErrorHandler) HandlePanic(w http.ResponseWriter, r *http.Request, recovered interface{}) {
	traceID := infrastructure.GetTraceID(r.Context())

	h.logger.ErrorContext(r.Context(), "panic recovered",
		slog.Any("panic", recovered),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("stack", string(debug.Stack())),
	)

	problem := NewProblemDetails(
		http.StatusInternalServerError,
		TypeInternal,
		"Internal Server Error",
		"An unexpected error occurred",
		r.URL.Path,
	).WithExtension("trace_id", traceID)

	if h.includeStack {
		problem.WithExtension("panic", fmt.Sprintf("%v", recovered))
	}

	render.Render(w, r, problem)
}

// NotFound returns a standard 404 error
func (h *ErrorHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	problem := apiErrorToProblem(ErrNotFound, r.URL.Path).
		WithExtension("trace_id", infrastructure.GetTraceID(r.Context()))

	render.Render(w, r, problem)
}

// MethodNotAllowed returns a standard 405 error
func (h *ErrorHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	problem := NewProblemDetails(
		http.StatusMethodNotAllowed,
		TypeMethodNotAllowed,
		"Method Not Allowed",
		fmt.Sprintf("Method %s is not allowed for this endpoint", r.Method),
		r.URL.Path,
	).WithExtension("trace_id", infrastructure.GetTraceID(r.Context()))

	render.Render(w, r, problem)
}
