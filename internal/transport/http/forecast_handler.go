package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apperrors "github.com/agam25rpro/Personal-Finance-Webapp/internal/errors"
	"github.com/agam25rpro/Personal-Finance-Webapp/internal/exporter"
	api "github.com/agam25rpro/Personal-Finance-Webapp/pkg/contracts/api/v1"
)

// ForecastHandler serves the JSON forecast and export endpoints with
// RFC 7807 errors.
type ForecastHandler struct {
	service      ForecastServiceInterface
	validator    UploadValidator
	field        string
	horizon      int
	logger       *slog.Logger
	errorHandler *apperrors.ErrorHandler
}

// NewForecastHandler creates a forecast handler.
func NewForecastHandler(service ForecastServiceInterface, validator UploadValidator, field string, horizon int, logger *slog.Logger, errorHandler *apperrors.ErrorHandler) *ForecastHandler {
	return &ForecastHandler{
		service:      service,
		validator:    validator,
		field:        field,
		horizon:      horizon,
		logger:       logger.With(slog.String("handler", "forecast")),
		errorHandler: errorHandler,
	}
}

// Routes returns the forecast routes.
func (h *ForecastHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Forecast)
	r.Post("/export", h.Export)
	return r
}

// Forecast handles POST /api/v1/forecast
func (h *ForecastHandler) Forecast(w http.ResponseWriter, r *http.Request) {
	analysis, err := analyzeUpload(r, h.field, h.service, h.validator)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "forecast served",
		slog.String("run_id", analysis.RunID),
		slog.Int("days", len(analysis.Daily)))
	render.JSON(w, r, api.ForecastResponse{Analysis: analysis, Horizon: h.horizon})
}

// Export handles POST /api/v1/forecast/export?format=csv|xlsx
func (h *ForecastHandler) Export(w http.ResponseWriter, r *http.Request) {
	req := api.ExportRequest{Format: strings.ToLower(r.URL.Query().Get("format"))}
	if req.Format == "" {
		req.Format = string(exporter.FormatXLSX)
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	format, err := exporter.ParseFormat(req.Format)
	if err != nil {
		h.errorHandler.HandleError(w, r, apperrors.InvalidParameter("format", req.Format))
		return
	}

	upload, err := checkedUpload(r, h.field, h.service, h.validator)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	// Buffer so a failed export still gets a problem response.
	var buf bytes.Buffer
	analysis, err := h.service.Export(r.Context(), upload, format, &buf)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", exporter.Filename(analysis, format)))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "export write interrupted",
			slog.String("run_id", analysis.RunID),
			slog.String("error", err.Error()))
	}
}
