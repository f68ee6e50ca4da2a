package http

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	apperrors "github.com/agam25rpro/Personal-Finance-Webapp/internal/errors"
	"github.com/agam25rpro/Personal-Finance-Webapp/pkg/contracts/domain"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(
	template.New("index.html").Funcs(template.FuncMap{
		"dataURI": func(p domain.ImagePayload) template.URL {
			return template.URL(p.DataURI())
		},
	}).ParseFS(templateFS, "templates/index.html"),
)

// pageData is rendered into the upload page.
type pageData struct {
	Error    string
	Analysis *domain.Analysis
}

// PageHandler serves the browser upload form and its results.
type PageHandler struct {
	service   ForecastServiceInterface
	validator UploadValidator
	field     string
	logger    *slog.Logger
}

// NewPageHandler creates a page handler.
func NewPageHandler(service ForecastServiceInterface, validator UploadValidator, field string, logger *slog.Logger) *PageHandler {
	return &PageHandler{
		service:   service,
		validator: validator,
		field:     field,
		logger:    logger.With(slog.String("handler", "page")),
	}
}

// Index handles GET /
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, http.StatusOK, pageData{})
}

// Upload handles POST / and POST /upload. Failures are shown as text on
// the page with the status of the error class.
func (h *PageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	analysis, err := analyzeUpload(r, h.field, h.service, h.validator)
	if err != nil {
		h.logger.WarnContext(r.Context(), "upload rejected",
			slog.String("error", err.Error()),
			slog.String("error_type", string(apperrors.TypeOf(err))))
		h.renderPage(w, r, apperrors.StatusFor(err), pageData{Error: apperrors.UserMessage(err)})
		return
	}
	h.renderPage(w, r, http.StatusOK, pageData{Analysis: analysis})
}

func (h *PageHandler) renderPage(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		h.logger.ErrorContext(r.Context(), "render page failed", slog.String("error", err.Error()))
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
