package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/xuri/excelize/v2"

	"github.com/agam25rpro/Personal-Finance-Webapp/internal/config"
	apperrors "github.com/agam25rpro/Personal-Finance-Webapp/internal/errors"
	"github.com/agam25rpro/Personal-Finance-Webapp/internal/exporter"
	"github.com/agam25rpro/Personal-Finance-Webapp/internal/forecast"
	"github.com/agam25rpro/Personal-Finance-Webapp/internal/middleware"
	"github.com/agam25rpro/Personal-Finance-Webapp/internal/pipeline"
	"github.com/agam25rpro/Personal-Finance-Webapp/internal/services"
	"github.com/agam25rpro/Personal-Finance-Webapp/internal/shared/testutil"
)

// multipartBody builds a multipart body. An empty field sends no file part.
func multipartBody(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if field != "" {
		part, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	} else {
		require.NoError(t, mw.WriteField("note", "no file"))
	}
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func uploadRequest(t *testing.T, target, field, filename, content string) *http.Request {
	t.Helper()
	body, contentType := multipartBody(t, field, filename, content)
	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set("Content-Type", contentType)
	return req
}

type HandlerSuite struct {
	suite.Suite
	router http.Handler
}

func (s *HandlerSuite) SetupTest() {
	t := s.T()
	logger, _ := testutil.NewTestLogger(t)
	cfg := config.Default()

	orchestrator, err := pipeline.NewFromConfig(cfg, logger)
	require.NoError(t, err)
	service := services.NewForecastService(orchestrator, exporter.New(logger), services.ForecastServiceConfig{
		AllowedExtensions: cfg.Upload.AllowedExtensions,
		MaxBytes:          1 << 16,
		MaxConcurrentRuns: 2,
	}, logger)
	health := services.NewHealthService("v-test", "now", "abc123", logger)
	validator := middleware.NewValidator()
	errorHandler := apperrors.NewErrorHandler(logger, false)

	pages := NewPageHandler(service, validator, FileField, logger)
	forecasts := NewForecastHandler(service, validator, FileField, forecast.DefaultConfig().Horizon, logger, errorHandler)
	healthHandler := NewHealthHandler(health, logger)

	r := chi.NewRouter()
	r.Get("/", pages.Index)
	r.Post("/", pages.Upload)
	r.Post("/upload", pages.Upload)
	r.Mount("/api/v1/forecast", forecasts.Routes())
	r.Get("/api/health/ready", healthHandler.ReadinessCheck)
	r.Get("/api/version", healthHandler.Version)
	s.router = r
}

func (s *HandlerSuite) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) TestIndexShowsForm() {
	rec := s.serve(httptest.NewRequest(http.MethodGet, "/", nil))

	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Header().Get("Content-Type"), "text/html")
	s.Contains(rec.Body.String(), `name="file"`)
	s.NotContains(rec.Body.String(), "data:image/png")
}

func (s *HandlerSuite) TestUploadRendersBothCharts() {
	for _, path := range []string{"/", "/upload"} {
		rec := s.serve(uploadRequest(s.T(), path, FileField, "spending.csv", testutil.SampleCSV))

		s.Equal(http.StatusOK, rec.Code, path)
		body := rec.Body.String()
		s.Equal(2, strings.Count(body, `src="data:image/png;base64,`), path)
		s.Contains(body, "2024-01-04")
		s.NotContains(body, "ZgotmplZ")
	}
}

func (s *HandlerSuite) TestUploadErrorsAreShownAsText() {
	tests := []struct {
		name     string
		field    string
		filename string
		content  string
		status   int
		message  string
	}{
		{"no file part", "", "", "", http.StatusBadRequest, "No file part"},
		{"wrong field", "upload", "spending.csv", testutil.SampleCSV, http.StatusBadRequest, "No file part"},
		{"empty filename", FileField, "", testutil.SampleCSV, http.StatusBadRequest, "No selected file"},
		{"binary content", FileField, "spending.pdf", "%PDF-1.7\x00\x01", http.StatusUnsupportedMediaType, "not a text CSV file"},
		{"missing column", FileField, "spending.csv", testutil.MissingAmountCSV, http.StatusUnprocessableEntity, "Amount"},
		{"header only", FileField, "spending.csv", testutil.HeaderOnlyCSV, http.StatusUnprocessableEntity, ""},
		{"one day", FileField, "spending.csv", "Date,Amount\n2024-01-01,5\n", http.StatusUnprocessableEntity, ""},
		{"bad amount", FileField, "spending.csv", "Date,Amount\n2024-01-01,lots\n", http.StatusUnprocessableEntity, "lots"},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			rec := s.serve(uploadRequest(s.T(), "/upload", tt.field, tt.filename, tt.content))

			s.Equal(tt.status, rec.Code)
			s.GreaterOrEqual(rec.Code, 400)
			s.Less(rec.Code, 500)
			s.Contains(rec.Body.String(), `class="error"`)
			s.Contains(rec.Body.String(), tt.message)
			s.NotContains(rec.Body.String(), "data:image/png")
		})
	}
}

func (s *HandlerSuite) TestUploadNotMultipart() {
	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("Date,Amount\n"))
	req.Header.Set("Content-Type", "text/csv")

	rec := s.serve(req)

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(rec.Body.String(), "No file part")
}

func (s *HandlerSuite) TestForecastJSON() {
	rec := s.serve(uploadRequest(s.T(), "/api/v1/forecast", FileField, "spending.csv", testutil.SpendingCSV("2024-03-01", 30)))
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		RunID    string `json:"run_id"`
		Horizon  int    `json:"horizon"`
		Daily    []any  `json:"daily"`
		Forecast []struct {
			Date  string  `json:"date"`
			Value float64 `json:"value"`
		} `json:"forecast"`
		Model struct {
			Phi float64 `json:"phi"`
		} `json:"model"`
		HistoryChart struct {
			MIMEType string `json:"mime_type"`
			Base64   string `json:"base64"`
		} `json:"history_chart"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))

	s.NotEmpty(body.RunID)
	s.Equal(10, body.Horizon)
	s.Len(body.Daily, 30)
	s.Require().Len(body.Forecast, 10)
	s.Equal("2024-03-31", body.Forecast[0].Date)
	s.Equal("2024-04-09", body.Forecast[9].Date)
	s.Less(body.Model.Phi, 1.0)
	s.Equal("image/png", body.HistoryChart.MIMEType)
	s.NotEmpty(body.HistoryChart.Base64)
}

func (s *HandlerSuite) TestForecastProblemDetails() {
	rec := s.serve(uploadRequest(s.T(), "/api/v1/forecast", FileField, "spending.csv", testutil.MissingAmountCSV))

	s.Equal(http.StatusUnprocessableEntity, rec.Code)
	var problem map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &problem))
	s.Equal(apperrors.TypeSchema, problem["type"])
	s.Equal("/api/v1/forecast", problem["instance"])
}

func (s *HandlerSuite) TestForecastRejectsPathFilename() {
	rec := s.serve(uploadRequest(s.T(), "/api/v1/forecast", FileField, "..spending.csv", testutil.SampleCSV))

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(rec.Body.String(), "filename")
}

func (s *HandlerSuite) TestExportXLSX() {
	req := uploadRequest(s.T(), "/api/v1/forecast/export?format=xlsx", FileField, "march.csv", testutil.SampleCSV)
	rec := s.serve(req)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	s.Equal(exporter.FormatXLSX.ContentType(), rec.Header().Get("Content-Type"))
	s.Contains(rec.Header().Get("Content-Disposition"), `filename="march_forecast.xlsx"`)

	wb, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	s.Require().NoError(err)
	defer wb.Close()
	s.Contains(wb.GetSheetList(), "Forecast")
}

func (s *HandlerSuite) TestExportCSV() {
	rec := s.serve(uploadRequest(s.T(), "/api/v1/forecast/export?format=csv", FileField, "march.csv", testutil.SampleCSV))
	s.Require().Equal(http.StatusOK, rec.Code)

	s.Contains(rec.Header().Get("Content-Type"), "text/csv")
	s.Contains(rec.Body.String(), "2024-01-02")
}

func (s *HandlerSuite) TestExportUnknownFormat() {
	rec := s.serve(uploadRequest(s.T(), "/api/v1/forecast/export?format=pdf", FileField, "march.csv", testutil.SampleCSV))

	s.Equal(http.StatusBadRequest, rec.Code)
	var problem map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &problem))
	s.EqualValues(http.StatusBadRequest, problem["status"])
	s.Equal("VALIDATION_FAILED", problem["error_code"])
}

func (s *HandlerSuite) TestHealthEndpoints() {
	rec := s.serve(httptest.NewRequest(http.MethodGet, "/api/health/ready", nil))
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), services.StatusReady)

	rec = s.serve(httptest.NewRequest(http.MethodGet, "/api/version", nil))
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "v-test")
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func TestReadinessNotReady(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	health := services.NewHealthService("v-test", "", "", logger)
	health.Register("renderer", func(_ context.Context) error { return assert.AnError })
	handler := NewHealthHandler(health, logger)

	rec := httptest.NewRecorder()
	handler.ReadinessCheck(rec, httptest.NewRequest(http.MethodGet, "/api/health/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), services.StatusNotReady)
}
