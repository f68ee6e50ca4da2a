package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"golang.org/x/sync/semaphore"

	apperrors "github.com/agam25rpro/Personal-Finance-Webapp/internal/errors"
	"github.com/agam25rpro/Personal-Finance-Webapp/internal/exporter"
	"github.com/agam25rpro/Personal-Finance-Webapp/internal/validation"
	"github.com/agam25rpro/Personal-Finance-Webapp/pkg/contracts/domain"
)

// Analyzer runs the full pipeline on one upload.
type Analyzer interface {
	Run(ctx context.Context, upload domain.RawUpload) (*domain.Analysis, error)
}

// ForecastService runs uploads through the pipeline.
type ForecastService struct {
	analyzer Analyzer
	exporter *exporter.Exporter
	files    *validation.FileValidator
	allowed  []string
	maxBytes int64
	inFlight *semaphore.Weighted
	logger   *slog.Logger
}

// ForecastServiceConfig carries the upload limits.
type ForecastServiceConfig struct {
	AllowedExtensions []string
	MaxBytes          int64
	MaxConcurrentRuns int64
}

// NewForecastService creates a forecast service.
func NewForecastService(analyzer Analyzer, exp *exporter.Exporter, cfg ForecastServiceConfig, logger *slog.Logger) *ForecastService {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxConcurrentRuns < 1 {
		cfg.MaxConcurrentRuns = 1
	}
	logger = logger.With(slog.String("service", "forecast"))
	logger.Info("ForecastService initialized",
		slog.Any("allowed_extensions", cfg.AllowedExtensions),
		slog.Int64("max_bytes", cfg.MaxBytes),
		slog.Int64("max_concurrent_runs", cfg.MaxConcurrentRuns))

	return &ForecastService{
		analyzer: analyzer,
		exporter: exp,
		files:    validation.NewFileValidator(cfg.AllowedExtensions, logger),
		allowed:  cfg.AllowedExtensions,
		maxBytes: cfg.MaxBytes,
		inFlight: semaphore.NewWeighted(cfg.MaxConcurrentRuns),
		logger:   logger,
	}
}

// CheckUpload rejects uploads the pipeline cannot read.
func (s *ForecastService) CheckUpload(upload domain.RawUpload) error {
	if upload.Filename == "" {
		return apperrors.NewEmptyFilenameError()
	}
	if !slices.Contains(s.allowed, upload.Format()) {
		return apperrors.NewUnsupportedFileError(upload.Filename, s.allowed)
	}
	if s.maxBytes > 0 && int64(len(upload.Data)) > s.maxBytes {
		return apperrors.NewPayloadTooLargeError(s.maxBytes)
	}
	return s.files.ValidateContent(upload)
}

// Analyze validates upload and runs the pipeline once a run slot is free.
func (s *ForecastService) Analyze(ctx context.Context, upload domain.RawUpload) (*domain.Analysis, error) {
	if err := s.CheckUpload(upload); err != nil {
		return nil, err
	}
	if err := s.inFlight.Acquire(ctx, 1); err != nil {
		s.logger.WarnContext(ctx, "no pipeline slot before deadline",
			slog.String("filename", upload.Filename))
		return nil, fmt.Errorf("wait for pipeline slot: %w", err)
	}
	defer s.inFlight.Release(1)

	return s.analyzer.Run(ctx, upload)
}

// Export analyses upload and writes its tables to w in format f.
func (s *ForecastService) Export(ctx context.Context, upload domain.RawUpload, f exporter.Format, w io.Writer) (*domain.Analysis, error) {
	analysis, err := s.Analyze(ctx, upload)
	if err != nil {
		return nil, err
	}
	if err := s.exporter.Export(w, analysis, f); err != nil {
		return nil, err
	}
	return analysis, nil
}
