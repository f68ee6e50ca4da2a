package http

import (
	"context"
	"io"

	"github.com/agam25rpro/Personal-Finance-Webapp/internal/exporter"
	"github.com/agam25rpro/Personal-Finance-Webapp/pkg/contracts/domain"
)

// ForecastServiceInterface is what the handlers need from the forecast service.
type ForecastServiceInterface interface {
	CheckUpload(upload domain.RawUpload) error
	Analyze(ctx context.Context, upload domain.RawUpload) (*domain.Analysis, error)
	Export(ctx context.Context, upload domain.RawUpload, f exporter.Format, w io.Writer) (*domain.Analysis, error)
}

// UploadValidator validates request contracts.
type UploadValidator interface {
	ValidateStruct(v interface{}) error
}
