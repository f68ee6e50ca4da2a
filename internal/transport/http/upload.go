package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/agam25rpro/Personal-Finance-Webapp/internal/config"
	apperrors "github.com/agam25rpro/Personal-Finance-Webapp/internal/errors"
	api "github.com/agam25rpro/Personal-Finance-Webapp/pkg/contracts/api/v1"
	"github.com/agam25rpro/Personal-Finance-Webapp/pkg/contracts/domain"
)

// FileField is the default multipart field the upload is read from.
const FileField = config.DefaultFormField

// multipartMemory is how much of a multipart body is held in memory before
// spilling to temporary files. Bodies are already capped by UploadLimit.
const multipartMemory = 32 << 20

// readUpload extracts the file in field from a multipart request.
func readUpload(r *http.Request, field string) (domain.RawUpload, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return domain.RawUpload{}, apperrors.NewPayloadTooLargeError(tooLarge.Limit)
		}
		return domain.RawUpload{}, apperrors.NewMissingFileError()
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		// A part sent with an empty filename is parsed as a plain value.
		if _, ok := r.MultipartForm.Value[field]; ok {
			return domain.RawUpload{}, apperrors.NewEmptyFilenameError()
		}
		return domain.RawUpload{}, apperrors.NewMissingFileError()
	}
	defer file.Close()

	if header.Filename == "" {
		return domain.RawUpload{}, apperrors.NewEmptyFilenameError()
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return domain.RawUpload{}, fmt.Errorf("read upload %q: %w", header.Filename, err)
	}
	return domain.RawUpload{Filename: header.Filename, Data: data}, nil
}

// analyzeUpload reads, checks and analyses the upload in r.
func analyzeUpload(r *http.Request, field string, service ForecastServiceInterface, validator UploadValidator) (*domain.Analysis, error) {
	upload, err := checkedUpload(r, field, service, validator)
	if err != nil {
		return nil, err
	}
	return service.Analyze(r.Context(), upload)
}

// checkedUpload reads the upload and rejects it before any pipeline work
// when its name or size is unacceptable.
func checkedUpload(r *http.Request, field string, service ForecastServiceInterface, validator UploadValidator) (domain.RawUpload, error) {
	upload, err := readUpload(r, field)
	if err != nil {
		return domain.RawUpload{}, err
	}
	if err := service.CheckUpload(upload); err != nil {
		return domain.RawUpload{}, err
	}
	req := api.UploadRequest{
		Filename: upload.Filename,
		Format:   upload.Format(),
		Size:     int64(len(upload.Data)),
	}
	if err := validator.ValidateStruct(req); err != nil {
		return domain.RawUpload{}, err
	}
	return upload, nil
}
