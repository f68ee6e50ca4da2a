package validation

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	apperrors "github.com/agam25rpro/Personal-Finance-Webapp/internal/errors"
	"github.com/agam25rpro/Personal-Finance-Webapp/pkg/contracts/domain"
)

// sniffLen is how much of an upload is inspected for its content type.
const sniffLen = 8 << 10

// zipMagic starts every XLSX workbook.
var zipMagic = []byte("PK\x03\x04")

// FileValidator checks input files and uploads before they are parsed.
type FileValidator struct {
	allowed []string
	logger  *slog.Logger
}

// NewFileValidator creates a validator accepting the given extensions.
func NewFileValidator(allowed []string, logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		allowed: allowed,
		logger:  logger,
	}
}

// ValidateInputFile checks that path is a readable regular file in an
// accepted format.
func (v *FileValidator) ValidateInputFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("Input file does not exist",
			slog.String("file", path))
		return fmt.Errorf("file %s does not exist", path)
	}
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	format := domain.RawUpload{Filename: path}.Format()
	if !slices.Contains(v.allowed, format) {
		return apperrors.NewUnsupportedFileError(filepath.Base(path), v.allowed)
	}
	if strings.HasPrefix(filepath.Base(path), "~$") {
		return fmt.Errorf("file %s is a temporary Excel file", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("Input file validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateOutputDirectory ensures dir exists and is writable.
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	testFile, err := os.CreateTemp(dir, ".write_test")
	if err != nil {
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	testFile.Close()
	os.Remove(testFile.Name())
	return nil
}

// ValidateContent rejects uploads whose bytes do not match their extension:
// workbooks must be zip archives and CSV must be text. Empty uploads pass
// and are reported by the parser.
func (v *FileValidator) ValidateContent(upload domain.RawUpload) error {
	if len(upload.Data) == 0 {
		return nil
	}
	head := upload.Data[:min(len(upload.Data), sniffLen)]

	var problem string
	switch upload.Format() {
	case domain.FormatWorkbook:
		if !bytes.HasPrefix(head, zipMagic) {
			problem = "is not an Excel workbook"
		}
	case domain.FormatCSV:
		if bytes.IndexByte(head, 0) >= 0 || bytes.HasPrefix(head, zipMagic) {
			problem = "is not a text CSV file"
		}
	}
	if problem == "" {
		return nil
	}

	v.logger.Warn("Upload content does not match extension",
		slog.String("filename", upload.Filename),
		slog.String("extension", upload.Extension()))
	return apperrors.NewAppError(apperrors.ErrTypeUnsupportedFile,
		fmt.Sprintf("%s %s", upload.Filename, problem), nil).
		WithContext("filename", upload.Filename)
}
