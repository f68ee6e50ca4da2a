package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without cause",
			err:  NewMissingFileError(),
			want: "[MISSING_FILE] No file part",
		},
		{
			name: "with cause",
			err:  NewParseError(2, "Amount", "abc", errors.New("can't convert abc to decimal")),
			want: `[PARSE] row 2: invalid Amount value "abc": can't convert abc to decimal`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		wantType ErrorType
		wantMsg  string
	}{
		{"missing file", NewMissingFileError(), ErrTypeMissingFile, "No file part"},
		{"empty filename", NewEmptyFilenameError(), ErrTypeEmptyFilename, "No selected file"},
		{"schema", NewSchemaError([]string{"Amount"}), ErrTypeSchema, "missing required column(s): Amount"},
		{"schema both", NewSchemaError([]string{"Date", "Amount"}), ErrTypeSchema, "missing required column(s): Date, Amount"},
		{"empty input", NewEmptyInputError("no data rows"), ErrTypeEmptyInput, "no data rows"},
		{"date range", NewDateRangeError("2001-01-01", "2024-01-01", 8401, 3660), ErrTypeDateRange, "transactions span 8401 days from 2001-01-01 to 2024-01-01, more than the 3660 day limit"},
		{"insufficient", NewInsufficientDataError(1, 2), ErrTypeInsufficientData, "forecasting needs at least 2 daily points, got 1"},
		{"non convergence", NewNonConvergenceError("fit failed", nil), ErrTypeNonConvergence, "fit failed"},
		{"unsupported", NewUnsupportedFileError("a.txt", []string{".csv", ".xlsx"}), ErrTypeUnsupportedFile, `unsupported file "a.txt": expected one of .csv, .xlsx`},
		{"too large", NewPayloadTooLargeError(1024), ErrTypePayloadTooLarge, "upload exceeds the 1024 byte limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.Equal(t, tt.wantMsg, tt.err.Message)
			assert.True(t, tt.err.UserFacing())
		})
	}
}

func TestParseErrorContext(t *testing.T) {
	err := NewParseError(7, "Date", "yesterday", nil)
	assert.Equal(t, 7, err.Context["row"])
	assert.Equal(t, "Date", err.Context["column"])
	assert.Equal(t, "yesterday", err.Context["value"])
}

func TestClassificationHelpers(t *testing.T) {
	cause := errors.New("nelder-mead diverged")
	wrapped := fmt.Errorf("stage forecast: %w", NewNonConvergenceError("fit failed", cause))

	assert.True(t, IsType(wrapped, ErrTypeNonConvergence))
	assert.False(t, IsType(wrapped, ErrTypeParse))
	assert.Equal(t, ErrTypeNonConvergence, TypeOf(wrapped))
	assert.ErrorIs(t, wrapped, cause)

	appErr, ok := AsAppError(wrapped)
	require.True(t, ok)
	assert.Equal(t, "fit failed", appErr.Message)

	assert.Equal(t, ErrorType(""), TypeOf(errors.New("plain")))
	assert.False(t, IsType(nil, ErrTypeParse))
}

func TestUserFacing(t *testing.T) {
	assert.False(t, NewRenderError("encode failed", nil).UserFacing())
	assert.False(t, NewConfigError("bad", nil).UserFacing())
}

func TestWithContextOnZeroValue(t *testing.T) {
	err := &AppError{Type: ErrTypeSchema, Message: "x"}
	err.WithContext("stage", "ingest")
	assert.Equal(t, "ingest", err.Context["stage"])
}
