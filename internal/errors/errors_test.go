package errors

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProblemDetails_MarshalJSON(t *testing.T) {
	problem := NewProblemDetails(http.StatusUnprocessableEntity, TypeSchema, "Invalid Columns", "", "/upload").
		WithExtension("missing_columns", []string{"Amount"}).
		WithExtension("status", "ignored")

	data, err := json.Marshal(problem)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, TypeSchema, body["type"])
	assert.Equal(t, float64(422), body["status"], "standard fields win over extensions")
	assert.NotContains(t, body, "detail")
	assert.Equal(t, []any{"Amount"}, body["missing_columns"])
}

func TestAPIError(t *testing.T) {
	err := InvalidParameter("format", "pdf")
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "INVALID_PARAMETER", err.ErrorCode)
	assert.Equal(t, `invalid value "pdf" for parameter format`, err.Error())

	v := NewValidationErrors([]ValidationError{{Field: "filename", Message: "filename is required"}})
	details, ok := v.Details.(ValidationErrors)
	require.True(t, ok)
	assert.Len(t, details.Errors, 1)
}
