package apiErrors

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteError(rec, ErrInvalidRange, "El rango no debe ser mayor a 3 meses.", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, ErrInvalidRange, body.Code)
	assert.Equal(t, "El rango no debe ser mayor a 3 meses.", body.Message)
}

func TestWriteError_NoContent(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteError(rec, ErrNothingToExport, "sin datos", nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestWriteError_UnknownCode(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteError(rec, "XXX_999", "desconocido", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestFromError(t *testing.T) {
	assert.Equal(t, ErrInternalServer, FromError(nil, ErrDatabaseOperation).Code)

	apiErr := FromError(errors.New("falló"), ErrDatabaseOperation)
	assert.Equal(t, ErrDatabaseOperation, apiErr.Code)
	assert.Equal(t, "falló", apiErr.Message)
}
