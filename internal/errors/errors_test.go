package errors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	apperror "pranchashop/internal/errors"
)

func TestMapToHTTPStatus_Validation(t *testing.T) {
	status, category, message := apperror.MapToHTTPStatus(apperror.NewValidationError("idCliente", "Cliente não encontrado"))

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", category)
	assert.Equal(t, "Cliente não encontrado", message)
}

func TestMapToHTTPStatus_NotFoundWrapped(t *testing.T) {
	err := fmt.Errorf("camada superior: %w", apperror.NewNotFoundError("id", "Pedido não encontrado"))

	status, category, message := apperror.MapToHTTPStatus(err)

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", category)
	assert.Equal(t, "Pedido não encontrado", message)
	assert.True(t, apperror.IsNotFound(err))
	assert.Equal(t, "id", apperror.FieldOf(err))
}

func TestMapToHTTPStatus_UnknownError(t *testing.T) {
	status, category, _ := apperror.MapToHTTPStatus(errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "UNKNOWN_ERROR", category)
}

func TestDBError_UnwrapsDriverError(t *testing.T) {
	driverErr := errors.New("connection reset")
	err := apperror.NewDBError("Falha ao buscar pedido", driverErr)

	assert.ErrorIs(t, err, driverErr)
	assert.False(t, apperror.IsValidation(err))
	assert.Equal(t, "", apperror.FieldOf(err))
}
