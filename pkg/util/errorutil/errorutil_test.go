package errorutil

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainErrorMapsStorageErrors(t *testing.T) {
	de := ToDomainError(pgx.ErrNoRows)
	require.NotNil(t, de)
	assert.Equal(t, "NOT_FOUND", de.Code)
	assert.Equal(t, http.StatusNotFound, de.HTTPStatus)

	de = ToDomainError(&pgconn.PgError{Code: "23505"})
	require.NotNil(t, de)
	assert.Equal(t, "CONFLICT", de.Code)
	assert.Equal(t, http.StatusConflict, de.HTTPStatus)

	de = ToDomainError(errors.New("boom"))
	require.NotNil(t, de)
	assert.Equal(t, "INTERNAL_ERROR", de.Code)
	assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
}

func TestToDomainErrorPassesThrough(t *testing.T) {
	original := NewValidationError("bad input", map[string]any{"field": "name"})
	de := ToDomainError(original)
	require.NotNil(t, de)
	assert.Equal(t, "VALIDATION_FAILED", de.Code)
	assert.Equal(t, http.StatusBadRequest, de.HTTPStatus)
	assert.Equal(t, "name", de.Details["field"])
}

func TestToDomainErrorUnwrapsWrapped(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), NewForbidden("nope"))
	de := ToDomainError(wrapped)
	require.NotNil(t, de)
	assert.Equal(t, "FORBIDDEN", de.Code)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("plain")))
	assert.False(t, IsUniqueViolation(nil))
}

func TestKeySpaceExhaustedShape(t *testing.T) {
	err := NewKeySpaceExhausted("ABC")
	var de *DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "KEY_SPACE_EXHAUSTED", de.Code)
	assert.Equal(t, http.StatusConflict, de.HTTPStatus)
	assert.Equal(t, "ABC", de.Details["base_key"])
}
