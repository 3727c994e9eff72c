package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBadRequestError(t *testing.T) {
	err := NewBadRequestError("Validation failed", true, nil, nil, nil)
	assert.Equal(t, "BAD_REQUEST", err.Code)
	assert.Equal(t, http.StatusBadRequest, err.Status)

	code := "USER_ALREADY_EXISTS"
	err = NewBadRequestError("taken", true, &code, nil, nil)
	assert.Equal(t, code, err.Code)
}

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError("Route not found", false, nil)
	assert.Equal(t, "NOT_FOUND", err.Code)
	assert.Equal(t, http.StatusNotFound, err.Status)
}

func TestNewServiceUnavailableError(t *testing.T) {
	err := NewServiceUnavailableError("try later")
	assert.Equal(t, "SERVICE_UNAVAILABLE", err.Code)
	assert.Equal(t, http.StatusServiceUnavailable, err.Status)
	assert.Equal(t, "try later", err.Error())
}

func TestNewInternalServerError(t *testing.T) {
	err := NewInternalServerError()
	assert.Equal(t, "INTERNAL_SERVER_ERROR", err.Code)
	assert.Equal(t, "Internal Server Error", err.Message)
	assert.False(t, err.Override)
}

func TestHTTPError_Is(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewInternalServerError())
	assert.True(t, errors.Is(err, &HTTPError{}))
	assert.False(t, errors.Is(errors.New("plain"), &HTTPError{}))
}

func TestHTTPError_WithMessage(t *testing.T) {
	orig := NewBadRequestError("a", true, nil, []FieldError{{Field: "email", Error: "is required"}}, nil)
	changed := orig.WithMessage("b")

	assert.Equal(t, "a", orig.Message)
	assert.Equal(t, "b", changed.Message)
	assert.Equal(t, orig.Errors, changed.Errors)
}

func TestMakeUpperCaseWithUnderscores(t *testing.T) {
	assert.Equal(t, "BAD_REQUEST", MakeUpperCaseWithUnderscores("Bad Request"))
}
