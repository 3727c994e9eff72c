package storeerr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/deppfellow/go-signup/internal/database"
	"github.com/deppfellow/go-signup/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func duplicate(collection, field, message string) error {
	e := database.Wrap(database.DuplicateKey, errors.New(message))
	e.Collection, e.Field = collection, field
	return e
}

func TestHandleError(t *testing.T) {
	badRequest := errs.NewBadRequestError("Validation failed", true, nil, nil, nil)

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{
			name:        "duplicate email",
			err:         duplicate("User", "email", "dup"),
			wantStatus:  http.StatusBadRequest,
			wantCode:    "USER_ALREADY_EXISTS",
			wantMessage: "A User with this Email already exists",
		},
		{
			name:        "field recovered from the store message",
			err:         duplicate("users", "", "E11000 duplicate key error collection: signup.users index: email_1 dup key: { email: \"a@x.com\" }"),
			wantStatus:  http.StatusBadRequest,
			wantCode:    "USER_ALREADY_EXISTS",
			wantMessage: "A User with this Email already exists",
		},
		{
			name:        "duplicate id",
			err:         duplicate("User", "_id", "dup"),
			wantStatus:  http.StatusBadRequest,
			wantCode:    "USER_ALREADY_EXISTS",
			wantMessage: "A User with this identifier already exists",
		},
		{
			name:        "camel case field",
			err:         fmt.Errorf("create: %w", duplicate("email_codes", "verificationCode", "dup")),
			wantStatus:  http.StatusBadRequest,
			wantCode:    "EMAIL_CODE_ALREADY_EXISTS",
			wantMessage: "A Email Code with this Verification Code already exists",
		},
		{
			name:       "connection failure",
			err:        &database.Error{Code: database.ConnectionFailed, Op: "connect"},
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "SERVICE_UNAVAILABLE",
		},
		{
			name:       "not initialized",
			err:        &database.Error{Code: database.NotInitialized},
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "SERVICE_UNAVAILABLE",
		},
		{
			name:       "index fatal",
			err:        &database.Error{Code: database.IndexFatal},
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_SERVER_ERROR",
		},
		{
			name:       "driver error",
			err:        errors.New("socket closed"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_SERVER_ERROR",
		},
		{
			name:        "http error passes through",
			err:         badRequest,
			wantStatus:  http.StatusBadRequest,
			wantCode:    "BAD_REQUEST",
			wantMessage: "Validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HandleError(tt.err)

			var httpErr *errs.HTTPError
			require.True(t, errors.As(got, &httpErr))
			assert.Equal(t, tt.wantStatus, httpErr.Status)
			assert.Equal(t, tt.wantCode, httpErr.Code)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, httpErr.Message)
			}
		})
	}
}

func TestHandleError_Nil(t *testing.T) {
	assert.NoError(t, HandleError(nil))
}

func TestHumanizeText(t *testing.T) {
	tests := map[string]string{
		"email":             "Email",
		"passwordHash":      "Password Hash",
		"verification_code": "Verification Code",
		"":                  "",
	}

	for in, want := range tests {
		assert.Equal(t, want, humanizeText(in), in)
	}
}

func TestExtractFieldForDuplicateKey(t *testing.T) {
	assert.Equal(t, "email", extractFieldForDuplicateKey("E11000 duplicate key error collection: signup.User index: email_1 dup key: { email: null }"))
	assert.Equal(t, "createdAt", extractFieldForDuplicateKey("index: createdAt_-1 dup key: {}"))
	assert.Empty(t, extractFieldForDuplicateKey("socket closed"))
}
