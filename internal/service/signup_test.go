package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/deppfellow/go-signup/internal/config"
	"github.com/deppfellow/go-signup/internal/database"
	"github.com/deppfellow/go-signup/internal/database/memory"
	"github.com/deppfellow/go-signup/internal/errs"
	"github.com/deppfellow/go-signup/internal/repository"
	"github.com/deppfellow/go-signup/internal/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestServices(t *testing.T) (*Services, *memory.Server) {
	t.Helper()

	store := memory.NewServer()
	cfg := &config.Config{
		Primary:  config.Primary{Env: "test"},
		Database: config.DatabaseConfig{Driver: config.DriverMemory, Name: "signup_test"},
	}

	srv, err := server.New(cfg, nil, nil,
		server.WithRegistry(database.NewRegistry()),
		server.WithDialer(store.Dial),
	)
	require.NoError(t, err)
	require.NoError(t, srv.Start(context.Background()))
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	services, err := NewService(srv, srv.Repositories)
	require.NoError(t, err)
	services.Signup.bcryptCost = bcrypt.MinCost

	return services, store
}

func TestSignupService_Register(t *testing.T) {
	services, store := newTestServices(t)

	user, err := services.Signup.Register(context.Background(), &SignupInput{
		Email:    "  Jane@Example.com ",
		Password: "correct horse",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.False(t, user.Verified)
	assert.Len(t, user.VerificationCode, VerificationCodeLength)
	assert.True(t, CheckPassword("correct horse", user.PasswordHash))
	assert.False(t, CheckPassword("wrong horse", user.PasswordHash))
	assert.Equal(t, 1, store.Count("signup_test", repository.UserCollection))
}

func TestSignupService_RegisterEmailTaken(t *testing.T) {
	services, store := newTestServices(t)
	ctx := context.Background()

	_, err := services.Signup.Register(ctx, &SignupInput{Email: "jane@example.com", Password: "correct horse"})
	require.NoError(t, err)

	_, err = services.Signup.Register(ctx, &SignupInput{Email: "JANE@example.com", Password: "another one"})
	require.Error(t, err)

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "USER_ALREADY_EXISTS", httpErr.Code)
	assert.Equal(t, "A User with this Email already exists", httpErr.Message)
	require.NotNil(t, httpErr.Action)
	assert.Equal(t, errs.ActionTypeRedirect, httpErr.Action.Type)
	assert.Equal(t, 1, store.Count("signup_test", repository.UserCollection))
}

func TestSignupService_RegisterInvalidInput(t *testing.T) {
	services, _ := newTestServices(t)

	tests := []struct {
		name  string
		input SignupInput
		field string
	}{
		{name: "bad email", input: SignupInput{Email: "jane", Password: "correct horse"}, field: "email"},
		{name: "short password", input: SignupInput{Email: "jane@example.com", Password: "short"}, field: "password"},
		{name: "missing password", input: SignupInput{Email: "jane@example.com"}, field: "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := services.Signup.Register(context.Background(), &tt.input)

			var httpErr *errs.HTTPError
			require.True(t, errors.As(err, &httpErr))
			assert.Equal(t, http.StatusBadRequest, httpErr.Status)
			require.Len(t, httpErr.Errors, 1)
			assert.Equal(t, tt.field, httpErr.Errors[0].Field)
		})
	}
}

func TestSignupService_RegisterStoreUnavailable(t *testing.T) {
	services, store := newTestServices(t)
	ctx := context.Background()

	require.NoError(t, services.Signup.server.DB.Disconnect(ctx))
	store.SetDialError(errors.New("connection refused"))

	_, err := services.Signup.Register(ctx, &SignupInput{Email: "jane@example.com", Password: "correct horse"})

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.Status)
}

func TestNewVerificationCode(t *testing.T) {
	for range 50 {
		code, err := NewVerificationCode()
		require.NoError(t, err)
		assert.Regexp(t, `^[0-9]{6}$`, code)
	}
}
