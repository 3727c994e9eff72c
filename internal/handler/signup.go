package handler

import (
	"time"

	"github.com/deppfellow/go-signup/internal/server"
	"github.com/deppfellow/go-signup/internal/service"
	"github.com/labstack/echo/v4"
)

type SignupHandler struct {
	Handler
	signup *service.SignupService
}

func NewSignupHandler(s *server.Server, signup *service.SignupService) *SignupHandler {
	return &SignupHandler{
		Handler: NewHandler(s),
		signup:  signup,
	}
}

// SignupResponse is returned for a newly created user. The verification
// code is never part of it.
type SignupResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewSignupRequest() *service.SignupInput {
	return &service.SignupInput{}
}

func (h *SignupHandler) Signup(c echo.Context, req *service.SignupInput) (*SignupResponse, error) {
	user, err := h.signup.Register(c.Request().Context(), req)
	if err != nil {
		return nil, err
	}

	return &SignupResponse{
		ID:        user.ID,
		Email:     user.Email,
		Verified:  user.Verified,
		CreatedAt: user.CreatedAt,
	}, nil
}
