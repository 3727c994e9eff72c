package handler

import (
	"github.com/deppfellow/go-signup/internal/server"
	"github.com/deppfellow/go-signup/internal/service"
)

// Handlers groups every HTTP handler so the router receives one value.
type Handlers struct {
	Health *HealthHandler
	Signup *SignupHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health: NewHealthHandler(s),
		Signup: NewSignupHandler(s, services.Signup),
	}
}
