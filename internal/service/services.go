package service

import (
	"github.com/deppfellow/go-signup/internal/repository"
	"github.com/deppfellow/go-signup/internal/server"
)

type Services struct {
	Signup *SignupService
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	signupService := NewSignupService(s, repos.Users)

	return &Services{
		Signup: signupService,
	}, nil
}
