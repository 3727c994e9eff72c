package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/deppfellow/go-signup/internal/errs"
	"github.com/deppfellow/go-signup/internal/model"
	"github.com/deppfellow/go-signup/internal/repository"
	"github.com/deppfellow/go-signup/internal/server"
	"github.com/deppfellow/go-signup/internal/storeerr"
	"github.com/deppfellow/go-signup/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

const (
	// BcryptCost is the bcrypt cost factor for stored passwords.
	BcryptCost = 12

	// VerificationCodeLength is the number of digits in a verification code.
	VerificationCodeLength = 6
)

// SignupInput is what a client submits to create an account. bcrypt only
// looks at the first 72 bytes of a password, hence the upper bound.
type SignupInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

func (i *SignupInput) Validate() error {
	return validation.Struct(i)
}

type SignupService struct {
	server     *server.Server
	users      *repository.UserRepository
	bcryptCost int
}

func NewSignupService(s *server.Server, users *repository.UserRepository) *SignupService {
	return &SignupService{
		server:     s,
		users:      users,
		bcryptCost: BcryptCost,
	}
}

// Register creates an unverified user with a fresh verification code.
//
// Every failure is an *errs.HTTPError: 400 for invalid input or an email
// that is already registered, 503 when the store is unreachable and 500
// otherwise.
func (s *SignupService) Register(ctx context.Context, in *SignupInput) (*model.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validation.Check(in); err != nil {
		return nil, err
	}

	log := s.server.Logger.With().Str("email", in.Email).Logger()

	taken, err := s.users.EmailTaken(ctx, in.Email)
	if err != nil {
		log.Error().Err(err).Msg("failed to look up email")
		return nil, storeerr.HandleError(err)
	}
	if taken {
		return nil, emailTakenError()
	}

	hash, err := HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")
		return nil, errs.NewInternalServerError()
	}

	code, err := NewVerificationCode()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate verification code")
		return nil, errs.NewInternalServerError()
	}

	user := &model.User{
		Email:            in.Email,
		PasswordHash:     hash,
		VerificationCode: code,
	}

	// The unique email index still catches a concurrent sign-up that
	// passed the lookup above.
	if _, err := s.users.Create(ctx, user); err != nil {
		log.Warn().Err(err).Msg("failed to create user")
		return nil, storeerr.HandleError(err)
	}

	log.Info().Str("user_id", user.ID).Msg("user signed up")
	return user, nil
}

func emailTakenError() *errs.HTTPError {
	code := "USER_ALREADY_EXISTS"
	return errs.NewBadRequestError(
		"A User with this Email already exists",
		true,
		&code,
		nil,
		&errs.Action{
			Type:    errs.ActionTypeRedirect,
			Message: "Sign in with this email instead",
			Value:   "/sign-in",
		},
	)
}

// HashPassword hashes a password using bcrypt.
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword verifies a password against a hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// NewVerificationCode returns a random numeric code of
// VerificationCodeLength digits, leading zeros included.
func NewVerificationCode() (string, error) {
	limit := big.NewInt(1)
	for range VerificationCodeLength {
		limit.Mul(limit, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", VerificationCodeLength, n), nil
}
