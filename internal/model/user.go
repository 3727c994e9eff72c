// Package model holds the documents stored by the application.
package model

import (
	"time"

	"github.com/deppfellow/go-signup/internal/validation"
)

// User is an account created through sign-up. Email is unique across the
// User collection.
type User struct {
	ID               string    `bson:"_id,omitempty" json:"id"`
	Email            string    `bson:"email" json:"email" validate:"required,email"`
	PasswordHash     string    `bson:"passwordHash" json:"-" validate:"required"`
	VerificationCode string    `bson:"verificationCode,omitempty" json:"-" validate:"omitempty,len=6,numeric"`
	Verified         bool      `bson:"verified" json:"verified"`
	CreatedAt        time.Time `bson:"createdAt" json:"createdAt"`
}

func (u *User) Validate() error {
	return validation.Struct(u)
}
