package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestUserValidate(t *testing.T) {
	tests := []struct {
		name    string
		user    User
		wantErr bool
	}{
		{
			name: "valid",
			user: User{Email: "jane@example.com", PasswordHash: "hash", VerificationCode: "123456"},
		},
		{
			name: "verification code is optional",
			user: User{Email: "jane@example.com", PasswordHash: "hash"},
		},
		{
			name:    "missing email",
			user:    User{PasswordHash: "hash"},
			wantErr: true,
		},
		{
			name:    "malformed email",
			user:    User{Email: "jane", PasswordHash: "hash"},
			wantErr: true,
		},
		{
			name:    "missing password hash",
			user:    User{Email: "jane@example.com"},
			wantErr: true,
		},
		{
			name:    "short verification code",
			user:    User{Email: "jane@example.com", PasswordHash: "hash", VerificationCode: "123"},
			wantErr: true,
		},
		{
			name:    "non numeric verification code",
			user:    User{Email: "jane@example.com", PasswordHash: "hash", VerificationCode: "12a456"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.user.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUserBSONFieldNames(t *testing.T) {
	raw, err := bson.Marshal(User{Email: "jane@example.com", PasswordHash: "hash"})
	require.NoError(t, err)

	var doc bson.M
	require.NoError(t, bson.Unmarshal(raw, &doc))

	assert.Equal(t, "jane@example.com", doc["email"])
	assert.Equal(t, "hash", doc["passwordHash"])
	assert.Contains(t, doc, "verified")
	assert.Contains(t, doc, "createdAt")
	assert.NotContains(t, doc, "_id")
	assert.NotContains(t, doc, "verificationCode")
}
