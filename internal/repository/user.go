package repository

import (
	"context"
	"time"

	"github.com/deppfellow/go-signup/internal/database"
	"github.com/deppfellow/go-signup/internal/model"
	"github.com/deppfellow/go-signup/internal/validation"
)

// UserCollection is where users are stored.
const UserCollection = "User"

// userUniqueFields are kept under a unique index by EnsureIndexes.
var userUniqueFields = []string{"email"}

type UserRepository struct {
	db         *database.Manager
	indexWidth int
}

func NewUserRepository(db *database.Manager, indexWidth int) *UserRepository {
	return &UserRepository{
		db:         db,
		indexWidth: indexWidth,
	}
}

// EnsureIndexes creates the unique indexes of the User collection.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	return r.db.InitDB(ctx, UserCollection, userUniqueFields, r.indexWidth)
}

// EmailTaken reports whether a user with email already exists.
func (r *UserRepository) EmailTaken(ctx context.Context, email string) (bool, error) {
	return r.db.DocumentExists(ctx, "email", email, UserCollection)
}

// Create validates u, stamps its creation time and inserts it. On success
// u.ID holds the identifier assigned by the store.
func (r *UserRepository) Create(ctx context.Context, u *model.User) (string, error) {
	if err := validation.Check(u); err != nil {
		return "", err
	}

	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	id, err := r.db.AddDocument(ctx, UserCollection, u)
	if err != nil {
		return "", err
	}

	u.ID = id
	return id, nil
}

// DeleteAll removes every user. Only reset and test paths call it.
func (r *UserRepository) DeleteAll(ctx context.Context) (int64, error) {
	return r.db.RemoveAllDocuments(ctx, UserCollection)
}
