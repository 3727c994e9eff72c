package repository

import (
	"github.com/deppfellow/go-signup/internal/config"
	"github.com/deppfellow/go-signup/internal/database"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Users *UserRepository
}

// NewRepositories builds every repository on top of the shared Manager.
// cfg may be nil, in which case the Manager's own defaults apply.
func NewRepositories(db *database.Manager, cfg *config.Config) *Repositories {
	indexWidth := 0
	if cfg != nil {
		indexWidth = cfg.Database.IndexWidth
	}

	return &Repositories{
		Users: NewUserRepository(db, indexWidth),
	}
}
