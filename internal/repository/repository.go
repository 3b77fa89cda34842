package repository

import (
	"github.com/sociogram/backend/pkg/database"
)

// Repositories bundles the storage interfaces handed to services.
type Repositories struct {
	User UserRepository
	Post PostRepository
}

// NewRepositories creates all repositories on a shared connection.
func NewRepositories(db *database.Postgres) *Repositories {
	return &Repositories{
		User: NewUserRepository(db),
		Post: NewPostRepository(db),
	}
}
