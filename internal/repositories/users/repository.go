// Package users persists user accounts.
//
// Implementations return common.ErrDuplicateUser when the username UNIQUE
// constraint fires, common.ErrNotFound when no row matches, and wrap every
// other driver failure with common.ErrStorage.
package users

import (
	"context"

	"github.com/dmitrijs2005/catcurious/internal/models"
)

type Repository interface {
	// Create inserts user and fills in its ID.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetUserByLogin looks a user up by exact username.
	GetUserByLogin(ctx context.Context, userName string) (*models.User, error)

	// UpdateCredentials replaces salt and hash in one statement, but only if
	// the row still holds oldSalt and oldHash. Otherwise it returns
	// common.ErrNotFound and changes nothing.
	UpdateCredentials(ctx context.Context, userName, oldSalt, oldHash, newSalt, newHash string) error
}
