// Package cats persists catalog entries with soft-delete semantics.
package cats

import (
	"context"

	"github.com/dmitrijs2005/catcurious/internal/models"
)

// Repository stores cats. Reads and deletes only see rows with
// deleted = FALSE; a soft-deleted row still holds its name until Clear.
type Repository interface {
	Create(ctx context.Context, cat *models.Cat) (*models.Cat, error)
	GetByID(ctx context.Context, id int64) (*models.Cat, error)
	GetByName(ctx context.Context, name string) (*models.Cat, error)

	// DeleteByID marks the cat deleted. A missing or already deleted cat
	// yields common.ErrNotFound.
	DeleteByID(ctx context.Context, id int64) error

	// Clear removes every row and restarts id assignment at 1.
	Clear(ctx context.Context) error
}
