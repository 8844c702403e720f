package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/catcurious/internal/common"
	"github.com/dmitrijs2005/catcurious/internal/dbx"
	"github.com/dmitrijs2005/catcurious/internal/models"
	"github.com/dmitrijs2005/catcurious/internal/repositories/repomanager"
)

// CatService manages the cat catalog. Deleted cats are invisible to every
// method except ClearAll.
type CatService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	opts        options
}

func NewCatService(db *sql.DB, m repomanager.RepositoryManager, opts ...Option) *CatService {
	return &CatService{db: db, repomanager: m, opts: newOptions(opts)}
}

// CreateCat validates and stores a new cat and returns its id.
func (s *CatService) CreateCat(ctx context.Context, name, breed string, age int, weight float64) (id int64, err error) {
	start := time.Now()
	defer func() { finish(ctx, s.opts, OpCreateCat, start, err, "name", name, "cat_id", id) }()

	in := catInput{Name: name, Breed: breed, Age: age, Weight: weight}
	if err := validateInput(in); err != nil {
		return 0, err
	}

	cat, err := s.repomanager.Cats(s.db).Create(ctx, &models.Cat{
		Name:   name,
		Breed:  breed,
		Age:    age,
		Weight: weight,
	})
	if err != nil {
		return 0, err
	}
	return cat.ID, nil
}

func (s *CatService) GetByID(ctx context.Context, id int64) (cat *models.Cat, err error) {
	start := time.Now()
	defer func() { finish(ctx, s.opts, OpGetCat, start, err, "cat_id", id) }()

	return s.repomanager.Cats(s.db).GetByID(ctx, id)
}

func (s *CatService) GetByName(ctx context.Context, name string) (cat *models.Cat, err error) {
	start := time.Now()
	defer func() { finish(ctx, s.opts, OpGetCatByName, start, err, "name", name) }()

	if name == "" {
		return nil, fmt.Errorf("%w: Name (required)", common.ErrInvalidInput)
	}
	return s.repomanager.Cats(s.db).GetByName(ctx, name)
}

// DeleteByID soft-deletes a cat. Deleting a missing or already deleted cat
// returns common.ErrNotFound.
func (s *CatService) DeleteByID(ctx context.Context, id int64) (err error) {
	start := time.Now()
	defer func() { finish(ctx, s.opts, OpDeleteCat, start, err, "cat_id", id) }()

	return s.repomanager.Cats(s.db).DeleteByID(ctx, id)
}

// ClearAll removes every cat, deleted or not, and restarts id assignment.
func (s *CatService) ClearAll(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { finish(ctx, s.opts, OpClearCats, start, err) }()

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.Cats(tx).Clear(ctx)
	})
	if err != nil && !errors.Is(err, common.ErrStorage) {
		// begin or commit failed
		return common.StorageError("clear cats transaction", err)
	}
	return err
}
