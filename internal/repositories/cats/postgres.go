package cats

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/catcurious/internal/common"
	"github.com/dmitrijs2005/catcurious/internal/dbx"
	"github.com/dmitrijs2005/catcurious/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, cat *models.Cat) (*models.Cat, error) {
	query :=
		`INSERT INTO cats (name, breed, age, weight)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		cat.Name, cat.Breed, cat.Age, cat.Weight).Scan(&cat.ID)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrDuplicateName
		}
		return nil, common.StorageError("insert cat", err)
	}

	return cat, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Cat, error) {
	query :=
		`SELECT id, name, breed, age, weight, deleted FROM cats
		 WHERE id = $1 AND deleted = FALSE
		 `

	return r.get(ctx, query, id)
}

func (r *PostgresRepository) GetByName(ctx context.Context, name string) (*models.Cat, error) {
	query :=
		`SELECT id, name, breed, age, weight, deleted FROM cats
		 WHERE name = $1 AND deleted = FALSE
		 `

	return r.get(ctx, query, name)
}

func (r *PostgresRepository) get(ctx context.Context, query string, arg any) (*models.Cat, error) {
	cat := &models.Cat{}
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&cat.ID, &cat.Name, &cat.Breed, &cat.Age, &cat.Weight, &cat.Deleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, common.StorageError("select cat", err)
	}
	return cat, nil
}

func (r *PostgresRepository) DeleteByID(ctx context.Context, id int64) error {
	query :=
		`UPDATE cats SET deleted = TRUE
		 WHERE id = $1 AND deleted = FALSE
		 `

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return common.StorageError("delete cat", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return common.StorageError("delete cat", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}

	return nil
}

func (r *PostgresRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `TRUNCATE TABLE cats RESTART IDENTITY`); err != nil {
		return common.StorageError("clear cats", err)
	}
	return nil
}
