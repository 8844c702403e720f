package cats

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/catcurious/internal/common"
	"github.com/dmitrijs2005/catcurious/internal/dbx"
	"github.com/dmitrijs2005/catcurious/internal/models"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, cat *models.Cat) (*models.Cat, error) {
	query := `insert into cats (name, breed, age, weight) values (?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query, cat.Name, cat.Breed, cat.Age, cat.Weight)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrDuplicateName
		}
		return nil, common.StorageError("insert cat", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, common.StorageError("insert cat", err)
	}
	cat.ID = id

	return cat, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.Cat, error) {
	return r.get(ctx,
		`select id, name, breed, age, weight, deleted from cats where id = ? and deleted = false`, id)
}

func (r *SQLiteRepository) GetByName(ctx context.Context, name string) (*models.Cat, error) {
	return r.get(ctx,
		`select id, name, breed, age, weight, deleted from cats where name = ? and deleted = false`, name)
}

func (r *SQLiteRepository) get(ctx context.Context, query string, arg any) (*models.Cat, error) {
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

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`update cats set deleted = true where id = ? and deleted = false`, id)
	if err != nil {
		return common.StorageError("delete cat", err)
	}

	ra, err := res.RowsAffected()
	if err != nil {
		return common.StorageError("delete cat", err)
	}
	if ra == 0 {
		return common.ErrNotFound
	}

	return nil
}

// Clear issues two statements; callers that need them to be atomic bind
// the repository to a transaction (see services.CatService.ClearAll).
func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `delete from cats`); err != nil {
		return common.StorageError("clear cats", err)
	}
	if _, err := r.db.ExecContext(ctx, `delete from sqlite_sequence where name = 'cats'`); err != nil {
		return common.StorageError("reset cats sequence", err)
	}
	return nil
}
