package users

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

func (r *SQLiteRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `insert into users (username, salt, password_hash) values (?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query, user.UserName, user.Salt, user.PasswordHash)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrDuplicateUser
		}
		return nil, common.StorageError("insert user", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, common.StorageError("insert user", err)
	}
	user.ID = id

	return user, nil
}

func (r *SQLiteRepository) GetUserByLogin(ctx context.Context, userName string) (*models.User, error) {
	query := `select id, username, salt, password_hash, deleted from users where username = ?`

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, userName).
		Scan(&user.ID, &user.UserName, &user.Salt, &user.PasswordHash, &user.Deleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, common.StorageError("select user", err)
	}

	return user, nil
}

func (r *SQLiteRepository) UpdateCredentials(ctx context.Context, userName, oldSalt, oldHash, newSalt, newHash string) error {
	query := `update users set salt = ?, password_hash = ?
		where username = ? and salt = ? and password_hash = ?`

	res, err := r.db.ExecContext(ctx, query, newSalt, newHash, userName, oldSalt, oldHash)
	if err != nil {
		return common.StorageError("update user credentials", err)
	}

	ra, err := res.RowsAffected()
	if err != nil {
		return common.StorageError("update user credentials", err)
	}
	if ra == 0 {
		return common.ErrNotFound
	}

	return nil
}
