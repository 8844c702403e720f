package users

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

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (username, salt, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.UserName, user.Salt, user.PasswordHash).Scan(&user.ID)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrDuplicateUser
		}
		return nil, common.StorageError("insert user", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetUserByLogin(ctx context.Context, userName string) (*models.User, error) {
	query :=
		`SELECT id, username, salt, password_hash, deleted FROM users
		 WHERE username = $1
		 `

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

func (r *PostgresRepository) UpdateCredentials(ctx context.Context, userName, oldSalt, oldHash, newSalt, newHash string) error {
	query :=
		`UPDATE users SET salt = $1, password_hash = $2
		 WHERE username = $3 AND salt = $4 AND password_hash = $5
		 `

	res, err := r.db.ExecContext(ctx, query, newSalt, newHash, userName, oldSalt, oldHash)
	if err != nil {
		return common.StorageError("update user credentials", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return common.StorageError("update user credentials", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}

	return nil
}
