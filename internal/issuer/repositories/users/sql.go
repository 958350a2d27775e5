package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/tokenbridge/internal/common"
	"github.com/dmitrijs2005/tokenbridge/internal/dbx"
	"github.com/dmitrijs2005/tokenbridge/internal/issuer/models"
)

type queries struct {
	create         string
	getUserByLogin string
}

var postgresQueries = queries{
	create: `INSERT INTO users (id, username, password_hash, created_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (username) DO NOTHING
		 RETURNING id`,
	getUserByLogin: `SELECT id, username, password_hash, created_at FROM users
		 WHERE username = $1`,
}

var sqliteQueries = queries{
	create: `INSERT INTO users (id, username, password_hash, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (username) DO NOTHING
		 RETURNING id`,
	getUserByLogin: `SELECT id, username, password_hash, created_at FROM users
		 WHERE username = ?`,
}

// SQLRepository stores users in a table guarded by a unique index on
// username. The conflicting insert returns no row, which is how a duplicate
// is told apart from other failures.
type SQLRepository struct {
	db dbx.DBTX
	q  queries
}

func NewPostgresRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db, q: postgresQueries}
}

func NewSQLiteRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db, q: sqliteQueries}
}

func (r *SQLRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	err := r.db.QueryRowContext(ctx, r.q.create,
		user.ID, user.UserName, user.PasswordHash, user.CreatedAt).Scan(&user.ID)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrDuplicateUser
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *SQLRepository) GetUserByLogin(ctx context.Context, userName string) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, r.q.getUserByLogin, userName).
		Scan(&user.ID, &user.UserName, &user.PasswordHash, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}
