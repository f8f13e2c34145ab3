package repository

import (
	"context"
	"errors"
	"time"

	"github.com/gnr-surgicals/inventory/internal/account/domain"
	"github.com/gnr-surgicals/inventory/internal/common/db"
)

const table = "accounts"

var (
	ErrAccountNotFound       = errors.New("account not found")
	ErrUsernameAlreadyExists = errors.New("username already exists")
)

type Repository interface {
	Create(ctx context.Context, account domain.Account) error
	FindByUsername(ctx context.Context, username string) (domain.Account, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	DeleteByUsername(ctx context.Context, username string) (bool, error)
}

type PgRepository struct {
	q db.Querier
}

func NewPgRepository(q db.Querier) *PgRepository {
	return &PgRepository{q: q}
}

func (r *PgRepository) Create(ctx context.Context, account domain.Account) error {
	start := time.Now()
	_, err := r.q.Exec(
		ctx,
		`INSERT INTO accounts (id, username, name, password_hash, role, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $6)`,
		string(account.ID),
		account.Username,
		account.Name,
		account.PasswordHash,
		account.Role,
		account.CreatedAt,
	)
	if _, dup := db.UniqueViolation(err); dup {
		db.MeasureQueryDuration("create account", table, start)
		return ErrUsernameAlreadyExists
	}
	return db.HandleExecError(err, "create account", table, start)
}

func (r *PgRepository) FindByUsername(ctx context.Context, username string) (domain.Account, error) {
	start := time.Now()
	row := r.q.QueryRow(
		ctx,
		`SELECT id, username, name, password_hash, role, created_at, updated_at
		 FROM accounts WHERE username = $1`,
		username,
	)

	var account domain.Account
	err := row.Scan(
		&account.ID,
		&account.Username,
		&account.Name,
		&account.PasswordHash,
		&account.Role,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err := db.HandleQueryError(err, ErrAccountNotFound, "find account by username", table, start); err != nil {
		return domain.Account{}, err
	}

	return account, nil
}

func (r *PgRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	start := time.Now()
	var exists bool
	err := r.q.QueryRow(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE username = $1)`,
		username,
	).Scan(&exists)
	if err := db.HandleQueryError(err, nil, "check account exists", table, start); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PgRepository) DeleteByUsername(ctx context.Context, username string) (bool, error) {
	start := time.Now()
	tag, err := r.q.Exec(ctx, `DELETE FROM accounts WHERE username = $1`, username)
	if err := db.HandleExecError(err, "delete account", table, start); err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
