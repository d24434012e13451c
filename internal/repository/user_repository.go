package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/riteshkumar/account-ledger/internal/errors"
	"github.com/riteshkumar/account-ledger/internal/models"
)

type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*models.AccountUser, error)
}

type PostgresUserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) FindByID(ctx context.Context, id int64) (*models.AccountUser, error) {
	query := `SELECT id, name, created_at FROM account_users WHERE id = $1`

	user := &models.AccountUser{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&user.ID, &user.Name, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New(errors.CodeUserNotFound)
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return user, nil
}
