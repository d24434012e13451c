package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/riteshkumar/account-ledger/internal/errors"
	"github.com/riteshkumar/account-ledger/internal/models"
)

type AccountRepository interface {
	FindByAccountNumber(ctx context.Context, accountNumber string) (*models.Account, error)
	FindByUserID(ctx context.Context, userID int64) ([]*models.Account, error)
	CountByUserID(ctx context.Context, userID int64) (int, error)
	// FindHighestAccountNumber returns the account with the numerically highest
	// account number, or nil when no account exists yet.
	FindHighestAccountNumber(ctx context.Context) (*models.Account, error)
	Save(ctx context.Context, account *models.Account) error
}

type PostgresAccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *PostgresAccountRepository {
	return &PostgresAccountRepository{db: db}
}

const accountColumns = `id, user_id, account_number, balance, status, registered_at, unregistered_at`

func (r *PostgresAccountRepository) FindByAccountNumber(ctx context.Context, accountNumber string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_number = $1`

	account := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, accountNumber).
		Scan(&account.ID, &account.UserID, &account.AccountNumber, &account.Balance,
			&account.Status, &account.RegisteredAt, &account.UnregisteredAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New(errors.CodeAccountNotFound)
		}
		return nil, fmt.Errorf("failed to get account by account number: %w", err)
	}
	return account, nil
}

func (r *PostgresAccountRepository) FindByUserID(ctx context.Context, userID int64) ([]*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get accounts by user ID: %w", err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		account := &models.Account{}
		err := rows.Scan(&account.ID, &account.UserID, &account.AccountNumber, &account.Balance,
			&account.Status, &account.RegisteredAt, &account.UnregisteredAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over accounts: %w", err)
	}
	return accounts, nil
}

func (r *PostgresAccountRepository) CountByUserID(ctx context.Context, userID int64) (int, error) {
	query := `SELECT COUNT(*) FROM accounts WHERE user_id = $1`

	var count int
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count accounts by user ID: %w", err)
	}
	return count, nil
}

func (r *PostgresAccountRepository) FindHighestAccountNumber(ctx context.Context) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY account_number DESC LIMIT 1`

	account := &models.Account{}
	err := r.db.QueryRowContext(ctx, query).
		Scan(&account.ID, &account.UserID, &account.AccountNumber, &account.Balance,
			&account.Status, &account.RegisteredAt, &account.UnregisteredAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get highest account number: %w", err)
	}
	return account, nil
}

// Save inserts the account when it has no ID yet and updates it otherwise.
func (r *PostgresAccountRepository) Save(ctx context.Context, account *models.Account) error {
	if account.ID == 0 {
		query := `INSERT INTO accounts (user_id, account_number, balance, status, registered_at, unregistered_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`

		err := r.db.QueryRowContext(ctx, query,
			account.UserID,
			account.AccountNumber,
			account.Balance,
			account.Status,
			account.RegisteredAt,
			account.UnregisteredAt,
		).Scan(&account.ID)
		if err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
				return fmt.Errorf("account number already exists: %w", err)
			}
			return fmt.Errorf("failed to create account: %w", err)
		}
		return nil
	}

	query := `UPDATE accounts SET balance = $1, status = $2, unregistered_at = $3 WHERE id = $4`

	result, err := r.db.ExecContext(ctx, query,
		account.Balance,
		account.Status,
		account.UnregisteredAt,
		account.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after updating account: %w", err)
	}
	if rowsAffected == 0 {
		return errors.New(errors.CodeAccountNotFound)
	}
	return nil
}
