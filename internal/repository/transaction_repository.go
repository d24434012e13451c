package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/riteshkumar/account-ledger/internal/errors"
	"github.com/riteshkumar/account-ledger/internal/models"
)

// TransactionRepository is the append-only transaction ledger. Records are
// inserted once and never updated or deleted.
type TransactionRepository interface {
	FindByTransactionID(ctx context.Context, transactionID string) (*models.Transaction, error)
	Save(ctx context.Context, transaction *models.Transaction) error
}

type PostgresTransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *PostgresTransactionRepository {
	return &PostgresTransactionRepository{db: db}
}

const transactionColumns = `id, transaction_id, account_id, account_number, transaction_type,
		transaction_result_type, amount, balance_snapshot, transacted_at`

func (r *PostgresTransactionRepository) FindByTransactionID(ctx context.Context, transactionID string) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1`

	transaction := &models.Transaction{}
	err := r.db.QueryRowContext(ctx, query, transactionID).
		Scan(&transaction.ID, &transaction.TransactionID, &transaction.AccountID,
			&transaction.AccountNumber, &transaction.Type, &transaction.Result,
			&transaction.Amount, &transaction.BalanceSnapshot, &transaction.TransactedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New(errors.CodeTransactionNotFound)
		}
		return nil, fmt.Errorf("failed to get transaction by transaction ID: %w", err)
	}
	return transaction, nil
}

func (r *PostgresTransactionRepository) Save(ctx context.Context, transaction *models.Transaction) error {
	query := `INSERT INTO transactions (transaction_id, account_id, account_number, transaction_type,
			transaction_result_type, amount, balance_snapshot, transacted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		transaction.TransactionID,
		transaction.AccountID,
		transaction.AccountNumber,
		transaction.Type,
		transaction.Result,
		transaction.Amount,
		transaction.BalanceSnapshot,
		transaction.TransactedAt,
	).Scan(&transaction.ID)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}
