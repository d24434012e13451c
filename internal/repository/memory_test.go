package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riteshkumar/account-ledger/internal/errors"
	"github.com/riteshkumar/account-ledger/internal/models"
)

func TestMemoryAccountRepository_FindHighestAccountNumber(t *testing.T) {
	repo := NewMemoryAccountRepository()
	ctx := context.Background()

	highest, err := repo.FindHighestAccountNumber(ctx)
	require.NoError(t, err)
	assert.Nil(t, highest, "empty store has no highest account number")

	for _, number := range []string{"1000000005", "1000000012", "1000000001"} {
		account := models.Account{
			UserID:        1,
			AccountNumber: number,
			Status:        models.AccountStatusInUse,
			RegisteredAt:  time.Now(),
		}
		require.NoError(t, repo.Save(ctx, &account))
	}

	highest, err = repo.FindHighestAccountNumber(ctx)
	require.NoError(t, err)
	require.NotNil(t, highest)
	assert.Equal(t, "1000000012", highest.AccountNumber)
}

func TestMemoryAccountRepository_SaveAssignsIDAndUpdates(t *testing.T) {
	repo := NewMemoryAccountRepository()
	ctx := context.Background()

	account := models.Account{
		UserID:        1,
		AccountNumber: "1000000000",
		Balance:       1000,
		Status:        models.AccountStatusInUse,
		RegisteredAt:  time.Now(),
	}
	require.NoError(t, repo.Save(ctx, &account))
	require.NotZero(t, account.ID)

	account.Balance = 500
	require.NoError(t, repo.Save(ctx, &account))

	stored, err := repo.FindByAccountNumber(ctx, "1000000000")
	require.NoError(t, err)
	assert.Equal(t, int64(500), stored.Balance)
}

func TestMemoryAccountRepository_FindByUserIDPreservesInsertionOrder(t *testing.T) {
	repo := NewMemoryAccountRepository()
	ctx := context.Background()

	numbers := []string{"1000000002", "1000000000", "1000000001"}
	for _, number := range numbers {
		account := models.Account{
			UserID:        7,
			AccountNumber: number,
			Status:        models.AccountStatusInUse,
			RegisteredAt:  time.Now(),
		}
		require.NoError(t, repo.Save(ctx, &account))
	}

	accounts, err := repo.FindByUserID(ctx, 7)
	require.NoError(t, err)
	require.Len(t, accounts, 3)
	for i, account := range accounts {
		assert.Equal(t, numbers[i], account.AccountNumber)
	}
}

func TestMemoryTransactionRepository_AppendOnly(t *testing.T) {
	repo := NewMemoryTransactionRepository()
	ctx := context.Background()

	transaction := models.Transaction{
		TransactionID: "tx1",
		AccountID:     1,
		AccountNumber: "1000000000",
		Type:          models.TransactionTypeUse,
		Result:        models.TransactionResultSuccess,
		Amount:        1000,
		TransactedAt:  time.Now(),
	}
	require.NoError(t, repo.Save(ctx, &transaction))

	stored, err := repo.FindByTransactionID(ctx, "tx1")
	require.NoError(t, err)
	assert.Equal(t, transaction.TransactionID, stored.TransactionID)

	_, err = repo.FindByTransactionID(ctx, "tx2")
	assert.True(t, errors.Is(err, errors.CodeTransactionNotFound))
}

func TestMemoryUserRepository(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	user := repo.Put(models.AccountUser{Name: "kim"})
	require.NotZero(t, user.ID)

	found, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "kim", found.Name)

	_, err = repo.FindByID(ctx, user.ID+1)
	assert.True(t, errors.Is(err, errors.CodeUserNotFound))
}
