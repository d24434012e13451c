package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riteshkumar/account-ledger/internal/errors"
	"github.com/riteshkumar/account-ledger/internal/models"
	"github.com/riteshkumar/account-ledger/internal/repository"
)

func newAccountServiceFixture() (*AccountServiceImpl, *repository.MemoryUserRepository, *repository.MemoryAccountRepository) {
	userRepo := repository.NewMemoryUserRepository()
	accountRepo := repository.NewMemoryAccountRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAccountService(userRepo, accountRepo, logger), userRepo, accountRepo
}

func seedAccount(t *testing.T, accountRepo *repository.MemoryAccountRepository, account models.Account) models.Account {
	t.Helper()
	if account.Status == "" {
		account.Status = models.AccountStatusInUse
	}
	if account.RegisteredAt.IsZero() {
		account.RegisteredAt = time.Now()
	}
	require.NoError(t, accountRepo.Save(context.Background(), &account))
	return account
}

func TestCreateAccount_IncrementsHighestAccountNumber(t *testing.T) {
	svc, userRepo, accountRepo := newAccountServiceFixture()
	user := userRepo.Put(models.AccountUser{Name: "kim"})
	seedAccount(t, accountRepo, models.Account{UserID: user.ID, AccountNumber: "1000000012"})

	dto, err := svc.CreateAccount(context.Background(), user.ID, 10000)

	require.NoError(t, err)
	assert.Equal(t, "1000000013", dto.AccountNumber)
	assert.Equal(t, user.ID, dto.UserID)
	assert.Equal(t, int64(10000), dto.Balance)
	assert.False(t, dto.RegisteredAt.IsZero())
}

func TestCreateAccount_FirstAccountGetsSeedNumber(t *testing.T) {
	svc, userRepo, _ := newAccountServiceFixture()
	user := userRepo.Put(models.AccountUser{Name: "kim"})

	dto, err := svc.CreateAccount(context.Background(), user.ID, 0)

	require.NoError(t, err)
	assert.Equal(t, "1000000000", dto.AccountNumber)
}

func TestCreateAccount_UserNotFound(t *testing.T) {
	svc, _, _ := newAccountServiceFixture()

	_, err := svc.CreateAccount(context.Background(), 1, 1000)

	assert.True(t, errors.Is(err, errors.CodeUserNotFound))
}

func TestCreateAccount_MaxAccountsPerUser(t *testing.T) {
	svc, userRepo, accountRepo := newAccountServiceFixture()
	user := userRepo.Put(models.AccountUser{Name: "kim"})
	for i := 0; i < 10; i++ {
		seedAccount(t, accountRepo, models.Account{
			UserID:        user.ID,
			AccountNumber: fmt.Sprintf("%010d", 1000000000+i),
		})
	}

	_, err := svc.CreateAccount(context.Background(), user.ID, 1000)

	assert.True(t, errors.Is(err, errors.CodeMaxAccountPerUser))
}

func TestDeleteAccount_Success(t *testing.T) {
	svc, userRepo, accountRepo := newAccountServiceFixture()
	user := userRepo.Put(models.AccountUser{Name: "kim"})
	account := seedAccount(t, accountRepo, models.Account{
		UserID:        user.ID,
		AccountNumber: "1000000000",
		Balance:       0,
	})

	dto, err := svc.DeleteAccount(context.Background(), user.ID, account.AccountNumber)

	require.NoError(t, err)
	assert.Equal(t, account.AccountNumber, dto.AccountNumber)
	require.NotNil(t, dto.UnregisteredAt)

	stored, err := accountRepo.FindByAccountNumber(context.Background(), account.AccountNumber)
	require.NoError(t, err)
	assert.Equal(t, models.AccountStatusUnregistered, stored.Status)
	assert.NotNil(t, stored.UnregisteredAt)
}

func TestDeleteAccount_UserNotFound(t *testing.T) {
	svc, _, _ := newAccountServiceFixture()

	_, err := svc.DeleteAccount(context.Background(), 1, "1000000000")

	assert.True(t, errors.Is(err, errors.CodeUserNotFound))
}

func TestDeleteAccount_AccountNotFound(t *testing.T) {
	svc, userRepo, _ := newAccountServiceFixture()
	user := userRepo.Put(models.AccountUser{Name: "kim"})

	_, err := svc.DeleteAccount(context.Background(), user.ID, "1000000000")

	assert.True(t, errors.Is(err, errors.CodeAccountNotFound))
}

func TestDeleteAccount_UserAccountUnMatch(t *testing.T) {
	svc, userRepo, accountRepo := newAccountServiceFixture()
	owner := userRepo.Put(models.AccountUser{Name: "kim"})
	other := userRepo.Put(models.AccountUser{Name: "lee"})
	account := seedAccount(t, accountRepo, models.Account{
		UserID:        owner.ID,
		AccountNumber: "1000000000",
	})

	_, err := svc.DeleteAccount(context.Background(), other.ID, account.AccountNumber)

	assert.True(t, errors.Is(err, errors.CodeUserAccountUnMatch))
}

func TestDeleteAccount_AlreadyUnregistered(t *testing.T) {
	svc, userRepo, accountRepo := newAccountServiceFixture()
	user := userRepo.Put(models.AccountUser{Name: "kim"})
	account := seedAccount(t, accountRepo, models.Account{
		UserID:        user.ID,
		AccountNumber: "1000000000",
		Status:        models.AccountStatusUnregistered,
	})

	_, err := svc.DeleteAccount(context.Background(), user.ID, account.AccountNumber)

	assert.True(t, errors.Is(err, errors.CodeAccountAlreadyUnregistered))
}

func TestDeleteAccount_BalanceNotEmpty(t *testing.T) {
	svc, userRepo, accountRepo := newAccountServiceFixture()
	user := userRepo.Put(models.AccountUser{Name: "kim"})
	account := seedAccount(t, accountRepo, models.Account{
		UserID:        user.ID,
		AccountNumber: "1000000000",
		Balance:       1,
	})

	_, err := svc.DeleteAccount(context.Background(), user.ID, account.AccountNumber)

	assert.True(t, errors.Is(err, errors.CodeBalanceNotEmpty))
}

func TestGetAccountsByUserID(t *testing.T) {
	svc, userRepo, accountRepo := newAccountServiceFixture()
	user := userRepo.Put(models.AccountUser{Name: "kim"})
	numbers := []string{"1000000000", "1000000001", "1000000002"}
	for i, number := range numbers {
		seedAccount(t, accountRepo, models.Account{
			UserID:        user.ID,
			AccountNumber: number,
			Balance:       int64((i + 1) * 1000),
		})
	}

	dtos, err := svc.GetAccountsByUserID(context.Background(), user.ID)

	require.NoError(t, err)
	require.Len(t, dtos, 3)
	for i, dto := range dtos {
		assert.Equal(t, numbers[i], dto.AccountNumber)
		assert.Equal(t, int64((i+1)*1000), dto.Balance)
	}
}

func TestGetAccountsByUserID_UserNotFound(t *testing.T) {
	svc, _, _ := newAccountServiceFixture()

	_, err := svc.GetAccountsByUserID(context.Background(), 1)

	assert.True(t, errors.Is(err, errors.CodeUserNotFound))
}
