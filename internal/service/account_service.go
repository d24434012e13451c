package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/riteshkumar/account-ledger/internal/errors"
	"github.com/riteshkumar/account-ledger/internal/models"
	"github.com/riteshkumar/account-ledger/internal/repository"
)

const (
	maxAccountsPerUser = 10
	firstAccountNumber = "1000000000"
)

type AccountService interface {
	CreateAccount(ctx context.Context, userID, initialBalance int64) (*models.AccountDto, error)
	DeleteAccount(ctx context.Context, userID int64, accountNumber string) (*models.AccountDto, error)
	GetAccountsByUserID(ctx context.Context, userID int64) ([]*models.AccountDto, error)
}

type AccountServiceImpl struct {
	userRepo    repository.UserRepository
	accountRepo repository.AccountRepository
	logger      *slog.Logger
}

func NewAccountService(userRepo repository.UserRepository, accountRepo repository.AccountRepository, logger *slog.Logger) *AccountServiceImpl {
	return &AccountServiceImpl{
		userRepo:    userRepo,
		accountRepo: accountRepo,
		logger:      logger,
	}
}

func (s *AccountServiceImpl) CreateAccount(ctx context.Context, userID, initialBalance int64) (*models.AccountDto, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		s.logger.Warn("create account failed to resolve user",
			"user_id", userID,
			"error", err.Error(),
		)
		return nil, err
	}

	count, err := s.accountRepo.CountByUserID(ctx, user.ID)
	if err != nil {
		s.logger.Error("failed to count accounts for user",
			"user_id", user.ID,
			"error", err.Error(),
		)
		return nil, err
	}
	if count >= maxAccountsPerUser {
		return nil, errors.New(errors.CodeMaxAccountPerUser)
	}

	accountNumber, err := s.nextAccountNumber(ctx)
	if err != nil {
		return nil, err
	}

	account := &models.Account{
		UserID:        user.ID,
		AccountNumber: accountNumber,
		Balance:       initialBalance,
		Status:        models.AccountStatusInUse,
		RegisteredAt:  time.Now(),
	}
	if err := s.accountRepo.Save(ctx, account); err != nil {
		s.logger.Error("failed to create account",
			"user_id", user.ID,
			"account_number", accountNumber,
			"error", err.Error(),
		)
		return nil, err
	}

	s.logger.Info("account created",
		"user_id", user.ID,
		"account_number", account.AccountNumber,
	)
	return accountDto(account), nil
}

func (s *AccountServiceImpl) DeleteAccount(ctx context.Context, userID int64, accountNumber string) (*models.AccountDto, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	account, err := s.accountRepo.FindByAccountNumber(ctx, accountNumber)
	if err != nil {
		return nil, err
	}

	if err := validateDeleteAccount(user, account); err != nil {
		s.logger.Warn("delete account rejected",
			"user_id", userID,
			"account_number", accountNumber,
			"error", err.Error(),
		)
		return nil, err
	}

	now := time.Now()
	account.Status = models.AccountStatusUnregistered
	account.UnregisteredAt = &now
	if err := s.accountRepo.Save(ctx, account); err != nil {
		s.logger.Error("failed to unregister account",
			"account_number", accountNumber,
			"error", err.Error(),
		)
		return nil, err
	}

	s.logger.Info("account unregistered",
		"user_id", user.ID,
		"account_number", account.AccountNumber,
	)
	return accountDto(account), nil
}

func (s *AccountServiceImpl) GetAccountsByUserID(ctx context.Context, userID int64) ([]*models.AccountDto, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	accounts, err := s.accountRepo.FindByUserID(ctx, user.ID)
	if err != nil {
		s.logger.Error("failed to get accounts for user",
			"user_id", user.ID,
			"error", err.Error(),
		)
		return nil, err
	}

	dtos := make([]*models.AccountDto, 0, len(accounts))
	for _, account := range accounts {
		dtos = append(dtos, accountDto(account))
	}
	return dtos, nil
}

// nextAccountNumber increments the numerically highest existing account
// number, zero-padded to 10 digits. The very first account gets the seed.
func (s *AccountServiceImpl) nextAccountNumber(ctx context.Context) (string, error) {
	highest, err := s.accountRepo.FindHighestAccountNumber(ctx)
	if err != nil {
		s.logger.Error("failed to get highest account number", "error", err.Error())
		return "", err
	}
	if highest == nil {
		return firstAccountNumber, nil
	}

	n, err := strconv.ParseInt(highest.AccountNumber, 10, 64)
	if err != nil {
		return "", fmt.Errorf("malformed account number %q: %w", highest.AccountNumber, err)
	}
	return fmt.Sprintf("%010d", n+1), nil
}

func validateDeleteAccount(user *models.AccountUser, account *models.Account) error {
	if account.UserID != user.ID {
		return errors.New(errors.CodeUserAccountUnMatch)
	}
	if account.Status == models.AccountStatusUnregistered {
		return errors.New(errors.CodeAccountAlreadyUnregistered)
	}
	if account.Balance != 0 {
		return errors.New(errors.CodeBalanceNotEmpty)
	}
	return nil
}

func accountDto(account *models.Account) *models.AccountDto {
	return &models.AccountDto{
		UserID:         account.UserID,
		AccountNumber:  account.AccountNumber,
		Balance:        account.Balance,
		RegisteredAt:   account.RegisteredAt,
		UnregisteredAt: account.UnregisteredAt,
	}
}
