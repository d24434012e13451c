package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/riteshkumar/account-ledger/internal/errors"
	"github.com/riteshkumar/account-ledger/internal/events"
	"github.com/riteshkumar/account-ledger/internal/models"
	"github.com/riteshkumar/account-ledger/internal/repository"
)

// cancelWindow is how long after the original transaction a cancellation
// is still accepted.
const cancelWindow = 365 * 24 * time.Hour

// TransactionService is the balance-mutation workflow. UseBalance and
// CancelBalance must run inside the per-account lock; the caller wires them
// through lock.WithLock keyed by the request's account number. The
// SaveFailed* methods record the audit trail for attempts that failed
// business validation, and are invoked by the caller as a separate step.
type TransactionService interface {
	UseBalance(ctx context.Context, userID int64, accountNumber string, amount int64) (*models.TransactionDto, error)
	CancelBalance(ctx context.Context, transactionID, accountNumber string, amount int64) (*models.TransactionDto, error)
	SaveFailedUseTransaction(ctx context.Context, accountNumber string, amount int64) error
	SaveFailedCancelTransaction(ctx context.Context, accountNumber string, amount int64) error
	QueryTransaction(ctx context.Context, transactionID string) (*models.TransactionDto, error)
}

type TransactionServiceImpl struct {
	userRepo        repository.UserRepository
	accountRepo     repository.AccountRepository
	transactionRepo repository.TransactionRepository
	publisher       events.Publisher
	logger          *slog.Logger
}

func NewTransactionService(
	userRepo repository.UserRepository,
	accountRepo repository.AccountRepository,
	transactionRepo repository.TransactionRepository,
	publisher events.Publisher,
	logger *slog.Logger,
) *TransactionServiceImpl {
	return &TransactionServiceImpl{
		userRepo:        userRepo,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		publisher:       publisher,
		logger:          logger,
	}
}

func (s *TransactionServiceImpl) UseBalance(ctx context.Context, userID int64, accountNumber string, amount int64) (*models.TransactionDto, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	account, err := s.accountRepo.FindByAccountNumber(ctx, accountNumber)
	if err != nil {
		return nil, err
	}

	if err := validateUseBalance(user, account, amount); err != nil {
		s.logger.Warn("use balance rejected",
			"user_id", userID,
			"account_number", accountNumber,
			"amount", amount,
			"error", err.Error(),
		)
		return nil, err
	}

	account.Balance -= amount
	if err := s.accountRepo.Save(ctx, account); err != nil {
		s.logger.Error("failed to store debited account",
			"account_number", accountNumber,
			"error", err.Error(),
		)
		return nil, err
	}

	transaction, err := s.saveTransaction(ctx, account, models.TransactionTypeUse, models.TransactionResultSuccess, amount)
	if err != nil {
		return nil, err
	}

	s.logger.Info("balance used",
		"account_number", account.AccountNumber,
		"transaction_id", transaction.TransactionID,
		"amount", amount,
		"balance_snapshot", transaction.BalanceSnapshot,
	)
	return transactionDto(transaction), nil
}

func (s *TransactionServiceImpl) SaveFailedUseTransaction(ctx context.Context, accountNumber string, amount int64) error {
	return s.saveFailedTransaction(ctx, accountNumber, models.TransactionTypeUse, amount)
}

func (s *TransactionServiceImpl) CancelBalance(ctx context.Context, transactionID, accountNumber string, amount int64) (*models.TransactionDto, error) {
	original, err := s.transactionRepo.FindByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	account, err := s.accountRepo.FindByAccountNumber(ctx, accountNumber)
	if err != nil {
		return nil, err
	}

	if err := validateCancelBalance(original, account, amount); err != nil {
		s.logger.Warn("cancel balance rejected",
			"transaction_id", transactionID,
			"account_number", accountNumber,
			"amount", amount,
			"error", err.Error(),
		)
		return nil, err
	}

	account.Balance += amount
	if err := s.accountRepo.Save(ctx, account); err != nil {
		s.logger.Error("failed to store credited account",
			"account_number", accountNumber,
			"error", err.Error(),
		)
		return nil, err
	}

	transaction, err := s.saveTransaction(ctx, account, models.TransactionTypeCancel, models.TransactionResultSuccess, amount)
	if err != nil {
		return nil, err
	}

	s.logger.Info("balance use cancelled",
		"account_number", account.AccountNumber,
		"cancelled_transaction_id", transactionID,
		"transaction_id", transaction.TransactionID,
		"amount", amount,
	)
	return transactionDto(transaction), nil
}

func (s *TransactionServiceImpl) SaveFailedCancelTransaction(ctx context.Context, accountNumber string, amount int64) error {
	return s.saveFailedTransaction(ctx, accountNumber, models.TransactionTypeCancel, amount)
}

func (s *TransactionServiceImpl) QueryTransaction(ctx context.Context, transactionID string) (*models.TransactionDto, error) {
	transaction, err := s.transactionRepo.FindByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	return transactionDto(transaction), nil
}

func validateUseBalance(user *models.AccountUser, account *models.Account, amount int64) error {
	if account.UserID != user.ID {
		return errors.New(errors.CodeUserAccountUnMatch)
	}
	if account.Status != models.AccountStatusInUse {
		return errors.New(errors.CodeAccountAlreadyUnregistered)
	}
	if amount > account.Balance {
		return errors.New(errors.CodeAmountExceedBalance)
	}
	return nil
}

func validateCancelBalance(original *models.Transaction, account *models.Account, amount int64) error {
	if original.AccountID != account.ID {
		return errors.New(errors.CodeTransactionAccountUnMatch)
	}
	if original.Amount != amount {
		return errors.New(errors.CodeCancelMustFully)
	}
	if original.TransactedAt.Before(time.Now().Add(-cancelWindow)) {
		return errors.New(errors.CodeTooOldOrderToCancel)
	}
	return nil
}

// saveFailedTransaction records the audit row for a mutation attempt that
// failed business validation. The account resolves without ownership or
// status checks and its balance is left untouched.
func (s *TransactionServiceImpl) saveFailedTransaction(ctx context.Context, accountNumber string, transactionType models.TransactionType, amount int64) error {
	account, err := s.accountRepo.FindByAccountNumber(ctx, accountNumber)
	if err != nil {
		return err
	}

	if _, err := s.saveTransaction(ctx, account, transactionType, models.TransactionResultFail, amount); err != nil {
		return err
	}

	s.logger.Info("failed transaction recorded",
		"account_number", accountNumber,
		"transaction_type", transactionType,
		"amount", amount,
	)
	return nil
}

// saveTransaction appends one ledger record and publishes it. The snapshot
// is the account balance as of the append: post-mutation on success,
// unchanged on failure records.
func (s *TransactionServiceImpl) saveTransaction(ctx context.Context, account *models.Account, transactionType models.TransactionType, result models.TransactionResultType, amount int64) (*models.Transaction, error) {
	transaction := &models.Transaction{
		TransactionID:   newTransactionID(),
		AccountID:       account.ID,
		AccountNumber:   account.AccountNumber,
		Type:            transactionType,
		Result:          result,
		Amount:          amount,
		BalanceSnapshot: account.Balance,
		TransactedAt:    time.Now(),
	}
	if err := s.transactionRepo.Save(ctx, transaction); err != nil {
		s.logger.Error("failed to append transaction record",
			"account_number", account.AccountNumber,
			"transaction_type", transactionType,
			"error", err.Error(),
		)
		return nil, err
	}

	if err := s.publisher.Publish(events.TopicTransactionRecorded, events.TransactionRecorded{
		TransactionID:   transaction.TransactionID,
		AccountNumber:   transaction.AccountNumber,
		TransactionType: transaction.Type,
		Result:          transaction.Result,
		Amount:          transaction.Amount,
		BalanceSnapshot: transaction.BalanceSnapshot,
		OccurredAt:      transaction.TransactedAt,
	}); err != nil {
		// The ledger row is the source of truth; event delivery is best-effort.
		s.logger.Error("failed to publish transaction event",
			"transaction_id", transaction.TransactionID,
			"error", err.Error(),
		)
	}

	return transaction, nil
}

func newTransactionID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

func transactionDto(transaction *models.Transaction) *models.TransactionDto {
	return &models.TransactionDto{
		AccountNumber:   transaction.AccountNumber,
		TransactionID:   transaction.TransactionID,
		Type:            transaction.Type,
		Result:          transaction.Result,
		Amount:          transaction.Amount,
		BalanceSnapshot: transaction.BalanceSnapshot,
		TransactedAt:    transaction.TransactedAt,
	}
}
