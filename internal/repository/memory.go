package repository

import (
	"context"
	"sync"

	"github.com/riteshkumar/account-ledger/internal/errors"
	"github.com/riteshkumar/account-ledger/internal/models"
)

// In-memory repository implementations. Thread-safe, used by tests and by
// the server when no database is configured.

type MemoryUserRepository struct {
	mu     sync.Mutex
	users  map[int64]models.AccountUser
	nextID int64
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users:  make(map[int64]models.AccountUser),
		nextID: 1,
	}
}

// Put stores a user, assigning an ID when it has none. Users are created
// externally, so this sits outside the UserRepository interface.
func (r *MemoryUserRepository) Put(user models.AccountUser) models.AccountUser {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == 0 {
		user.ID = r.nextID
		r.nextID++
	} else if user.ID >= r.nextID {
		r.nextID = user.ID + 1
	}
	r.users[user.ID] = user
	return user
}

func (r *MemoryUserRepository) FindByID(ctx context.Context, id int64) (*models.AccountUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, errors.New(errors.CodeUserNotFound)
	}
	return &user, nil
}

type MemoryAccountRepository struct {
	mu       sync.Mutex
	accounts []models.Account
	nextID   int64
}

func NewMemoryAccountRepository() *MemoryAccountRepository {
	return &MemoryAccountRepository{nextID: 1}
}

func (r *MemoryAccountRepository) FindByAccountNumber(ctx context.Context, accountNumber string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.accounts {
		if r.accounts[i].AccountNumber == accountNumber {
			account := r.accounts[i]
			return &account, nil
		}
	}
	return nil, errors.New(errors.CodeAccountNotFound)
}

func (r *MemoryAccountRepository) FindByUserID(ctx context.Context, userID int64) ([]*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*models.Account
	for i := range r.accounts {
		if r.accounts[i].UserID == userID {
			account := r.accounts[i]
			result = append(result, &account)
		}
	}
	return result, nil
}

func (r *MemoryAccountRepository) CountByUserID(ctx context.Context, userID int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for i := range r.accounts {
		if r.accounts[i].UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *MemoryAccountRepository) FindHighestAccountNumber(ctx context.Context) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var highest *models.Account
	for i := range r.accounts {
		if highest == nil || r.accounts[i].AccountNumber > highest.AccountNumber {
			highest = &r.accounts[i]
		}
	}
	if highest == nil {
		return nil, nil
	}
	account := *highest
	return &account, nil
}

func (r *MemoryAccountRepository) Save(ctx context.Context, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if account.ID == 0 {
		account.ID = r.nextID
		r.nextID++
		r.accounts = append(r.accounts, *account)
		return nil
	}
	for i := range r.accounts {
		if r.accounts[i].ID == account.ID {
			r.accounts[i] = *account
			return nil
		}
	}
	return errors.New(errors.CodeAccountNotFound)
}

type MemoryTransactionRepository struct {
	mu           sync.Mutex
	transactions []models.Transaction
	nextID       int64
}

func NewMemoryTransactionRepository() *MemoryTransactionRepository {
	return &MemoryTransactionRepository{nextID: 1}
}

func (r *MemoryTransactionRepository) FindByTransactionID(ctx context.Context, transactionID string) (*models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.transactions {
		if r.transactions[i].TransactionID == transactionID {
			transaction := r.transactions[i]
			return &transaction, nil
		}
	}
	return nil, errors.New(errors.CodeTransactionNotFound)
}

func (r *MemoryTransactionRepository) Save(ctx context.Context, transaction *models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	transaction.ID = r.nextID
	r.nextID++
	r.transactions = append(r.transactions, *transaction)
	return nil
}

// All returns a copy of every recorded transaction, in insertion order.
func (r *MemoryTransactionRepository) All() []models.Transaction {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := make([]models.Transaction, len(r.transactions))
	copy(copied, r.transactions)
	return copied
}

var (
	_ UserRepository        = (*MemoryUserRepository)(nil)
	_ AccountRepository     = (*MemoryAccountRepository)(nil)
	_ TransactionRepository = (*MemoryTransactionRepository)(nil)
)
