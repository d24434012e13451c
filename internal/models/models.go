package models

import "time"

type AccountStatus string

const (
	AccountStatusInUse        AccountStatus = "IN_USE"
	AccountStatusUnregistered AccountStatus = "UNREGISTERED"
)

type TransactionType string

const (
	TransactionTypeUse    TransactionType = "USE"
	TransactionTypeCancel TransactionType = "CANCEL"
)

type TransactionResultType string

const (
	TransactionResultSuccess TransactionResultType = "SUCCESS"
	TransactionResultFail    TransactionResultType = "FAIL"
)

// AccountUser is the account owner identity. Created externally,
// referenced but never mutated by this service.
type AccountUser struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Account is the contended resource. Its balance is mutated only by the
// transaction service under the per-account lock.
type Account struct {
	ID             int64         `json:"id"`
	UserID         int64         `json:"user_id"`
	AccountNumber  string        `json:"account_number"`
	Balance        int64         `json:"balance"`
	Status         AccountStatus `json:"status"`
	RegisteredAt   time.Time     `json:"registered_at"`
	UnregisteredAt *time.Time    `json:"unregistered_at,omitempty"`
}

// Transaction is an immutable audit record. Every attempted balance
// mutation produces exactly one, successful or not.
type Transaction struct {
	ID              int64                 `json:"id"`
	TransactionID   string                `json:"transaction_id"`
	AccountID       int64                 `json:"account_id"`
	AccountNumber   string                `json:"account_number"`
	Type            TransactionType       `json:"transaction_type"`
	Result          TransactionResultType `json:"transaction_result_type"`
	Amount          int64                 `json:"amount"`
	BalanceSnapshot int64                 `json:"balance_snapshot"`
	TransactedAt    time.Time             `json:"transacted_at"`
}

type AccountDto struct {
	UserID         int64      `json:"user_id"`
	AccountNumber  string     `json:"account_number"`
	Balance        int64      `json:"balance"`
	RegisteredAt   time.Time  `json:"registered_at"`
	UnregisteredAt *time.Time `json:"unregistered_at,omitempty"`
}

type TransactionDto struct {
	AccountNumber   string                `json:"account_number"`
	TransactionID   string                `json:"transaction_id"`
	Type            TransactionType       `json:"transaction_type"`
	Result          TransactionResultType `json:"transaction_result_type"`
	Amount          int64                 `json:"amount"`
	BalanceSnapshot int64                 `json:"balance_snapshot"`
	TransactedAt    time.Time             `json:"transacted_at"`
}

type CreateAccountRequest struct {
	UserID         int64 `json:"user_id"`
	InitialBalance int64 `json:"initial_balance"`
}

type DeleteAccountRequest struct {
	UserID        int64  `json:"user_id"`
	AccountNumber string `json:"account_number"`
}

type UseBalanceRequest struct {
	UserID        int64  `json:"user_id"`
	AccountNumber string `json:"account_number"`
	Amount        int64  `json:"amount"`
}

type CancelBalanceRequest struct {
	TransactionID string `json:"transaction_id"`
	AccountNumber string `json:"account_number"`
	Amount        int64  `json:"amount"`
}

type CreateAccountResponse struct {
	UserID        int64     `json:"user_id"`
	AccountNumber string    `json:"account_number"`
	RegisteredAt  time.Time `json:"registered_at"`
}

type DeleteAccountResponse struct {
	UserID         int64      `json:"user_id"`
	AccountNumber  string     `json:"account_number"`
	UnregisteredAt *time.Time `json:"unregistered_at"`
}

type AccountInfoResponse struct {
	AccountNumber string `json:"account_number"`
	Balance       int64  `json:"balance"`
}

type TransactionResponse struct {
	AccountNumber   string                `json:"account_number"`
	TransactionID   string                `json:"transaction_id"`
	TransactionType TransactionType       `json:"transaction_type,omitempty"`
	Result          TransactionResultType `json:"transaction_result_type"`
	Amount          int64                 `json:"amount"`
	TransactedAt    time.Time             `json:"transacted_at"`
}

type ErrorResponse struct {
	ErrorCode    string `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}
