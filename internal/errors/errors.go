package errors

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a stable, caller-consumable failure category.
type ErrorCode string

const (
	CodeUserNotFound               ErrorCode = "USER_NOT_FOUND"
	CodeAccountNotFound            ErrorCode = "ACCOUNT_NOT_FOUND"
	CodeTransactionNotFound        ErrorCode = "TRANSACTION_NOT_FOUND"
	CodeMaxAccountPerUser          ErrorCode = "MAX_ACCOUNT_PER_USER"
	CodeUserAccountUnMatch         ErrorCode = "USER_ACCOUNT_UN_MATCH"
	CodeAccountAlreadyUnregistered ErrorCode = "ACCOUNT_ALREADY_UNREGISTERED"
	CodeBalanceNotEmpty            ErrorCode = "BALANCE_NOT_EMPTY"
	CodeAmountExceedBalance        ErrorCode = "AMOUNT_EXCEED_BALANCE"
	CodeTransactionAccountUnMatch  ErrorCode = "TRANSACTION_ACCOUNT_UN_MATCH"
	CodeCancelMustFully            ErrorCode = "CANCEL_MUST_FULLY"
	CodeTooOldOrderToCancel        ErrorCode = "TOO_OLD_ORDER_TO_CANCEL"
	CodeLockAcquisitionTimeout     ErrorCode = "LOCK_ACQUISITION_TIMEOUT"
	CodeInternalError              ErrorCode = "INTERNAL_ERROR"
)

var defaultMessages = map[ErrorCode]string{
	CodeUserNotFound:               "user not found",
	CodeAccountNotFound:            "account not found",
	CodeTransactionNotFound:        "transaction not found",
	CodeMaxAccountPerUser:          "user already owns the maximum number of accounts",
	CodeUserAccountUnMatch:         "account is not owned by the user",
	CodeAccountAlreadyUnregistered: "account is already unregistered",
	CodeBalanceNotEmpty:            "account balance is not empty",
	CodeAmountExceedBalance:        "amount exceeds account balance",
	CodeTransactionAccountUnMatch:  "transaction does not belong to the account",
	CodeCancelMustFully:            "cancellation amount must match the transaction amount",
	CodeTooOldOrderToCancel:        "transaction is too old to cancel",
	CodeLockAcquisitionTimeout:     "could not acquire account lock within the deadline",
	CodeInternalError:              "internal server error",
}

// AccountError is the domain error type for the account ledger application.
// It carries one ErrorCode from the taxonomy above plus a human-readable message.
type AccountError struct {
	Code    ErrorCode
	Message string
}

func (e *AccountError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// New creates an AccountError with the default message for the code.
func New(code ErrorCode) *AccountError {
	return &AccountError{
		Code:    code,
		Message: defaultMessages[code],
	}
}

// NewWithMessage creates an AccountError with a custom message.
func NewWithMessage(code ErrorCode, message string) *AccountError {
	return &AccountError{
		Code:    code,
		Message: message,
	}
}

// CodeOf extracts the error code from err, falling back to CodeInternalError
// for anything outside the domain taxonomy.
func CodeOf(err error) ErrorCode {
	var accountErr *AccountError
	if errors.As(err, &accountErr) {
		return accountErr.Code
	}
	return CodeInternalError
}

// MessageOf returns the human-readable message for err without leaking
// internal state for non-domain errors.
func MessageOf(err error) string {
	var accountErr *AccountError
	if errors.As(err, &accountErr) {
		return accountErr.Message
	}
	return defaultMessages[CodeInternalError]
}

// Is reports whether err carries the given error code.
func Is(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

func IsNotFound(err error) bool {
	switch CodeOf(err) {
	case CodeUserNotFound, CodeAccountNotFound, CodeTransactionNotFound:
		return true
	}
	return false
}
