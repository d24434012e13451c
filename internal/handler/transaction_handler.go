package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/riteshkumar/account-ledger/internal/errors"
	"github.com/riteshkumar/account-ledger/internal/lock"
	"github.com/riteshkumar/account-ledger/internal/models"
	"github.com/riteshkumar/account-ledger/internal/service"
	u "github.com/riteshkumar/account-ledger/internal/utils"
)

// TransactionHandler exposes the balance-mutation workflow. Use and cancel
// run through the lock decorator keyed by the request's account number, so
// at most one mutation per account is in flight at a time. Query is
// read-only and takes no lock.
type TransactionHandler struct {
	transactionService service.TransactionService
	logger             *slog.Logger

	useBalance    lock.Operation[*models.UseBalanceRequest, *models.TransactionDto]
	cancelBalance lock.Operation[*models.CancelBalanceRequest, *models.TransactionDto]
}

func NewTransactionHandler(transactionService service.TransactionService, locker lock.Locker, logger *slog.Logger) *TransactionHandler {
	h := &TransactionHandler{
		transactionService: transactionService,
		logger:             logger,
	}

	h.useBalance = lock.WithLock(locker,
		func(req *models.UseBalanceRequest) string { return req.AccountNumber },
		func(ctx context.Context, req *models.UseBalanceRequest) (*models.TransactionDto, error) {
			return transactionService.UseBalance(ctx, req.UserID, req.AccountNumber, req.Amount)
		})
	h.cancelBalance = lock.WithLock(locker,
		func(req *models.CancelBalanceRequest) string { return req.AccountNumber },
		func(ctx context.Context, req *models.CancelBalanceRequest) (*models.TransactionDto, error) {
			return transactionService.CancelBalance(ctx, req.TransactionID, req.AccountNumber, req.Amount)
		})

	return h
}

func (h *TransactionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/transaction/use", h.UseBalance).Methods(http.MethodPost)
	router.HandleFunc("/transaction/cancel", h.CancelBalance).Methods(http.MethodPost)
	router.HandleFunc("/transaction/{transaction_id}", h.QueryTransaction).Methods(http.MethodGet)
}

func (h *TransactionHandler) UseBalance(w http.ResponseWriter, r *http.Request) {
	var req models.UseBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid use balance request", "error", err.Error())
		u.WriteError(w, http.StatusBadRequest, errors.CodeInternalError, "invalid request payload")
		return
	}
	if req.UserID <= 0 {
		u.WriteError(w, http.StatusBadRequest, errors.CodeInternalError, "user_id must be positive")
		return
	}
	if msg, ok := validateMutation(req.AccountNumber, req.Amount); !ok {
		u.WriteError(w, http.StatusBadRequest, errors.CodeInternalError, msg)
		return
	}

	transaction, err := h.useBalance(r.Context(), &req)
	if err != nil {
		// Record the failed attempt before reporting it, so the ledger
		// holds one row per attempt regardless of outcome.
		if saveErr := h.transactionService.SaveFailedUseTransaction(r.Context(), req.AccountNumber, req.Amount); saveErr != nil {
			h.logger.Warn("failed to record failed use transaction",
				"account_number", req.AccountNumber,
				"error", saveErr.Error(),
			)
		}
		handleServiceError(w, h.logger, err, "use balance")
		return
	}

	u.WriteJSON(w, http.StatusOK, models.TransactionResponse{
		AccountNumber: transaction.AccountNumber,
		TransactionID: transaction.TransactionID,
		Result:        transaction.Result,
		Amount:        transaction.Amount,
		TransactedAt:  transaction.TransactedAt,
	})
}

func (h *TransactionHandler) CancelBalance(w http.ResponseWriter, r *http.Request) {
	var req models.CancelBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid cancel balance request", "error", err.Error())
		u.WriteError(w, http.StatusBadRequest, errors.CodeInternalError, "invalid request payload")
		return
	}
	if req.TransactionID == "" {
		u.WriteError(w, http.StatusBadRequest, errors.CodeInternalError, "transaction_id is required")
		return
	}
	if msg, ok := validateMutation(req.AccountNumber, req.Amount); !ok {
		u.WriteError(w, http.StatusBadRequest, errors.CodeInternalError, msg)
		return
	}

	transaction, err := h.cancelBalance(r.Context(), &req)
	if err != nil {
		if saveErr := h.transactionService.SaveFailedCancelTransaction(r.Context(), req.AccountNumber, req.Amount); saveErr != nil {
			h.logger.Warn("failed to record failed cancel transaction",
				"account_number", req.AccountNumber,
				"error", saveErr.Error(),
			)
		}
		handleServiceError(w, h.logger, err, "cancel balance")
		return
	}

	u.WriteJSON(w, http.StatusOK, models.TransactionResponse{
		AccountNumber: transaction.AccountNumber,
		TransactionID: transaction.TransactionID,
		Result:        transaction.Result,
		Amount:        transaction.Amount,
		TransactedAt:  transaction.TransactedAt,
	})
}

func validateMutation(accountNumber string, amount int64) (string, bool) {
	if len(accountNumber) != 10 {
		return "account_number must be 10 digits", false
	}
	if amount <= 0 {
		return "amount must be positive", false
	}
	return "", true
}

func (h *TransactionHandler) QueryTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID := mux.Vars(r)["transaction_id"]
	if transactionID == "" {
		u.WriteError(w, http.StatusBadRequest, errors.CodeInternalError, "transaction_id is required")
		return
	}

	transaction, err := h.transactionService.QueryTransaction(r.Context(), transactionID)
	if err != nil {
		handleServiceError(w, h.logger, err, "query transaction")
		return
	}

	u.WriteJSON(w, http.StatusOK, models.TransactionResponse{
		AccountNumber:   transaction.AccountNumber,
		TransactionID:   transaction.TransactionID,
		TransactionType: transaction.Type,
		Result:          transaction.Result,
		Amount:          transaction.Amount,
		TransactedAt:    transaction.TransactedAt,
	})
}
