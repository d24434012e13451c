package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/riteshkumar/account-ledger/internal/errors"
	"github.com/riteshkumar/account-ledger/internal/models"
	"github.com/riteshkumar/account-ledger/internal/service"
	u "github.com/riteshkumar/account-ledger/internal/utils"
)

type AccountHandler struct {
	accountService service.AccountService
	logger         *slog.Logger
}

func NewAccountHandler(accountService service.AccountService, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		logger:         logger,
	}
}

func (h *AccountHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/account", h.CreateAccount).Methods(http.MethodPost)
	router.HandleFunc("/account", h.DeleteAccount).Methods(http.MethodDelete)
	router.HandleFunc("/account", h.GetAccountsByUserID).Methods(http.MethodGet)
}

func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid create account request", "error", err.Error())
		u.WriteError(w, http.StatusBadRequest, errors.CodeInternalError, "invalid request payload")
		return
	}
	if req.UserID <= 0 {
		u.WriteError(w, http.StatusBadRequest, errors.CodeInternalError, "user_id must be positive")
		return
	}
	if req.InitialBalance < 0 {
		u.WriteError(w, http.StatusBadRequest, errors.CodeInternalError, "initial_balance must not be negative")
		return
	}

	account, err := h.accountService.CreateAccount(r.Context(), req.UserID, req.InitialBalance)
	if err != nil {
		handleServiceError(w, h.logger, err, "create account")
		return
	}

	u.WriteJSON(w, http.StatusOK, models.CreateAccountResponse{
		UserID:        account.UserID,
		AccountNumber: account.AccountNumber,
		RegisteredAt:  account.RegisteredAt,
	})
}

func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	var req models.DeleteAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid delete account request", "error", err.Error())
		u.WriteError(w, http.StatusBadRequest, errors.CodeInternalError, "invalid request payload")
		return
	}
	if req.UserID <= 0 || req.AccountNumber == "" {
		u.WriteError(w, http.StatusBadRequest, errors.CodeInternalError, "user_id and account_number are required")
		return
	}

	account, err := h.accountService.DeleteAccount(r.Context(), req.UserID, req.AccountNumber)
	if err != nil {
		handleServiceError(w, h.logger, err, "delete account")
		return
	}

	u.WriteJSON(w, http.StatusOK, models.DeleteAccountResponse{
		UserID:         account.UserID,
		AccountNumber:  account.AccountNumber,
		UnregisteredAt: account.UnregisteredAt,
	})
}

func (h *AccountHandler) GetAccountsByUserID(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		u.WriteError(w, http.StatusBadRequest, errors.CodeInternalError, "user_id must be a positive integer")
		return
	}

	accounts, err := h.accountService.GetAccountsByUserID(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.logger, err, "get accounts")
		return
	}

	response := make([]models.AccountInfoResponse, 0, len(accounts))
	for _, account := range accounts {
		response = append(response, models.AccountInfoResponse{
			AccountNumber: account.AccountNumber,
			Balance:       account.Balance,
		})
	}
	u.WriteJSON(w, http.StatusOK, response)
}
