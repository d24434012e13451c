package handler

import (
	"log/slog"
	"net/http"

	"github.com/riteshkumar/account-ledger/internal/errors"
	u "github.com/riteshkumar/account-ledger/internal/utils"
)

// handleServiceError maps a domain error to a stable error-code payload and
// HTTP status. Non-domain errors surface as INTERNAL_ERROR without leaking
// internal state.
func handleServiceError(w http.ResponseWriter, logger *slog.Logger, err error, operation string) {
	code := errors.CodeOf(err)

	var status int
	switch code {
	case errors.CodeUserNotFound, errors.CodeAccountNotFound, errors.CodeTransactionNotFound:
		status = http.StatusNotFound
	case errors.CodeLockAcquisitionTimeout:
		status = http.StatusConflict
	case errors.CodeInternalError:
		logger.Error("internal server error during "+operation, "error", err.Error())
		status = http.StatusInternalServerError
	default:
		status = http.StatusBadRequest
	}

	u.WriteError(w, status, code, errors.MessageOf(err))
}
