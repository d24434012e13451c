package utils

import (
	"encoding/json"
	"net/http"

	"github.com/riteshkumar/account-ledger/internal/errors"
	"github.com/riteshkumar/account-ledger/internal/models"
)

func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func WriteError(w http.ResponseWriter, status int, code errors.ErrorCode, message string) {
	response := models.ErrorResponse{
		ErrorCode:    string(code),
		ErrorMessage: message,
	}
	WriteJSON(w, status, response)
}
