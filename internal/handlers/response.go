package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sbilibin2017/gw-escrow-settlement/internal/logger"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/models"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/services"
)

// ErrorResponse is the body of every failed request
// swagger:model ErrorResponse
type ErrorResponse struct {
	// Error message
	// default: Internal server error
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// writeError maps a service error to a status and a short message. Amounts
// and ledger keys never reach the body.
func writeError(w http.ResponseWriter, err error) {
	status, msg := errorStatus(err)
	writeErrorMessage(w, status, msg)
}

func errorStatus(err error) (int, string) {
	var limitErr *models.LimitError
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return http.StatusBadRequest, "Invalid request"
	case errors.Is(err, services.ErrBelowMinimumWithdrawal):
		return http.StatusBadRequest, "Amount below minimum withdrawal"
	case errors.Is(err, services.ErrInsufficientFunds):
		return http.StatusBadRequest, "Insufficient funds"
	case errors.As(err, &limitErr):
		return http.StatusBadRequest, "Spending limit exceeded"
	case errors.Is(err, services.ErrPaymentNotSuccessful):
		return http.StatusBadRequest, "Payment not successful"
	case errors.Is(err, services.ErrWalletInactive):
		return http.StatusForbidden, "Wallet is inactive"
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, services.ErrInvalidState), errors.Is(err, models.ErrAlreadyExists):
		return http.StatusConflict, "Operation not allowed in current state"
	case errors.Is(err, services.ErrConcurrentUpdate):
		return http.StatusConflict, "Concurrent update, retry later"
	case errors.Is(err, services.ErrExternalProvider):
		return http.StatusBadGateway, "Payment provider unavailable"
	case errors.Is(err, services.ErrEngineHalted):
		return http.StatusServiceUnavailable, "Settlement engine halted"
	case errors.Is(err, services.ErrSettlementInconsistency):
		return http.StatusInternalServerError, "Settlement inconsistency"
	case errors.Is(err, services.ErrSettlementFailed):
		return http.StatusInternalServerError, "Settlement failed"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		logger.Log.Errorw("failed to decode request", "uri", r.RequestURI, "error", err)
		writeErrorMessage(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
