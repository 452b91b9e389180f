package handlers

//go:generate mockgen -source=withdrawal.go -destination=withdrawal_mock.go -package=handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/logger"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/models"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/services"
)

// WithdrawalInitiator defines the interface that the service must implement.
type WithdrawalInitiator interface {
	InitiateWithdrawal(ctx context.Context, req services.WithdrawalRequest) (*models.Withdrawal, error)
}

// WithdrawalReviewer approves or rejects pending withdrawals.
type WithdrawalReviewer interface {
	ApproveWithdrawal(ctx context.Context, id, adminID string) (*models.Withdrawal, error)
	RejectWithdrawal(ctx context.Context, id, reason string) (*models.Withdrawal, error)
}

// WithdrawalReader reads a withdrawal by id.
type WithdrawalReader interface {
	GetWithdrawal(ctx context.Context, id string) (*models.Withdrawal, error)
}

// CreateWithdrawalRequest represents the JSON body for a withdrawal
// swagger:model CreateWithdrawalRequest
type CreateWithdrawalRequest struct {
	// Amount in minor units
	// required: true
	// default: 100000
	Amount int64 `json:"amount"`

	// Saved bank account id
	BankAccountID string `json:"bank_account_id"`

	// required: true
	AccountNumber string `json:"account_number"`

	// required: true
	BankCode string `json:"bank_code"`

	AccountName string `json:"account_name"`

	// Optional idempotency key; repeating it returns the first withdrawal
	Reference string `json:"reference"`
}

// WithdrawalResponse represents a withdrawal
// swagger:model WithdrawalResponse
type WithdrawalResponse struct {
	// default: Withdrawal requested
	Message    string             `json:"message"`
	Withdrawal *models.Withdrawal `json:"withdrawal"`
}

// RejectWithdrawalRequest carries the rejection reason
// swagger:model RejectWithdrawalRequest
type RejectWithdrawalRequest struct {
	// required: true
	Reason string `json:"reason"`
}

// NewWithdrawalHandler returns an HTTP handler for withdrawing funds to a bank account.
// @Summary Withdraw funds
// @Description Reserves the amount and starts a bank transfer. In approval mode the request waits for an admin.
// @Tags withdrawals
// @Accept json
// @Produce json
// @Param request body handlers.CreateWithdrawalRequest true "Withdrawal Request"
// @Success 202 {object} handlers.WithdrawalResponse "Withdrawal requested"
// @Failure 400 {object} handlers.ErrorResponse "Insufficient funds or invalid amount"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 502 {object} handlers.ErrorResponse "Payment provider unavailable"
// @Router /withdrawals [post]
// @Security BearerAuth
func NewWithdrawalHandler(svc WithdrawalInitiator, tokener Tokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := authenticate(w, r, tokener)
		if !ok {
			return
		}

		var req CreateWithdrawalRequest
		if !decode(w, r, &req) {
			return
		}
		if req.Amount <= 0 || req.AccountNumber == "" || req.BankCode == "" {
			logger.Log.Warnw("invalid withdrawal request", "user_id", claims.UserID)
			writeErrorMessage(w, http.StatusBadRequest, "Insufficient funds or invalid amount")
			return
		}

		wd, err := svc.InitiateWithdrawal(r.Context(), services.WithdrawalRequest{
			UserID: claims.UserID,
			Amount: req.Amount,
			Account: models.BankAccount{
				ID:            req.BankAccountID,
				AccountNumber: req.AccountNumber,
				BankCode:      req.BankCode,
				AccountName:   req.AccountName,
			},
			Reference: req.Reference,
		})
		if err != nil {
			logger.Log.Errorw("failed to initiate withdrawal", "user_id", claims.UserID, "error", err)
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusAccepted, WithdrawalResponse{Message: "Withdrawal requested", Withdrawal: wd})
	}
}

// NewGetWithdrawalHandler returns an HTTP handler for reading one of the caller's withdrawals.
// @Summary Get withdrawal
// @Description Returns the status of a withdrawal owned by the caller
// @Tags withdrawals
// @Produce json
// @Param id path string true "Withdrawal id"
// @Success 200 {object} handlers.WithdrawalResponse "Withdrawal"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.ErrorResponse "Not found"
// @Router /withdrawals/{id} [get]
// @Security BearerAuth
func NewGetWithdrawalHandler(svc WithdrawalReader, tokener Tokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := authenticate(w, r, tokener)
		if !ok {
			return
		}
		id := chi.URLParam(r, "id")

		wd, err := svc.GetWithdrawal(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		// other users' withdrawals do not exist for the caller
		if wd.UserID != claims.UserID {
			writeError(w, models.ErrNotFound)
			return
		}

		writeJSON(w, http.StatusOK, WithdrawalResponse{Message: "Withdrawal " + wd.Status, Withdrawal: wd})
	}
}

// NewApproveWithdrawalHandler returns an HTTP handler that approves a pending withdrawal.
// @Summary Approve withdrawal
// @Description Starts the bank transfer of a pending withdrawal
// @Tags admin
// @Produce json
// @Param id path string true "Withdrawal id"
// @Success 200 {object} handlers.WithdrawalResponse "Transfer started"
// @Failure 404 {object} handlers.ErrorResponse "Not found"
// @Failure 409 {object} handlers.ErrorResponse "Withdrawal not pending"
// @Router /admin/withdrawals/{id}/approve [post]
// @Security BearerAuth
func NewApproveWithdrawalHandler(svc WithdrawalReviewer, tokener Tokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := authenticate(w, r, tokener)
		if !ok {
			return
		}
		id := chi.URLParam(r, "id")

		wd, err := svc.ApproveWithdrawal(r.Context(), id, claims.UserID)
		if err != nil {
			logger.Log.Errorw("failed to approve withdrawal", "withdrawal_id", id, "error", err)
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, WithdrawalResponse{Message: "Withdrawal approved", Withdrawal: wd})
	}
}

// NewRejectWithdrawalHandler returns an HTTP handler that rejects a pending withdrawal.
// @Summary Reject withdrawal
// @Description Returns the reserved amount to the wallet
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Withdrawal id"
// @Param request body handlers.RejectWithdrawalRequest true "Reject Request"
// @Success 200 {object} handlers.WithdrawalResponse "Withdrawal rejected"
// @Failure 404 {object} handlers.ErrorResponse "Not found"
// @Failure 409 {object} handlers.ErrorResponse "Withdrawal not pending"
// @Router /admin/withdrawals/{id}/reject [post]
// @Security BearerAuth
func NewRejectWithdrawalHandler(svc WithdrawalReviewer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req RejectWithdrawalRequest
		if !decode(w, r, &req) {
			return
		}
		if req.Reason == "" {
			writeErrorMessage(w, http.StatusBadRequest, "Reason is required")
			return
		}

		wd, err := svc.RejectWithdrawal(r.Context(), id, req.Reason)
		if err != nil {
			logger.Log.Errorw("failed to reject withdrawal", "withdrawal_id", id, "error", err)
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, WithdrawalResponse{Message: "Withdrawal rejected", Withdrawal: wd})
	}
}

// RegisterWithdrawalHandler registers routes for withdrawing funds
func RegisterWithdrawalHandler(r chi.Router, h http.HandlerFunc) {
	r.Post("/withdrawals", h)
}

// RegisterGetWithdrawalHandler registers the withdrawal status route
func RegisterGetWithdrawalHandler(r chi.Router, h http.HandlerFunc) {
	r.Get("/withdrawals/{id}", h)
}

// RegisterApproveWithdrawalHandler registers the approval route
func RegisterApproveWithdrawalHandler(r chi.Router, h http.HandlerFunc) {
	r.Post("/admin/withdrawals/{id}/approve", h)
}

// RegisterRejectWithdrawalHandler registers the rejection route
func RegisterRejectWithdrawalHandler(r chi.Router, h http.HandlerFunc) {
	r.Post("/admin/withdrawals/{id}/reject", h)
}
