package handlers

//go:generate mockgen -source=topup.go -destination=topup_mock.go -package=handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/logger"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/models"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/services"
)

// TopUpInitializer starts provider payments.
type TopUpInitializer interface {
	InitializeTopUp(ctx context.Context, userID, email string, amount int64) (*models.PaymentInit, error)
}

// TopUpConfirmer credits verified payments.
type TopUpConfirmer interface {
	ConfirmTopUp(ctx context.Context, reference string) (*services.TopUpResult, error)
}

// TopUpRequest represents the JSON body for starting a top-up
// swagger:model TopUpRequest
type TopUpRequest struct {
	// Amount in minor units
	// required: true
	// default: 500000
	Amount int64 `json:"amount"`

	// Payer email forwarded to the provider checkout
	// required: true
	// default: ada@example.com
	Email string `json:"email"`
}

// TopUpResponse carries the checkout to complete the payment
// swagger:model TopUpResponse
type TopUpResponse struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// VerifyTopUpRequest represents the JSON body for confirming a top-up
// swagger:model VerifyTopUpRequest
type VerifyTopUpRequest struct {
	// Provider payment reference
	// required: true
	Reference string `json:"reference"`
}

// VerifyTopUpResponse represents a confirmed top-up
// swagger:model VerifyTopUpResponse
type VerifyTopUpResponse struct {
	// default: Wallet topped up successfully
	Message string                `json:"message"`
	Result  *services.TopUpResult `json:"result"`
}

// NewTopUpHandler returns an HTTP handler that starts a wallet top-up.
// @Summary Start top-up
// @Description Initializes a provider payment that credits the caller's wallet once confirmed
// @Tags wallet
// @Accept json
// @Produce json
// @Param request body handlers.TopUpRequest true "Top-up Request"
// @Success 200 {object} handlers.TopUpResponse "Checkout created"
// @Failure 400 {object} handlers.ErrorResponse "Invalid request"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 502 {object} handlers.ErrorResponse "Payment provider unavailable"
// @Router /wallet/topup [post]
// @Security BearerAuth
func NewTopUpHandler(svc TopUpInitializer, tokener Tokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := authenticate(w, r, tokener)
		if !ok {
			return
		}

		var req TopUpRequest
		if !decode(w, r, &req) {
			return
		}
		if req.Amount <= 0 {
			logger.Log.Warnw("invalid top-up amount", "amount", req.Amount)
			writeErrorMessage(w, http.StatusBadRequest, "Invalid amount")
			return
		}

		init, err := svc.InitializeTopUp(r.Context(), claims.UserID, req.Email, req.Amount)
		if err != nil {
			logger.Log.Errorw("failed to initialize top-up", "user_id", claims.UserID, "error", err)
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, TopUpResponse{
			AuthorizationURL: init.AuthorizationURL,
			AccessCode:       init.AccessCode,
			Reference:        init.Reference,
		})
	}
}

// NewVerifyTopUpHandler returns an HTTP handler that confirms a top-up.
// @Summary Confirm top-up
// @Description Verifies the payment with the provider and credits the payer once
// @Tags wallet
// @Accept json
// @Produce json
// @Param request body handlers.VerifyTopUpRequest true "Verify Request"
// @Success 200 {object} handlers.VerifyTopUpResponse "Wallet topped up"
// @Failure 400 {object} handlers.ErrorResponse "Payment not successful"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 502 {object} handlers.ErrorResponse "Payment provider unavailable"
// @Router /wallet/topup/verify [post]
// @Security BearerAuth
func NewVerifyTopUpHandler(svc TopUpConfirmer, tokener Tokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := authenticate(w, r, tokener); !ok {
			return
		}

		var req VerifyTopUpRequest
		if !decode(w, r, &req) {
			return
		}
		if req.Reference == "" {
			writeErrorMessage(w, http.StatusBadRequest, "Invalid reference")
			return
		}

		result, err := svc.ConfirmTopUp(r.Context(), req.Reference)
		if err != nil {
			logger.Log.Errorw("failed to confirm top-up", "reference", req.Reference, "error", err)
			writeError(w, err)
			return
		}

		msg := "Wallet topped up successfully"
		if result.AlreadyProcessed {
			msg = "Top-up already processed"
		}
		writeJSON(w, http.StatusOK, VerifyTopUpResponse{Message: msg, Result: result})
	}
}

// RegisterTopUpHandler registers the top-up route
func RegisterTopUpHandler(r chi.Router, h http.HandlerFunc) {
	r.Post("/wallet/topup", h)
}

// RegisterVerifyTopUpHandler registers the top-up confirmation route
func RegisterVerifyTopUpHandler(r chi.Router, h http.HandlerFunc) {
	r.Post("/wallet/topup/verify", h)
}
