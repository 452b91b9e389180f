package handlers

//go:generate mockgen -source=wallet.go -destination=wallet_mock.go -package=handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/logger"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/models"
)

// WalletReader defines the interface that the service must implement.
type WalletReader interface {
	GetWallet(ctx context.Context, userID string) (*models.Wallet, error)
}

// LedgerReader reads ledger history.
type LedgerReader interface {
	GetLedger(ctx context.Context, userID string, limit int) ([]models.WalletTransaction, error)
}

// WalletResponse represents the caller's wallet
// swagger:model WalletResponse
type WalletResponse struct {
	// Wallet balances, lifetime totals and limits in minor units
	Wallet *models.Wallet `json:"wallet"`
}

// LedgerResponse represents ledger history, newest first
// swagger:model LedgerResponse
type LedgerResponse struct {
	Entries []models.WalletTransaction `json:"entries"`
}

// NewGetWalletHandler returns an HTTP handler for reading the caller's wallet.
// @Summary Get wallet
// @Description Returns balances, escrow and spending limits of the caller. A wallet is created on first access.
// @Tags wallet
// @Produce json
// @Success 200 {object} handlers.WalletResponse "Wallet"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /wallet [get]
// @Security BearerAuth
func NewGetWalletHandler(reader WalletReader, tokener Tokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := authenticate(w, r, tokener)
		if !ok {
			return
		}

		wallet, err := reader.GetWallet(r.Context(), claims.UserID)
		if err != nil {
			logger.Log.Errorw("failed to get wallet", "user_id", claims.UserID, "error", err)
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, WalletResponse{Wallet: wallet})
	}
}

// NewGetLedgerHandler returns an HTTP handler for reading ledger history.
// @Summary Get ledger
// @Description Returns the newest ledger entries of the caller
// @Tags wallet
// @Produce json
// @Param limit query int false "Number of entries, clamped to [1, 100]" default(20)
// @Success 200 {object} handlers.LedgerResponse "Ledger entries"
// @Failure 400 {object} handlers.ErrorResponse "Invalid limit"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Router /wallet/ledger [get]
// @Security BearerAuth
func NewGetLedgerHandler(reader LedgerReader, tokener Tokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := authenticate(w, r, tokener)
		if !ok {
			return
		}

		limit := 20
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				writeErrorMessage(w, http.StatusBadRequest, "Invalid limit")
				return
			}
			limit = n
		}

		entries, err := reader.GetLedger(r.Context(), claims.UserID, limit)
		if err != nil {
			logger.Log.Errorw("failed to get ledger", "user_id", claims.UserID, "error", err)
			writeError(w, err)
			return
		}
		if entries == nil {
			entries = []models.WalletTransaction{}
		}

		writeJSON(w, http.StatusOK, LedgerResponse{Entries: entries})
	}
}

// RegisterGetWalletHandler registers the wallet route
func RegisterGetWalletHandler(r chi.Router, h http.HandlerFunc) {
	r.Get("/wallet", h)
}

// RegisterGetLedgerHandler registers the ledger route
func RegisterGetLedgerHandler(r chi.Router, h http.HandlerFunc) {
	r.Get("/wallet/ledger", h)
}
