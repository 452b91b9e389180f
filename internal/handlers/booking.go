package handlers

//go:generate mockgen -source=booking.go -destination=booking_mock.go -package=handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/logger"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/models"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/services"
)

// EscrowSettler moves booking money in and out of escrow.
type EscrowSettler interface {
	HoldFunds(ctx context.Context, req services.HoldRequest) (*models.SettlementResult, error)
	ReleaseFunds(ctx context.Context, bookingID, triggeredBy string) (*models.SettlementResult, error)
	RefundFunds(ctx context.Context, bookingID, reason string) (*models.SettlementResult, error)
}

// CommissionProcessor records partner commissions.
type CommissionProcessor interface {
	ProcessCommission(ctx context.Context, bookingID, clientID string, jobAmount int64) (*models.CommissionResult, error)
}

// HoldFundsRequest represents the JSON body for holding booking funds
// swagger:model HoldFundsRequest
type HoldFundsRequest struct {
	// required: true
	ClientID string `json:"client_id"`

	// required: true
	WorkerID string `json:"worker_id"`

	// Amount in minor units
	// required: true
	// default: 10000
	Amount int64 `json:"amount"`

	// Platform share of amount; computed from the configured rate when omitted
	PlatformFee *int64 `json:"platform_fee,omitempty"`

	// Payment reference that funded the hold
	ProviderReference string `json:"provider_reference"`
}

// ReleaseFundsRequest represents the optional JSON body of a release
// swagger:model ReleaseFundsRequest
type ReleaseFundsRequest struct {
	// Who triggered the release; defaults to the caller
	TriggeredBy string `json:"triggered_by"`
}

// RefundFundsRequest represents the JSON body of a refund
// swagger:model RefundFundsRequest
type RefundFundsRequest struct {
	// required: true
	Reason string `json:"reason"`
}

// CommissionRequest represents the JSON body for processing a commission
// swagger:model CommissionRequest
type CommissionRequest struct {
	// required: true
	ClientID string `json:"client_id"`

	// Completed job amount in minor units
	// required: true
	JobAmount int64 `json:"job_amount"`
}

// SettlementResponse represents the outcome of a settlement operation
// swagger:model SettlementResponse
type SettlementResponse struct {
	Message string                   `json:"message"`
	Result  *models.SettlementResult `json:"result"`
}

// CommissionResponse represents a processed commission
// swagger:model CommissionResponse
type CommissionResponse struct {
	Message string                   `json:"message"`
	Result  *models.CommissionResult `json:"result"`
}

func settlementMessage(done string, res *models.SettlementResult) string {
	if res.AlreadyProcessed {
		return "Already processed"
	}
	return done
}

// NewHoldFundsHandler returns an HTTP handler that moves client funds into escrow.
// @Summary Hold booking funds
// @Description Debits the client's available balance into escrow for the booking. Repeating the call is safe.
// @Tags bookings
// @Accept json
// @Produce json
// @Param id path string true "Booking id"
// @Param request body handlers.HoldFundsRequest true "Hold Request"
// @Success 200 {object} handlers.SettlementResponse "Funds held"
// @Failure 400 {object} handlers.ErrorResponse "Insufficient funds or invalid amount"
// @Failure 409 {object} handlers.ErrorResponse "Booking already settled"
// @Router /bookings/{id}/hold [post]
// @Security BearerAuth
func NewHoldFundsHandler(svc EscrowSettler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookingID := chi.URLParam(r, "id")

		var req HoldFundsRequest
		if !decode(w, r, &req) {
			return
		}

		res, err := svc.HoldFunds(r.Context(), services.HoldRequest{
			ClientID:          req.ClientID,
			WorkerID:          req.WorkerID,
			BookingID:         bookingID,
			Amount:            req.Amount,
			PlatformFee:       req.PlatformFee,
			ProviderReference: req.ProviderReference,
		})
		if err != nil {
			logger.Log.Errorw("failed to hold funds", "booking_id", bookingID, "error", err)
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, SettlementResponse{Message: settlementMessage("Funds held", res), Result: res})
	}
}

// NewReleaseFundsHandler returns an HTTP handler that pays out a booking's escrow.
// @Summary Release booking funds
// @Description Pays the worker and the platform out of escrow and completes the booking
// @Tags bookings
// @Accept json
// @Produce json
// @Param id path string true "Booking id"
// @Param request body handlers.ReleaseFundsRequest false "Release Request"
// @Success 200 {object} handlers.SettlementResponse "Funds released"
// @Failure 404 {object} handlers.ErrorResponse "Not found"
// @Failure 409 {object} handlers.ErrorResponse "Escrow not held"
// @Failure 500 {object} handlers.ErrorResponse "Settlement failed"
// @Router /bookings/{id}/release [post]
// @Security BearerAuth
func NewReleaseFundsHandler(svc EscrowSettler, tokener Tokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := authenticate(w, r, tokener)
		if !ok {
			return
		}
		bookingID := chi.URLParam(r, "id")

		var req ReleaseFundsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			logger.Log.Errorw("failed to decode release request", "error", err)
			writeErrorMessage(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.TriggeredBy == "" {
			req.TriggeredBy = claims.UserID
		}

		res, err := svc.ReleaseFunds(r.Context(), bookingID, req.TriggeredBy)
		if err != nil {
			logger.Log.Errorw("failed to release funds", "booking_id", bookingID, "error", err)
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, SettlementResponse{Message: settlementMessage("Funds released", res), Result: res})
	}
}

// NewRefundFundsHandler returns an HTTP handler that returns a booking's escrow to the client.
// @Summary Refund booking funds
// @Description Credits the held amount back to the client's available balance
// @Tags bookings
// @Accept json
// @Produce json
// @Param id path string true "Booking id"
// @Param request body handlers.RefundFundsRequest true "Refund Request"
// @Success 200 {object} handlers.SettlementResponse "Funds refunded"
// @Failure 404 {object} handlers.ErrorResponse "Not found"
// @Failure 409 {object} handlers.ErrorResponse "Escrow not held"
// @Router /bookings/{id}/refund [post]
// @Security BearerAuth
func NewRefundFundsHandler(svc EscrowSettler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookingID := chi.URLParam(r, "id")

		var req RefundFundsRequest
		if !decode(w, r, &req) {
			return
		}

		res, err := svc.RefundFunds(r.Context(), bookingID, req.Reason)
		if err != nil {
			logger.Log.Errorw("failed to refund funds", "booking_id", bookingID, "error", err)
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, SettlementResponse{Message: settlementMessage("Funds refunded", res), Result: res})
	}
}

// NewCommissionHandler returns an HTTP handler that records a partner commission.
// @Summary Process commission
// @Description Records the commission a referring partner earns on a completed booking
// @Tags bookings
// @Accept json
// @Produce json
// @Param id path string true "Booking id"
// @Param request body handlers.CommissionRequest true "Commission Request"
// @Success 200 {object} handlers.CommissionResponse "Commission processed"
// @Failure 400 {object} handlers.ErrorResponse "Invalid request"
// @Router /bookings/{id}/commission [post]
// @Security BearerAuth
func NewCommissionHandler(svc CommissionProcessor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookingID := chi.URLParam(r, "id")

		var req CommissionRequest
		if !decode(w, r, &req) {
			return
		}

		res, err := svc.ProcessCommission(r.Context(), bookingID, req.ClientID, req.JobAmount)
		if err != nil {
			logger.Log.Errorw("failed to process commission", "booking_id", bookingID, "error", err)
			writeError(w, err)
			return
		}

		msg := "Commission recorded"
		switch {
		case res.AlreadyProcessed:
			msg = "Already processed"
		case res.Skipped != "":
			msg = "No commission earned"
		}
		writeJSON(w, http.StatusOK, CommissionResponse{Message: msg, Result: res})
	}
}

// RegisterBookingHandlers registers the booking settlement routes
func RegisterBookingHandlers(r chi.Router, hold, release, refund, commission http.HandlerFunc) {
	r.Post("/bookings/{id}/hold", hold)
	r.Post("/bookings/{id}/release", release)
	r.Post("/bookings/{id}/refund", refund)
	r.Post("/bookings/{id}/commission", commission)
}
