package handlers

//go:generate mockgen -source=webhook.go -destination=webhook_mock.go -package=handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/logger"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/models"
)

const maxWebhookBytes = 1 << 20

// SignatureVerifier authenticates webhook payloads.
type SignatureVerifier interface {
	VerifySignature(payload []byte, signature string) bool
}

// ChargeEventHandler confirms top-ups from charge events.
type ChargeEventHandler interface {
	HandleChargeEvent(ctx context.Context, charge models.WebhookCharge) error
}

// TransferEventHandler reconciles withdrawals from transfer events.
type TransferEventHandler interface {
	HandleTransferEvent(ctx context.Context, event string, data models.WebhookTransfer) error
}

// WebhookResponse acknowledges a webhook
// swagger:model WebhookResponse
type WebhookResponse struct {
	// default: ok
	Status string `json:"status"`
}

// NewWebhookHandler returns an HTTP handler for payment provider webhooks.
// Processing errors answer 500 so the provider retries; every event handler
// is idempotent.
// @Summary Payment provider webhook
// @Description Receives charge and transfer events signed with X-Paystack-Signature
// @Tags webhooks
// @Accept json
// @Produce json
// @Param X-Paystack-Signature header string true "hex HMAC-SHA512 of the body"
// @Success 200 {object} handlers.WebhookResponse "Event accepted"
// @Failure 400 {object} handlers.ErrorResponse "Malformed event"
// @Failure 401 {object} handlers.ErrorResponse "Invalid signature"
// @Router /webhooks/payments [post]
func NewWebhookHandler(
	verifier SignatureVerifier,
	charges ChargeEventHandler,
	transfers TransferEventHandler,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBytes))
		if err != nil {
			logger.Log.Errorw("failed to read webhook body", "error", err)
			writeErrorMessage(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if !verifier.VerifySignature(payload, r.Header.Get("X-Paystack-Signature")) {
			logger.Log.Warnw("webhook signature rejected", "remote_addr", r.RemoteAddr)
			writeErrorMessage(w, http.StatusUnauthorized, "Invalid signature")
			return
		}

		var event models.WebhookEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			logger.Log.Errorw("failed to decode webhook", "error", err)
			writeErrorMessage(w, http.StatusBadRequest, "Malformed event")
			return
		}

		ctx := r.Context()
		switch event.Event {
		case models.EventChargeSuccess:
			var charge models.WebhookCharge
			if err := json.Unmarshal(event.Data, &charge); err != nil {
				writeErrorMessage(w, http.StatusBadRequest, "Malformed event")
				return
			}
			err = charges.HandleChargeEvent(ctx, charge)
		case models.EventTransferSuccess, models.EventTransferFailed, models.EventTransferReversed:
			var transfer models.WebhookTransfer
			if err := json.Unmarshal(event.Data, &transfer); err != nil {
				writeErrorMessage(w, http.StatusBadRequest, "Malformed event")
				return
			}
			err = transfers.HandleTransferEvent(ctx, event.Event, transfer)
		default:
			logger.Log.Debugw("ignoring webhook event", "event", event.Event)
		}

		if err != nil {
			logger.Log.Errorw("failed to process webhook", "event", event.Event, "error", err)
			writeErrorMessage(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(w, http.StatusOK, WebhookResponse{Status: "ok"})
	}
}

// RegisterWebhookHandler registers the provider webhook route
func RegisterWebhookHandler(r chi.Router, h http.HandlerFunc) {
	r.Post("/webhooks/payments", h)
}
