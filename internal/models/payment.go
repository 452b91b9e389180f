package models

import (
	"encoding/json"
	"time"
)

// Payment statuses reported by the provider.
const (
	PaymentStatusSuccess = "success"
	PaymentStatusFailed  = "failed"
)

// Webhook event names sent by the provider.
const (
	EventChargeSuccess    = "charge.success"
	EventTransferSuccess  = "transfer.success"
	EventTransferFailed   = "transfer.failed"
	EventTransferReversed = "transfer.reversed"
)

// PaymentInit is the provider answer to a payment initialization.
type PaymentInit struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// PaymentVerification is the provider view of a payment.
type PaymentVerification struct {
	Reference string            `json:"reference"`
	Amount    int64             `json:"amount"`
	Status    string            `json:"status"`
	PaidAt    time.Time         `json:"paid_at"`
	Metadata  map[string]string `json:"metadata"`
}

// Transfer is the provider answer to a transfer initiation.
type Transfer struct {
	TransferCode string `json:"transfer_code"`
	Reference    string `json:"reference"`
	Status       string `json:"status"`
}

// WebhookEvent is the envelope of a provider webhook.
type WebhookEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// WebhookCharge is the data of a charge event.
type WebhookCharge struct {
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"`
	Status    string `json:"status"`
}

// WebhookTransfer is the data of a transfer event.
type WebhookTransfer struct {
	Reference    string `json:"reference"`
	TransferCode string `json:"transfer_code"`
	Reason       string `json:"reason"`
}
