package facades

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/logger"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/models"
)

const maxResponseBytes = 1 << 20

// PaystackConfig configures PaystackFacade.
type PaystackConfig struct {
	BaseURL   string
	SecretKey string
	Currency  string
	Timeout   time.Duration
	RetryMax  int
}

// PaystackError is a non-successful answer of the Paystack API.
type PaystackError struct {
	StatusCode int
	Message    string
}

func (e *PaystackError) Error() string {
	return fmt.Sprintf("paystack api error: status %d: %s", e.StatusCode, e.Message)
}

// PaystackFacade implements the payment provider on top of the Paystack REST API.
// Requests are retried on connection errors and 5xx answers; initialize and
// transfer calls carry our reference, which Paystack refuses to reuse.
type PaystackFacade struct {
	client    *retryablehttp.Client
	baseURL   string
	secretKey string
	currency  string
}

// NewPaystackFacade creates a PaystackFacade.
func NewPaystackFacade(cfg PaystackConfig) *PaystackFacade {
	client := retryablehttp.NewClient()
	client.RetryMax = cfg.RetryMax
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.Logger = retryLogger{}
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	if cfg.Timeout > 0 {
		client.HTTPClient.Timeout = cfg.Timeout
	}

	currency := cfg.Currency
	if currency == "" {
		currency = "NGN"
	}

	return &PaystackFacade{
		client:    client,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		secretKey: cfg.SecretKey,
		currency:  currency,
	}
}

type initializeRequest struct {
	Email     string            `json:"email"`
	Amount    int64             `json:"amount"`
	Reference string            `json:"reference"`
	Currency  string            `json:"currency"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// InitializePayment starts a checkout for amount minor units.
func (f *PaystackFacade) InitializePayment(ctx context.Context, amount int64, email, reference string, metadata map[string]string) (*models.PaymentInit, error) {
	req := initializeRequest{
		Email:     email,
		Amount:    amount,
		Reference: reference,
		Currency:  f.currency,
		Metadata:  metadata,
	}

	var out models.PaymentInit
	if err := f.do(ctx, http.MethodPost, "/transaction/initialize", req, &out); err != nil {
		logger.Log.Errorw("failed to initialize paystack transaction", "reference", reference, "error", err)
		return nil, err
	}
	if out.Reference == "" {
		out.Reference = reference
	}
	return &out, nil
}

type verifyResponse struct {
	Reference string         `json:"reference"`
	Amount    int64          `json:"amount"`
	Status    string         `json:"status"`
	PaidAt    *time.Time     `json:"paid_at"`
	Metadata  map[string]any `json:"metadata"`
}

// VerifyPayment asks Paystack for the state of the payment behind reference.
func (f *PaystackFacade) VerifyPayment(ctx context.Context, reference string) (*models.PaymentVerification, error) {
	var out verifyResponse
	if err := f.do(ctx, http.MethodGet, "/transaction/verify/"+url.PathEscape(reference), nil, &out); err != nil {
		logger.Log.Errorw("failed to verify paystack transaction", "reference", reference, "error", err)
		return nil, err
	}

	v := &models.PaymentVerification{
		Reference: out.Reference,
		Amount:    out.Amount,
		Status:    out.Status,
		Metadata:  make(map[string]string, len(out.Metadata)),
	}
	if out.PaidAt != nil {
		v.PaidAt = *out.PaidAt
	}
	for k, val := range out.Metadata {
		if s, ok := val.(string); ok {
			v.Metadata[k] = s
		} else {
			v.Metadata[k] = fmt.Sprint(val)
		}
	}
	return v, nil
}

type recipientRequest struct {
	Type          string `json:"type"`
	Name          string `json:"name"`
	AccountNumber string `json:"account_number"`
	BankCode      string `json:"bank_code"`
	Currency      string `json:"currency"`
}

// CreateRecipient registers a bank account as a transfer recipient.
func (f *PaystackFacade) CreateRecipient(ctx context.Context, account models.BankAccount) (string, error) {
	req := recipientRequest{
		Type:          "nuban",
		Name:          account.AccountName,
		AccountNumber: account.AccountNumber,
		BankCode:      account.BankCode,
		Currency:      f.currency,
	}

	var out struct {
		RecipientCode string `json:"recipient_code"`
	}
	if err := f.do(ctx, http.MethodPost, "/transferrecipient", req, &out); err != nil {
		logger.Log.Errorw("failed to create paystack recipient", "bank_account_id", account.ID, "error", err)
		return "", err
	}
	return out.RecipientCode, nil
}

type transferRequest struct {
	Source    string `json:"source"`
	Amount    int64  `json:"amount"`
	Recipient string `json:"recipient"`
	Reference string `json:"reference"`
	Reason    string `json:"reason"`
}

// InitiateTransfer pays amount minor units from the balance to recipientCode.
func (f *PaystackFacade) InitiateTransfer(ctx context.Context, amount int64, recipientCode, reference string) (*models.Transfer, error) {
	req := transferRequest{
		Source:    "balance",
		Amount:    amount,
		Recipient: recipientCode,
		Reference: reference,
		Reason:    "Wallet withdrawal",
	}

	var out models.Transfer
	if err := f.do(ctx, http.MethodPost, "/transfer", req, &out); err != nil {
		logger.Log.Errorw("failed to initiate paystack transfer", "reference", reference, "error", err)
		return nil, err
	}
	return &out, nil
}

// VerifySignature checks the X-Paystack-Signature header: the hex HMAC-SHA512
// of the raw body keyed with the secret key. Nothing verifies without a key.
func (f *PaystackFacade) VerifySignature(payload []byte, signature string) bool {
	if f.secretKey == "" {
		return false
	}
	given, err := hex.DecodeString(strings.TrimSpace(signature))
	if err != nil || len(given) == 0 {
		return false
	}
	mac := hmac.New(sha512.New, []byte(f.secretKey))
	mac.Write(payload)
	return hmac.Equal(mac.Sum(nil), given)
}

func (f *PaystackFacade) do(ctx context.Context, method, path string, body any, out any) error {
	var payload any
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = raw
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, f.baseURL+path, payload)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+f.secretKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return err
	}

	var envelope struct {
		Status  bool            `json:"status"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return &PaystackError{StatusCode: resp.StatusCode, Message: "malformed response"}
	}
	if resp.StatusCode >= http.StatusMultipleChoices || !envelope.Status {
		return &PaystackError{StatusCode: resp.StatusCode, Message: envelope.Message}
	}

	if out == nil || len(envelope.Data) == 0 {
		return nil
	}
	return json.Unmarshal(envelope.Data, out)
}

// retryLogger routes retryablehttp logs to the global logger.
type retryLogger struct{}

func (retryLogger) Error(msg string, keysAndValues ...interface{}) {
	logger.Log.Errorw(msg, keysAndValues...)
}

func (retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	logger.Log.Warnw(msg, keysAndValues...)
}

func (retryLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Log.Debugw(msg, keysAndValues...)
}

func (retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	logger.Log.Debugw(msg, keysAndValues...)
}
