package facades

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sbilibin2017/gw-escrow-settlement/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPaystack(t *testing.T, handler http.HandlerFunc) *PaystackFacade {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewPaystackFacade(PaystackConfig{
		BaseURL:   srv.URL,
		SecretKey: "sk_test_secret",
		Timeout:   2 * time.Second,
		RetryMax:  2,
	})
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestPaystack_InitializePayment(t *testing.T) {
	facade := newTestPaystack(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/transaction/initialize", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_secret", r.Header.Get("Authorization"))

		var body initializeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, int64(500000), body.Amount)
		assert.Equal(t, "ada@example.com", body.Email)
		assert.Equal(t, "tp_1", body.Reference)
		assert.Equal(t, "NGN", body.Currency)
		assert.Equal(t, "u1", body.Metadata["user_id"])

		writeJSON(w, http.StatusOK, `{"status":true,"message":"Authorization URL created",
			"data":{"authorization_url":"https://checkout.paystack.com/abc","access_code":"abc","reference":"tp_1"}}`)
	})

	init, err := facade.InitializePayment(context.Background(), 500000, "ada@example.com", "tp_1", map[string]string{"user_id": "u1"})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.paystack.com/abc", init.AuthorizationURL)
	assert.Equal(t, "tp_1", init.Reference)
}

func TestPaystack_VerifyPayment(t *testing.T) {
	facade := newTestPaystack(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/transaction/verify/tp_1", r.URL.Path)

		writeJSON(w, http.StatusOK, `{"status":true,"message":"Verification successful",
			"data":{"reference":"tp_1","amount":500000,"status":"success","paid_at":"2025-03-10T12:00:00.000Z",
			"metadata":{"user_id":"u1","attempt":2}}}`)
	})

	v, err := facade.VerifyPayment(context.Background(), "tp_1")
	require.NoError(t, err)
	assert.Equal(t, int64(500000), v.Amount)
	assert.Equal(t, models.PaymentStatusSuccess, v.Status)
	assert.Equal(t, "u1", v.Metadata["user_id"])
	assert.Equal(t, "2", v.Metadata["attempt"])
	assert.True(t, v.PaidAt.Equal(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)))
}

func TestPaystack_CreateRecipientAndTransfer(t *testing.T) {
	facade := newTestPaystack(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/transferrecipient":
			var body recipientRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "nuban", body.Type)
			assert.Equal(t, "0123456789", body.AccountNumber)
			assert.Equal(t, "058", body.BankCode)
			writeJSON(w, http.StatusCreated, `{"status":true,"message":"ok","data":{"recipient_code":"RCP_1"}}`)
		case "/transfer":
			var body transferRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "balance", body.Source)
			assert.Equal(t, "RCP_1", body.Recipient)
			assert.Equal(t, int64(4000), body.Amount)
			writeJSON(w, http.StatusOK, `{"status":true,"message":"Transfer has been queued",
				"data":{"transfer_code":"TRF_1","reference":"wd-1","status":"pending"}}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	ctx := context.Background()
	code, err := facade.CreateRecipient(ctx, models.BankAccount{AccountNumber: "0123456789", BankCode: "058", AccountName: "Ada Obi"})
	require.NoError(t, err)
	assert.Equal(t, "RCP_1", code)

	transfer, err := facade.InitiateTransfer(ctx, 4000, code, "wd-1")
	require.NoError(t, err)
	assert.Equal(t, "TRF_1", transfer.TransferCode)
	assert.Equal(t, "pending", transfer.Status)
}

func TestPaystack_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	facade := newTestPaystack(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			writeJSON(w, http.StatusBadGateway, `{"status":false,"message":"upstream"}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"status":true,"message":"ok","data":{"recipient_code":"RCP_9"}}`)
	})

	code, err := facade.CreateRecipient(context.Background(), models.BankAccount{AccountNumber: "1", BankCode: "2"})
	require.NoError(t, err)
	assert.Equal(t, "RCP_9", code)
	assert.Equal(t, int32(3), calls.Load())
}

func TestPaystack_APIError(t *testing.T) {
	facade := newTestPaystack(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, `{"status":false,"message":"Invalid account number"}`)
	})

	_, err := facade.CreateRecipient(context.Background(), models.BankAccount{AccountNumber: "x", BankCode: "y"})
	var apiErr *PaystackError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Invalid account number", apiErr.Message)
}

func TestPaystack_VerifySignature(t *testing.T) {
	facade := NewPaystackFacade(PaystackConfig{SecretKey: "sk_test_secret"})
	payload := []byte(`{"event":"charge.success","data":{"reference":"tp_1"}}`)

	mac := hmac.New(sha512.New, []byte("sk_test_secret"))
	mac.Write(payload)
	valid := hex.EncodeToString(mac.Sum(nil))

	tests := []struct {
		name      string
		payload   []byte
		signature string
		want      bool
	}{
		{"valid", payload, valid, true},
		{"tampered body", []byte(`{"event":"charge.success","data":{"reference":"tp_2"}}`), valid, false},
		{"not hex", payload, "zz", false},
		{"empty", payload, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, facade.VerifySignature(tt.payload, tt.signature))
		})
	}

	t.Run("no secret key", func(t *testing.T) {
		unkeyed := NewPaystackFacade(PaystackConfig{})
		mac := hmac.New(sha512.New, nil)
		mac.Write(payload)
		assert.False(t, unkeyed.VerifySignature(payload, hex.EncodeToString(mac.Sum(nil))))
	})
}
