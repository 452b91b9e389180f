package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/models"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTopUpService(t *testing.T, ctrl *gomock.Controller) (*TopUpService, *MockPaymentProvider, *MockNotifier, *repositories.MemoryStore) {
	t.Helper()
	store := repositories.NewMemoryStore()
	provider := NewMockPaymentProvider(ctrl)
	notifier := NewMockNotifier(ctrl)
	book := NewBookkeeper(store.Wallets, store.Ledger, nil, nil, models.SpendingLimits{})
	return NewTopUpService(book, provider, notifier), provider, notifier, store
}

func TestTopUpService_InitializeTopUp(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, provider, _, _ := newTopUpService(t, ctrl)

	provider.EXPECT().
		InitializePayment(gomock.Any(), int64(5000), "ada@example.com", gomock.Any(), map[string]string{"user_id": "u1"}).
		DoAndReturn(func(_ context.Context, _ int64, _, reference string, _ map[string]string) (*models.PaymentInit, error) {
			assert.True(t, strings.HasPrefix(reference, "tp_"))
			return &models.PaymentInit{AuthorizationURL: "https://checkout.example/abc", Reference: reference}, nil
		})

	init, err := svc.InitializeTopUp(ctx, "u1", "ada@example.com", 5000)
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.example/abc", init.AuthorizationURL)

	tests := []struct {
		name   string
		userID string
		email  string
		amount int64
	}{
		{"no user", "", "ada@example.com", 100},
		{"bad email", "u1", "ada", 100},
		{"zero amount", "u1", "ada@example.com", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.InitializeTopUp(ctx, tt.userID, tt.email, tt.amount)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	provider.EXPECT().InitializePayment(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("timeout"))
	_, err = svc.InitializeTopUp(ctx, "u1", "ada@example.com", 5000)
	assert.ErrorIs(t, err, ErrExternalProvider)
}

func TestTopUpService_ConfirmTopUpCreditsOnce(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, provider, notifier, store := newTopUpService(t, ctrl)

	provider.EXPECT().VerifyPayment(gomock.Any(), "tp_1").Return(&models.PaymentVerification{
		Reference: "tp_1",
		Amount:    5000,
		Status:    models.PaymentStatusSuccess,
		PaidAt:    time.Now(),
		Metadata:  map[string]string{"user_id": "u1"},
	}, nil).Times(2)
	notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Times(1)

	res, err := svc.ConfirmTopUp(ctx, "tp_1")
	require.NoError(t, err)
	assert.False(t, res.AlreadyProcessed)
	assert.Equal(t, int64(5000), res.Amount)

	res, err = svc.ConfirmTopUp(ctx, "tp_1")
	require.NoError(t, err)
	assert.True(t, res.AlreadyProcessed)

	w, err := store.Wallets.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(5000), w.AvailableBalance)
	assert.Equal(t, int64(5000), w.TotalDeposits)

	entry, err := store.Ledger.Get(ctx, models.TopUpEntryID("tp_1"))
	require.NoError(t, err)
	assert.Equal(t, "tp_1", entry.Reference)
}

func TestTopUpService_ConfirmTopUpRejected(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		payment *models.PaymentVerification
		err     error
		wantErr error
	}{
		{
			name:    "provider down",
			err:     errors.New("connection reset"),
			wantErr: ErrExternalProvider,
		},
		{
			name:    "payment failed",
			payment: &models.PaymentVerification{Reference: "tp_2", Amount: 5000, Status: models.PaymentStatusFailed},
			wantErr: ErrPaymentNotSuccessful,
		},
		{
			name:    "payment without owner",
			payment: &models.PaymentVerification{Reference: "tp_2", Amount: 5000, Status: models.PaymentStatusSuccess},
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc, provider, _, store := newTopUpService(t, ctrl)
			provider.EXPECT().VerifyPayment(gomock.Any(), "tp_2").Return(tt.payment, tt.err)

			_, err := svc.ConfirmTopUp(ctx, "tp_2")
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, store.Wallets.All())
		})
	}
}

func TestTopUpService_HandleChargeEvent(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, provider, _, _ := newTopUpService(t, ctrl)

	// the webhook amount is ignored; a failed verification is not an error for the sender
	provider.EXPECT().VerifyPayment(gomock.Any(), "tp_3").
		Return(&models.PaymentVerification{Reference: "tp_3", Amount: 10, Status: models.PaymentStatusFailed}, nil)

	err := svc.HandleChargeEvent(ctx, models.WebhookCharge{Reference: "tp_3", Amount: 999999, Status: "success"})
	assert.NoError(t, err)
}
