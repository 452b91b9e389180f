package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/models"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAccount = models.BankAccount{ID: "acct-1", AccountNumber: "0123456789", BankCode: "058", AccountName: "Ada Obi"}

type withdrawalEnv struct {
	store    *repositories.MemoryStore
	book     *Bookkeeper
	provider *MockPaymentProvider
	svc      *WithdrawalService
}

func newWithdrawalEnv(t *testing.T, ctrl *gomock.Controller, mode string) *withdrawalEnv {
	t.Helper()
	store := repositories.NewMemoryStore()
	book := NewBookkeeper(store.Wallets, store.Ledger, nil, nil, models.SpendingLimits{})
	provider := NewMockPaymentProvider(ctrl)
	svc := NewWithdrawalService(book, store.Withdrawals, provider, nil, WithdrawalConfig{MinAmount: 1000, Mode: mode})

	_, err := book.Post(context.Background(), &models.WalletTransaction{
		ID: models.TopUpEntryID(uuid.NewString()), UserID: "u1", Type: models.EntryTopUp, Amount: 10000,
	}, credit(10000))
	require.NoError(t, err)

	return &withdrawalEnv{store: store, book: book, provider: provider, svc: svc}
}

func (e *withdrawalEnv) wallet(t *testing.T) *models.Wallet {
	t.Helper()
	w, err := e.store.Wallets.Get(context.Background(), "u1")
	require.NoError(t, err)
	require.True(t, w.Reconciles(), "wallet does not reconcile: %+v", w)
	return w
}

func TestWithdrawalService_DirectSuccess(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	env := newWithdrawalEnv(t, ctrl, WithdrawalModeDirect)

	env.provider.EXPECT().CreateRecipient(gomock.Any(), testAccount).Return("RCP_1", nil)
	env.provider.EXPECT().InitiateTransfer(gomock.Any(), int64(4000), "RCP_1", "wd-ref-1").
		Return(&models.Transfer{TransferCode: "TRF_1", Reference: "wd-ref-1", Status: "pending"}, nil)

	w, err := env.svc.InitiateWithdrawal(ctx, WithdrawalRequest{UserID: "u1", Amount: 4000, Account: testAccount, Reference: "wd-ref-1"})
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalProcessing, w.Status)
	assert.Equal(t, "TRF_1", w.TransferCode)

	wallet := env.wallet(t)
	assert.Equal(t, int64(6000), wallet.AvailableBalance)
	assert.Equal(t, int64(4000), wallet.PendingBalance)

	require.NoError(t, env.svc.HandleTransferEvent(ctx, models.EventTransferSuccess, models.WebhookTransfer{Reference: "wd-ref-1"}))
	// duplicate delivery
	require.NoError(t, env.svc.HandleTransferEvent(ctx, models.EventTransferSuccess, models.WebhookTransfer{Reference: "wd-ref-1"}))

	w, err = env.svc.GetWithdrawal(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalCompleted, w.Status)

	wallet = env.wallet(t)
	assert.Equal(t, int64(6000), wallet.AvailableBalance)
	assert.Equal(t, int64(0), wallet.PendingBalance)
	assert.Equal(t, int64(4000), wallet.TotalWithdrawn)
}

func TestWithdrawalService_ProviderFailureReturnsFunds(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	env := newWithdrawalEnv(t, ctrl, WithdrawalModeDirect)

	env.provider.EXPECT().CreateRecipient(gomock.Any(), gomock.Any()).Return("RCP_1", nil)
	env.provider.EXPECT().InitiateTransfer(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("gateway timeout"))

	_, err := env.svc.InitiateWithdrawal(ctx, WithdrawalRequest{UserID: "u1", Amount: 4000, Account: testAccount, Reference: "wd-ref-2"})
	require.ErrorIs(t, err, ErrExternalProvider)

	w, err := env.store.Withdrawals.GetByReference(ctx, "wd-ref-2")
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalRejected, w.Status)
	assert.Equal(t, "initiate transfer failed", w.FailureReason)

	wallet := env.wallet(t)
	assert.Equal(t, int64(10000), wallet.AvailableBalance)
	assert.Equal(t, int64(0), wallet.PendingBalance)
}

func TestWithdrawalService_Rejected(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		req     WithdrawalRequest
		wantErr error
	}{
		{"below minimum", WithdrawalRequest{UserID: "u1", Amount: 999, Account: testAccount}, ErrBelowMinimumWithdrawal},
		{"insufficient funds", WithdrawalRequest{UserID: "u1", Amount: 10001, Account: testAccount}, ErrInsufficientFunds},
		{"no account", WithdrawalRequest{UserID: "u1", Amount: 5000}, ErrInvalidInput},
		{"no user", WithdrawalRequest{Amount: 5000, Account: testAccount}, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			env := newWithdrawalEnv(t, ctrl, WithdrawalModeDirect)
			_, err := env.svc.InitiateWithdrawal(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, int64(10000), env.wallet(t).AvailableBalance)
		})
	}
}

func TestWithdrawalService_ApprovalMode(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	env := newWithdrawalEnv(t, ctrl, WithdrawalModeApproval)

	first, err := env.svc.InitiateWithdrawal(ctx, WithdrawalRequest{UserID: "u1", Amount: 3000, Account: testAccount})
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalPending, first.Status)

	second, err := env.svc.InitiateWithdrawal(ctx, WithdrawalRequest{UserID: "u1", Amount: 2000, Account: testAccount})
	require.NoError(t, err)

	wallet := env.wallet(t)
	assert.Equal(t, int64(5000), wallet.AvailableBalance)
	assert.Equal(t, int64(5000), wallet.PendingBalance)

	rejected, err := env.svc.RejectWithdrawal(ctx, first.ID, "account name mismatch")
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalRejected, rejected.Status)

	wallet = env.wallet(t)
	assert.Equal(t, int64(8000), wallet.AvailableBalance)
	assert.Equal(t, int64(2000), wallet.PendingBalance)

	// rejecting twice returns nothing more
	_, err = env.svc.RejectWithdrawal(ctx, first.ID, "account name mismatch")
	require.NoError(t, err)
	assert.Equal(t, int64(8000), env.wallet(t).AvailableBalance)

	_, err = env.svc.ApproveWithdrawal(ctx, first.ID, "admin")
	assert.ErrorIs(t, err, ErrInvalidState)

	env.provider.EXPECT().CreateRecipient(gomock.Any(), testAccount).Return("RCP_2", nil)
	env.provider.EXPECT().InitiateTransfer(gomock.Any(), int64(2000), "RCP_2", second.Reference).
		Return(&models.Transfer{TransferCode: "TRF_2"}, nil)

	approved, err := env.svc.ApproveWithdrawal(ctx, second.ID, "admin")
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalProcessing, approved.Status)

	_, err = env.svc.RejectWithdrawal(ctx, second.ID, "too late")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestWithdrawalService_ReferenceIsIdempotent(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	env := newWithdrawalEnv(t, ctrl, WithdrawalModeApproval)
	req := WithdrawalRequest{UserID: "u1", Amount: 3000, Account: testAccount, Reference: "client-key-1"}

	first, err := env.svc.InitiateWithdrawal(ctx, req)
	require.NoError(t, err)
	again, err := env.svc.InitiateWithdrawal(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, int64(7000), env.wallet(t).AvailableBalance)

	req.UserID = "u2"
	_, err = env.svc.InitiateWithdrawal(ctx, req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestWithdrawalService_TransferFailureEvents(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	env := newWithdrawalEnv(t, ctrl, WithdrawalModeDirect)
	env.provider.EXPECT().CreateRecipient(gomock.Any(), gomock.Any()).Return("RCP", nil).Times(2)
	env.provider.EXPECT().InitiateTransfer(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&models.Transfer{TransferCode: "TRF"}, nil).Times(2)

	failed, err := env.svc.InitiateWithdrawal(ctx, WithdrawalRequest{UserID: "u1", Amount: 2000, Account: testAccount, Reference: "f-1"})
	require.NoError(t, err)
	reversed, err := env.svc.InitiateWithdrawal(ctx, WithdrawalRequest{UserID: "u1", Amount: 3000, Account: testAccount, Reference: "r-1"})
	require.NoError(t, err)

	require.NoError(t, env.svc.HandleTransferEvent(ctx, models.EventTransferFailed, models.WebhookTransfer{Reference: "f-1", Reason: "invalid account"}))
	failed, err = env.svc.GetWithdrawal(ctx, failed.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalRejected, failed.Status)
	assert.Equal(t, "invalid account", failed.FailureReason)

	// the reversal lands after the success event
	require.NoError(t, env.svc.HandleTransferEvent(ctx, models.EventTransferSuccess, models.WebhookTransfer{Reference: "r-1"}))
	require.NoError(t, env.svc.HandleTransferEvent(ctx, models.EventTransferReversed, models.WebhookTransfer{Reference: "r-1"}))
	reversed, err = env.svc.GetWithdrawal(ctx, reversed.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalRejected, reversed.Status)

	wallet := env.wallet(t)
	assert.Equal(t, int64(10000), wallet.AvailableBalance)
	assert.Equal(t, int64(0), wallet.PendingBalance)
	assert.Equal(t, int64(0), wallet.TotalWithdrawn)

	// late duplicates and unknown references are ignored
	require.NoError(t, env.svc.HandleTransferEvent(ctx, models.EventTransferFailed, models.WebhookTransfer{Reference: "f-1"}))
	require.NoError(t, env.svc.HandleTransferEvent(ctx, models.EventTransferFailed, models.WebhookTransfer{Reference: "nope"}))
	assert.Equal(t, int64(10000), env.wallet(t).AvailableBalance)
}

func TestWithdrawalService_RejectWhileTransferInFlight(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	env := newWithdrawalEnv(t, ctrl, WithdrawalModeApproval)
	w, err := env.svc.InitiateWithdrawal(ctx, WithdrawalRequest{UserID: "u1", Amount: 4000, Account: testAccount, Reference: "wd-ref-3"})
	require.NoError(t, err)

	var rejectErr error
	env.provider.EXPECT().CreateRecipient(gomock.Any(), testAccount).Return("RCP_3", nil)
	env.provider.EXPECT().InitiateTransfer(gomock.Any(), int64(4000), "RCP_3", "wd-ref-3").
		DoAndReturn(func(ctx context.Context, amount int64, recipient, reference string) (*models.Transfer, error) {
			// an admin rejects while the bank call is running
			_, rejectErr = env.svc.RejectWithdrawal(ctx, w.ID, "changed my mind")
			return &models.Transfer{TransferCode: "TRF_3", Reference: reference}, nil
		})

	approved, err := env.svc.ApproveWithdrawal(ctx, w.ID, "admin")
	require.NoError(t, err)
	assert.ErrorIs(t, rejectErr, ErrInvalidState)
	assert.Equal(t, models.WithdrawalProcessing, approved.Status)
	assert.Equal(t, "TRF_3", approved.TransferCode)

	wallet := env.wallet(t)
	assert.Equal(t, int64(6000), wallet.AvailableBalance)
	assert.Equal(t, int64(4000), wallet.PendingBalance)

	require.NoError(t, env.svc.HandleTransferEvent(ctx, models.EventTransferSuccess, models.WebhookTransfer{Reference: "wd-ref-3"}))
	wallet = env.wallet(t)
	assert.Equal(t, int64(6000), wallet.AvailableBalance)
	assert.Equal(t, int64(0), wallet.PendingBalance)
	assert.Equal(t, int64(4000), wallet.TotalWithdrawn)
}

func TestWithdrawalService_SuccessAfterReturnIsInconsistent(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	env := newWithdrawalEnv(t, ctrl, WithdrawalModeDirect)
	env.provider.EXPECT().CreateRecipient(gomock.Any(), gomock.Any()).Return("RCP_4", nil)
	env.provider.EXPECT().InitiateTransfer(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("gateway timeout"))

	_, err := env.svc.InitiateWithdrawal(ctx, WithdrawalRequest{UserID: "u1", Amount: 4000, Account: testAccount, Reference: "wd-ref-4"})
	require.ErrorIs(t, err, ErrExternalProvider)
	assert.Equal(t, int64(10000), env.wallet(t).AvailableBalance)

	// the timed out transfer went through after all
	err = env.svc.HandleTransferEvent(ctx, models.EventTransferSuccess, models.WebhookTransfer{Reference: "wd-ref-4"})
	assert.ErrorIs(t, err, ErrSettlementInconsistency)

	w, err := env.store.Withdrawals.GetByReference(ctx, "wd-ref-4")
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalRejected, w.Status)
	wallet := env.wallet(t)
	assert.Equal(t, int64(10000), wallet.AvailableBalance)
	assert.Equal(t, int64(0), wallet.TotalWithdrawn)
}

func TestWithdrawalService_ConcurrentApprovalsStartOneTransfer(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	env := newWithdrawalEnv(t, ctrl, WithdrawalModeApproval)
	w, err := env.svc.InitiateWithdrawal(ctx, WithdrawalRequest{UserID: "u1", Amount: 4000, Account: testAccount})
	require.NoError(t, err)

	env.provider.EXPECT().CreateRecipient(gomock.Any(), gomock.Any()).Return("RCP_5", nil).Times(1)
	env.provider.EXPECT().InitiateTransfer(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&models.Transfer{TransferCode: "TRF_5"}, nil).Times(1)

	const admins = 6
	var wg sync.WaitGroup
	errs := make([]error, admins)
	for i := 0; i < admins; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.svc.ApproveWithdrawal(ctx, w.ID, "admin")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrInvalidState)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, int64(4000), env.wallet(t).PendingBalance)
}

func TestWithdrawalService_ConcurrentApproveAndReject(t *testing.T) {
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		ctrl := gomock.NewController(t)
		env := newWithdrawalEnv(t, ctrl, WithdrawalModeApproval)
		w, err := env.svc.InitiateWithdrawal(ctx, WithdrawalRequest{UserID: "u1", Amount: 4000, Account: testAccount})
		require.NoError(t, err)

		env.provider.EXPECT().CreateRecipient(gomock.Any(), gomock.Any()).Return("RCP_6", nil).MaxTimes(1)
		env.provider.EXPECT().InitiateTransfer(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&models.Transfer{TransferCode: "TRF_6"}, nil).MaxTimes(1)

		var (
			wg                    sync.WaitGroup
			approveErr, rejectErr error
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, approveErr = env.svc.ApproveWithdrawal(ctx, w.ID, "admin")
		}()
		go func() {
			defer wg.Done()
			_, rejectErr = env.svc.RejectWithdrawal(ctx, w.ID, "fraud check")
		}()
		wg.Wait()

		got, err := env.svc.GetWithdrawal(ctx, w.ID)
		require.NoError(t, err)
		wallet := env.wallet(t)
		assert.Equal(t, int64(10000), wallet.AvailableBalance+wallet.PendingBalance)

		switch got.Status {
		case models.WithdrawalProcessing:
			assert.NoError(t, approveErr)
			assert.ErrorIs(t, rejectErr, ErrInvalidState)
			assert.Equal(t, int64(4000), wallet.PendingBalance)
		case models.WithdrawalRejected:
			assert.NoError(t, rejectErr)
			assert.ErrorIs(t, approveErr, ErrInvalidState)
			assert.Equal(t, int64(10000), wallet.AvailableBalance)
		default:
			t.Fatalf("unexpected status %s", got.Status)
		}
		ctrl.Finish()
	}
}
