package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/models"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/repositories"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func credit(amount int64) func(w *models.Wallet) error {
	return func(w *models.Wallet) error {
		w.AvailableBalance += amount
		w.TotalDeposits += amount
		return nil
	}
}

func TestBookkeeper_PostPublishesOnce(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := repositories.NewMemoryStore()
	writer := NewMockKafkaWriter(ctrl)
	book := NewBookkeeper(store.Wallets, store.Ledger, nil, writer, models.SpendingLimits{})

	writer.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, msgs ...kafka.Message) error {
		require.Len(t, msgs, 1)
		assert.Equal(t, "u1", string(msgs[0].Key))

		var txn models.Transaction
		require.NoError(t, json.Unmarshal(msgs[0].Value, &txn))
		assert.Equal(t, "topup_x", txn.TransactionID)
		assert.Equal(t, int64(700), txn.Amount)
		assert.Equal(t, models.EntryTopUp, txn.Operation)
		return nil
	}).Times(1)

	entry := &models.WalletTransaction{ID: "topup_x", UserID: "u1", Type: models.EntryTopUp, Amount: 700}
	applied, err := book.Post(ctx, entry, credit(700))
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, "u1", entry.WalletID)

	applied, err = book.Post(ctx, &models.WalletTransaction{ID: "topup_x", UserID: "u1", Type: models.EntryTopUp, Amount: 700}, credit(700))
	require.NoError(t, err)
	assert.False(t, applied)

	w, err := store.Wallets.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(700), w.AvailableBalance)
}

func TestBookkeeper_PublishFailureDoesNotFailPost(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := repositories.NewMemoryStore()
	writer := NewMockKafkaWriter(ctrl)
	book := NewBookkeeper(store.Wallets, store.Ledger, nil, writer, models.SpendingLimits{})

	writer.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(errors.New("broker unavailable"))

	applied, err := book.Post(ctx, &models.WalletTransaction{ID: "topup_y", UserID: "u1", Amount: 10}, credit(10))
	require.NoError(t, err)
	assert.True(t, applied)
}

func TestBookkeeper_FailedMutationVoidsEntry(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	book := NewBookkeeper(store.Wallets, store.Ledger, nil, nil, models.SpendingLimits{})

	refuse := func(w *models.Wallet) error { return ErrInsufficientFunds }
	applied, err := book.Post(ctx, &models.WalletTransaction{ID: "hold_b1", UserID: "u1", Amount: -10}, refuse)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.False(t, applied)

	entry, err := store.Ledger.Get(ctx, "hold_b1")
	require.NoError(t, err)
	assert.Equal(t, models.EntryVoided, entry.Status)
	assert.Equal(t, "wallet mutation failed", entry.Metadata["voided_reason"])

	// a voided entry is applied again by the next post
	applied, err = book.Post(ctx, &models.WalletTransaction{ID: "hold_b1", UserID: "u1", Amount: 10}, credit(10))
	require.NoError(t, err)
	assert.True(t, applied)

	status, err := book.EntryStatus(ctx, "hold_b1")
	require.NoError(t, err)
	assert.Equal(t, models.EntryCompleted, status)
}

func TestBookkeeper_UnreconciledMutationRejected(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	book := NewBookkeeper(store.Wallets, store.Ledger, nil, nil, models.SpendingLimits{})

	// available grows without a matching deposit
	_, err := book.Post(ctx, &models.WalletTransaction{ID: "bad", UserID: "u1", Amount: 10}, func(w *models.Wallet) error {
		w.AvailableBalance += 10
		return nil
	})
	require.Error(t, err)

	w, err := book.Wallet(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), w.AvailableBalance)
}

func TestBookkeeper_Reverse(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	book := NewBookkeeper(store.Wallets, store.Ledger, nil, nil, models.SpendingLimits{})

	_, err := book.Post(ctx, &models.WalletTransaction{ID: "release_b1", UserID: "worker", Amount: 100}, credit(100))
	require.NoError(t, err)

	debit := func(w *models.Wallet) error {
		if w.AvailableBalance < 100 {
			return ErrInsufficientFunds
		}
		w.AvailableBalance -= 100
		w.TotalDeposits -= 100
		return nil
	}

	require.NoError(t, book.Reverse(ctx, "release_b1", "rolled back", debit))
	status, err := book.EntryStatus(ctx, "release_b1")
	require.NoError(t, err)
	assert.Equal(t, models.EntryVoided, status)

	// reversing twice or reversing nothing is a no-op
	require.NoError(t, book.Reverse(ctx, "release_b1", "rolled back", debit))
	require.NoError(t, book.Reverse(ctx, "missing", "rolled back", debit))

	w, err := book.Wallet(ctx, "worker")
	require.NoError(t, err)
	assert.Equal(t, int64(0), w.AvailableBalance)
}

func TestBookkeeper_RefusedReverseRestoresEntry(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	book := NewBookkeeper(store.Wallets, store.Ledger, nil, nil, models.SpendingLimits{})

	_, err := book.Post(ctx, &models.WalletTransaction{ID: "release_b1", UserID: "worker", Amount: 100}, credit(100))
	require.NoError(t, err)

	err = book.Reverse(ctx, "release_b1", "rolled back", func(w *models.Wallet) error { return ErrInsufficientFunds })
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.False(t, errors.Is(err, ErrSettlementInconsistency))

	entry, err := store.Ledger.Get(ctx, "release_b1")
	require.NoError(t, err)
	assert.Equal(t, models.EntryCompleted, entry.Status)
	assert.NotContains(t, entry.Metadata, "voided_reason")
}

func TestBookkeeper_CachedWallet(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := repositories.NewMemoryStore()
	cache := NewMockWalletCache(ctrl)
	book := NewBookkeeper(store.Wallets, store.Ledger, cache, nil, models.SpendingLimits{})

	cached := &models.Wallet{UserID: "u1", AvailableBalance: 42}
	cache.EXPECT().Get(gomock.Any(), "u1").Return(cached, nil)

	w, err := book.CachedWallet(ctx, "u1")
	require.NoError(t, err)
	assert.Same(t, cached, w)

	cache.EXPECT().Get(gomock.Any(), "u2").Return(nil, models.ErrNotFound)
	cache.EXPECT().Set(gomock.Any(), gomock.Any()).Return(nil)

	w, err = book.CachedWallet(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, "u2", w.UserID)

	cache.EXPECT().Invalidate(gomock.Any(), "u2").Return(errors.New("redis down"))
	_, err = book.Post(ctx, &models.WalletTransaction{ID: "topup_z", UserID: "u2", Amount: 5}, credit(5))
	require.NoError(t, err)
}

func TestBookkeeper_ConcurrentUpdateExhausted(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := repositories.NewMemoryStore()
	wallets := NewMockWalletRepository(ctrl)
	book := NewBookkeeper(wallets, store.Ledger, nil, nil, models.SpendingLimits{})
	book.maxRetries = 2

	wallets.EXPECT().Get(gomock.Any(), "u1").Return(models.NewWallet("u1", models.SpendingLimits{}, testNow), nil).Times(2)
	wallets.EXPECT().Update(gomock.Any(), gomock.Any()).Return(models.ErrVersionConflict).Times(2)

	_, err := book.Post(ctx, &models.WalletTransaction{ID: "topup_c", UserID: "u1", Amount: 5}, credit(5))
	assert.ErrorIs(t, err, ErrConcurrentUpdate)

	status, err := book.EntryStatus(ctx, "topup_c")
	require.NoError(t, err)
	assert.Equal(t, models.EntryVoided, status)
}

func TestBookkeeper_Close(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := repositories.NewMemoryStore()
	writer := NewMockKafkaWriter(ctrl)
	writer.EXPECT().Close().Return(nil)

	assert.NoError(t, NewBookkeeper(store.Wallets, store.Ledger, nil, writer, models.SpendingLimits{}).Close())
	assert.NoError(t, NewBookkeeper(store.Wallets, store.Ledger, nil, nil, models.SpendingLimits{}).Close())
}
