package repositories

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sbilibin2017/gw-escrow-settlement/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_WalletSemantics(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	w := models.NewWallet("u1", models.SpendingLimits{}, time.Now())
	require.NoError(t, store.Wallets.Create(ctx, w))
	assert.Equal(t, int64(1), w.Version)
	assert.ErrorIs(t, store.Wallets.Create(ctx, models.NewWallet("u1", models.SpendingLimits{}, time.Now())), models.ErrAlreadyExists)

	a, err := store.Wallets.Get(ctx, "u1")
	require.NoError(t, err)
	b, err := store.Wallets.Get(ctx, "u1")
	require.NoError(t, err)

	a.AvailableBalance = 10
	require.NoError(t, store.Wallets.Update(ctx, a))
	assert.Equal(t, int64(2), a.Version)

	b.AvailableBalance = 99
	assert.ErrorIs(t, store.Wallets.Update(ctx, b), models.ErrVersionConflict)

	got, err := store.Wallets.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.AvailableBalance)

	_, err = store.Wallets.Get(ctx, "u2")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	entry := &models.WalletTransaction{ID: "hold_b1", UserID: "u1", Metadata: models.Metadata{"a": "1"}}
	require.NoError(t, store.Ledger.Create(ctx, entry))
	entry.Metadata["a"] = "changed"

	got, err := store.Ledger.Get(ctx, "hold_b1")
	require.NoError(t, err)
	assert.Equal(t, "1", got.Metadata["a"])
}

func TestMemoryStore_EscrowDeleteOnlyPending(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	e := &models.EscrowTransaction{BookingID: "b1", Status: models.EscrowPending}
	require.NoError(t, store.Escrows.Create(ctx, e))
	e.Status = models.EscrowHeld
	require.NoError(t, store.Escrows.Update(ctx, e))

	assert.ErrorIs(t, store.Escrows.Delete(ctx, "b1", e.Version), models.ErrVersionConflict)

	p := &models.EscrowTransaction{BookingID: "b2", Status: models.EscrowPending}
	require.NoError(t, store.Escrows.Create(ctx, p))
	assert.ErrorIs(t, store.Escrows.Delete(ctx, "b2", 7), models.ErrVersionConflict)
	require.NoError(t, store.Escrows.Delete(ctx, "b2", p.Version))
}

func TestMemoryStore_EscrowListPages(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// b2 and b3 share a creation time
	for _, e := range []models.EscrowTransaction{
		{BookingID: "b3", Status: models.EscrowHeld, CreatedAt: base.Add(time.Minute)},
		{BookingID: "b1", Status: models.EscrowHeld, CreatedAt: base},
		{BookingID: "b2", Status: models.EscrowHeld, CreatedAt: base.Add(time.Minute)},
		{BookingID: "b4", Status: models.EscrowReleased, CreatedAt: base},
		{BookingID: "b5", Status: models.EscrowHeld, CreatedAt: base.Add(time.Hour)},
	} {
		require.NoError(t, store.Escrows.Create(ctx, &e))
	}

	var (
		seen  []string
		after models.EscrowCursor
	)
	for {
		page, err := store.Escrows.ListByStatus(ctx, models.EscrowHeld, after, 2)
		require.NoError(t, err)
		for _, e := range page {
			seen = append(seen, e.BookingID)
		}
		if len(page) < 2 {
			break
		}
		after = page[len(page)-1].Cursor()
	}
	assert.Equal(t, []string{"b1", "b2", "b3", "b5"}, seen)
}

func TestMemoryStore_LedgerListNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.Ledger.Create(ctx, &models.WalletTransaction{ID: id, UserID: "u1", CreatedAt: base.Add(time.Duration(i) * time.Minute)}))
	}
	require.NoError(t, store.Ledger.Create(ctx, &models.WalletTransaction{ID: "x", UserID: "u2", CreatedAt: base}))

	rows, err := store.Ledger.ListByUser(ctx, "u1", 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "c", rows[0].ID)
	assert.Equal(t, "b", rows[1].ID)
}

func TestMemoryStore_ConcurrentCreateHasOneWinner(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	const n = 64
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			if err := store.Escrows.Create(ctx, &models.EscrowTransaction{BookingID: "b1", Status: models.EscrowPending}); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}

func TestMemoryStore_WithdrawalReferenceIsUnique(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Withdrawals.Create(ctx, &models.Withdrawal{ID: "w1", Reference: "r1"}))
	assert.ErrorIs(t, store.Withdrawals.Create(ctx, &models.Withdrawal{ID: "w2", Reference: "r1"}), models.ErrAlreadyExists)

	w, err := store.Withdrawals.GetByReference(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "w1", w.ID)
}

func TestMemoryBookingRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	store.Bookings.Put(models.Booking{ID: "b1", Status: models.BookingInProgress})

	require.NoError(t, store.Bookings.UpdateStatus(ctx, "b1", models.BookingUpdate{PaymentStatus: models.PaymentHeld}))
	b, err := store.Bookings.GetBooking(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, models.BookingInProgress, b.Status)
	assert.Equal(t, models.PaymentHeld, b.PaymentStatus)

	assert.ErrorIs(t, store.Bookings.UpdateStatus(ctx, "nope", models.BookingUpdate{}), models.ErrNotFound)
}
