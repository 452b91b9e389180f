package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/sbilibin2017/gw-escrow-settlement/internal/logger"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/models"
	"github.com/segmentio/kafka-go"
)

//go:generate mockgen -source=ledger.go -destination=ledger_mock.go -package=services

// WalletRepository persists wallets with optimistic updates.
type WalletRepository interface {
	Get(ctx context.Context, userID string) (*models.Wallet, error) // Returns models.ErrNotFound for unknown users
	Create(ctx context.Context, w *models.Wallet) error             // Returns models.ErrAlreadyExists on collision
	Update(ctx context.Context, w *models.Wallet) error             // Returns models.ErrVersionConflict on a stale version
}

// LedgerRepository persists ledger entries keyed by their idempotency id.
type LedgerRepository interface {
	Create(ctx context.Context, entry *models.WalletTransaction) error       // Returns models.ErrAlreadyExists on collision
	Get(ctx context.Context, id string) (*models.WalletTransaction, error)   // Returns models.ErrNotFound
	UpdateStatus(ctx context.Context, entry *models.WalletTransaction) error // Returns models.ErrVersionConflict on a stale version
	ListByUser(ctx context.Context, userID string, limit int) ([]models.WalletTransaction, error)
}

// WalletCache caches wallet snapshots for reads.
type WalletCache interface {
	Get(ctx context.Context, userID string) (*models.Wallet, error) // Returns models.ErrNotFound on a miss
	Set(ctx context.Context, w *models.Wallet) error
	Invalidate(ctx context.Context, userID string) error
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the Kafka writer
}

const defaultMaxRetries = 8

// Bookkeeper applies ledger entries to wallets. Every balance change goes
// through Post, which makes the entry id the idempotency boundary.
type Bookkeeper struct {
	wallets     WalletRepository
	entries     LedgerRepository
	cache       WalletCache
	kafkaWriter KafkaWriter
	limits      models.SpendingLimits
	maxRetries  int
	now         func() time.Time
}

// NewBookkeeper creates a Bookkeeper. cache and kafkaWriter may be nil.
func NewBookkeeper(
	wallets WalletRepository,
	entries LedgerRepository,
	cache WalletCache,
	kafkaWriter KafkaWriter,
	limits models.SpendingLimits,
) *Bookkeeper {
	return &Bookkeeper{
		wallets:     wallets,
		entries:     entries,
		cache:       cache,
		kafkaWriter: kafkaWriter,
		limits:      limits,
		maxRetries:  defaultMaxRetries,
		now:         time.Now,
	}
}

// Wallet returns the wallet of userID, creating an empty one on first use.
func (b *Bookkeeper) Wallet(ctx context.Context, userID string) (*models.Wallet, error) {
	w, err := b.wallets.Get(ctx, userID)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	w = models.NewWallet(userID, b.limits, b.now().UTC())
	err = b.wallets.Create(ctx, w)
	if errors.Is(err, models.ErrAlreadyExists) {
		return b.wallets.Get(ctx, userID)
	}
	if err != nil {
		return nil, err
	}
	logger.Log.Infow("wallet created", "user_id", userID)
	return w, nil
}

// mutateWallet runs fn against a fresh read of the wallet and writes the
// result back, retrying when a concurrent writer moved the version on.
// Spend counters are reset before fn sees the wallet.
func (b *Bookkeeper) mutateWallet(ctx context.Context, userID string, fn func(w *models.Wallet) error) (*models.Wallet, error) {
	for attempt := 0; attempt < b.maxRetries; attempt++ {
		w, err := b.Wallet(ctx, userID)
		if err != nil {
			return nil, err
		}

		now := b.now().UTC()
		models.ResetCountersIfNeeded(w, now)
		if err := fn(w); err != nil {
			return nil, err
		}
		if !w.Reconciles() {
			return nil, fmt.Errorf("wallet %s would not reconcile after mutation", userID)
		}
		w.UpdatedAt = now

		err = b.wallets.Update(ctx, w)
		if errors.Is(err, models.ErrVersionConflict) {
			logger.Log.Debugw("wallet version conflict, retrying", "user_id", userID, "attempt", attempt)
			continue
		}
		if err != nil {
			return nil, err
		}

		b.invalidate(ctx, userID)
		return w, nil
	}
	return nil, fmt.Errorf("%w: wallet %s", ErrConcurrentUpdate, userID)
}

// Post records entry and applies mutate to the owner's wallet. It reports
// whether this call applied the entry; a completed entry with the same id
// means the operation was already processed and nothing is applied. A voided
// entry is revived and applied again. If the wallet cannot be mutated the
// entry is voided and the mutation error returned.
func (b *Bookkeeper) Post(ctx context.Context, entry *models.WalletTransaction, mutate func(w *models.Wallet) error) (bool, error) {
	entry.Status = models.EntryCompleted
	if entry.WalletID == "" {
		entry.WalletID = entry.UserID
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = b.now().UTC()
	}

	err := b.entries.Create(ctx, entry)
	if errors.Is(err, models.ErrAlreadyExists) {
		existing, err := b.entries.Get(ctx, entry.ID)
		if err != nil {
			return false, err
		}
		if existing.Status == models.EntryCompleted {
			logger.Log.Infow("ledger entry already processed", "entry_id", entry.ID)
			*entry = *existing
			return false, nil
		}

		existing.Status = models.EntryCompleted
		if err := b.entries.UpdateStatus(ctx, existing); err != nil {
			if errors.Is(err, models.ErrVersionConflict) {
				// another caller revived it first
				return false, nil
			}
			return false, err
		}
		*entry = *existing
		logger.Log.Infow("ledger entry revived", "entry_id", entry.ID)
	} else if err != nil {
		return false, err
	}

	if _, err := b.mutateWallet(ctx, entry.UserID, mutate); err != nil {
		if verr := b.void(ctx, entry, "wallet mutation failed"); verr != nil {
			logger.Log.DPanicw("ledger entry left completed without wallet effect",
				"entry_id", entry.ID, "user_id", entry.UserID, "error", err, "void_error", verr)
			return false, fmt.Errorf("%w: entry %s: %v", ErrSettlementInconsistency, entry.ID, verr)
		}
		return false, err
	}

	b.publishTransaction(ctx, models.Transaction{
		TransactionID: entry.ID,
		Timestamp:     entry.CreatedAt.Unix(),
		Amount:        entry.Amount,
		UserID:        entry.UserID,
		Operation:     entry.Type,
		Reference:     entry.Reference,
	})
	return true, nil
}

// Reverse undoes a completed entry: it voids the entry, then applies
// inverse to the wallet. Entries that are missing or already voided are
// left alone. When the wallet refuses the inverse the entry is restored and
// the refusal returned; failing to restore it is an inconsistency.
func (b *Bookkeeper) Reverse(ctx context.Context, entryID, reason string, inverse func(w *models.Wallet) error) error {
	var entry *models.WalletTransaction
	for attempt := 0; ; attempt++ {
		var err error
		entry, err = b.entries.Get(ctx, entryID)
		if errors.Is(err, models.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if entry.Status == models.EntryVoided {
			return nil
		}

		err = b.void(ctx, entry, reason)
		if err == nil {
			break
		}
		if !errors.Is(err, models.ErrVersionConflict) || attempt+1 >= b.maxRetries {
			return err
		}
	}

	if _, err := b.mutateWallet(ctx, entry.UserID, inverse); err != nil {
		if rerr := b.restore(ctx, entry); rerr != nil {
			logger.Log.DPanicw("ledger entry voided but wallet not reversed",
				"entry_id", entryID, "user_id", entry.UserID, "error", err, "restore_error", rerr)
			return fmt.Errorf("%w: reverse %s: %v", ErrSettlementInconsistency, entryID, rerr)
		}
		logger.Log.Warnw("ledger entry reversal refused", "entry_id", entryID, "user_id", entry.UserID, "error", err)
		return err
	}

	b.publishTransaction(ctx, models.Transaction{
		TransactionID: models.ReversalEntryID(entryID),
		Timestamp:     b.now().Unix(),
		Amount:        -entry.Amount,
		UserID:        entry.UserID,
		Operation:     entry.Type + "_reversal",
		Reference:     entry.Reference,
	})
	logger.Log.Infow("ledger entry reversed", "entry_id", entryID, "reason", reason)
	return nil
}

func (b *Bookkeeper) void(ctx context.Context, entry *models.WalletTransaction, reason string) error {
	voided := *entry
	voided.Status = models.EntryVoided
	voided.Metadata = maps.Clone(entry.Metadata)
	if voided.Metadata == nil {
		voided.Metadata = models.Metadata{}
	}
	voided.Metadata["voided_reason"] = reason
	voided.Metadata["voided_at"] = b.now().UTC().Format(time.RFC3339)

	if err := b.entries.UpdateStatus(ctx, &voided); err != nil {
		return err
	}
	*entry = voided
	return nil
}

// restore marks a voided entry completed again. Losing the race to a
// caller that revived it already leaves the same state.
func (b *Bookkeeper) restore(ctx context.Context, entry *models.WalletTransaction) error {
	restored := *entry
	restored.Status = models.EntryCompleted
	restored.Metadata = maps.Clone(entry.Metadata)
	delete(restored.Metadata, "voided_reason")
	delete(restored.Metadata, "voided_at")

	err := b.entries.UpdateStatus(ctx, &restored)
	if errors.Is(err, models.ErrVersionConflict) {
		current, gerr := b.entries.Get(ctx, entry.ID)
		if gerr != nil {
			return gerr
		}
		if current.Status == models.EntryCompleted {
			return nil
		}
	}
	if err != nil {
		return err
	}
	*entry = restored
	return nil
}

// Entries returns up to limit ledger entries of userID, newest first.
func (b *Bookkeeper) Entries(ctx context.Context, userID string, limit int) ([]models.WalletTransaction, error) {
	return b.entries.ListByUser(ctx, userID, limit)
}

// EntryStatus returns the status of the entry with id, or "" if it does not exist.
func (b *Bookkeeper) EntryStatus(ctx context.Context, id string) (string, error) {
	entry, err := b.entries.Get(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return entry.Status, nil
}

// CachedWallet returns the wallet of userID from the cache, falling back to
// the store and filling the cache on a miss.
func (b *Bookkeeper) CachedWallet(ctx context.Context, userID string) (*models.Wallet, error) {
	if b.cache != nil {
		w, err := b.cache.Get(ctx, userID)
		if err == nil {
			return w, nil
		}
		if !errors.Is(err, models.ErrNotFound) {
			logger.Log.Warnw("wallet cache unavailable", "user_id", userID, "error", err)
		}
	}

	w, err := b.Wallet(ctx, userID)
	if err != nil {
		return nil, err
	}

	if b.cache != nil {
		if err := b.cache.Set(ctx, w); err != nil {
			logger.Log.Warnw("failed to cache wallet", "user_id", userID, "error", err)
		}
	}
	return w, nil
}

func (b *Bookkeeper) invalidate(ctx context.Context, userID string) {
	if b.cache == nil {
		return
	}
	if err := b.cache.Invalidate(ctx, userID); err != nil {
		logger.Log.Warnw("failed to invalidate cached wallet", "user_id", userID, "error", err)
	}
}

// Close flushes and closes the Kafka writer, if any.
func (b *Bookkeeper) Close() error {
	if b.kafkaWriter == nil {
		return nil
	}
	return b.kafkaWriter.Close()
}

// publishTransaction publishes an applied ledger entry to Kafka.
func (b *Bookkeeper) publishTransaction(ctx context.Context, txn models.Transaction) {
	if b.kafkaWriter == nil {
		logger.Log.Debugw("Kafka writer not configured, skipping publishing", "transaction_id", txn.TransactionID)
		return
	}

	data, err := json.Marshal(txn)
	if err != nil {
		logger.Log.Errorw("Failed to marshal transaction for Kafka", "transaction_id", txn.TransactionID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(txn.UserID),
		Value: data,
	}

	if err := b.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("Failed to publish transaction to Kafka", "transaction_id", txn.TransactionID, "error", err)
	} else {
		logger.Log.Infow("Transaction published to Kafka", "transaction_id", txn.TransactionID, "amount", txn.Amount)
	}
}
