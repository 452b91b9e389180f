package repositories

import (
	"context"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/sbilibin2017/gw-escrow-settlement/internal/models"
)

// collection is an in-memory document collection with create-if-absent and
// optimistic, version-checked updates.
type collection[T any] struct {
	mu      sync.RWMutex
	docs    map[string]T
	version func(*T) *int64
	clone   func(T) T
}

func newCollection[T any](version func(*T) *int64, clone func(T) T) *collection[T] {
	if clone == nil {
		clone = func(v T) T { return v }
	}
	return &collection[T]{docs: make(map[string]T), version: version, clone: clone}
}

func (c *collection[T]) create(key string, doc *T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.docs[key]; ok {
		return models.ErrAlreadyExists
	}
	if c.version != nil {
		*c.version(doc) = 1
	}
	c.docs[key] = c.clone(*doc)
	return nil
}

func (c *collection[T]) get(key string) (*T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	doc, ok := c.docs[key]
	if !ok {
		return nil, models.ErrNotFound
	}
	out := c.clone(doc)
	return &out, nil
}

func (c *collection[T]) update(key string, doc *T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur, ok := c.docs[key]
	if !ok {
		return models.ErrNotFound
	}
	if *c.version(&cur) != *c.version(doc) {
		return models.ErrVersionConflict
	}
	*c.version(doc)++
	c.docs[key] = c.clone(*doc)
	return nil
}

func (c *collection[T]) remove(key string, version int64, allow func(*T) bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur, ok := c.docs[key]
	if !ok {
		return models.ErrNotFound
	}
	if *c.version(&cur) != version || (allow != nil && !allow(&cur)) {
		return models.ErrVersionConflict
	}
	delete(c.docs, key)
	return nil
}

func (c *collection[T]) find(match func(*T) bool) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []T
	for _, doc := range c.docs {
		if match(&doc) {
			out = append(out, c.clone(doc))
		}
	}
	return out
}

// MemoryStore keeps every collection of the ledger store in process memory.
// It is used for local runs without PostgreSQL and in tests.
type MemoryStore struct {
	Wallets     *MemoryWalletRepository
	Escrows     *MemoryEscrowRepository
	Ledger      *MemoryLedgerRepository
	Rules       *MemoryRuleRepository
	ReleaseLogs *MemoryAutoReleaseLogRepository
	Referrals   *MemoryReferralRepository
	Partners    *MemoryPartnerRepository
	Commissions *MemoryCommissionRepository
	Withdrawals *MemoryWithdrawalRepository
	Bookings    *MemoryBookingRepository
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		Wallets: &MemoryWalletRepository{c: newCollection(func(w *models.Wallet) *int64 { return &w.Version }, nil)},
		Escrows: &MemoryEscrowRepository{c: newCollection(func(e *models.EscrowTransaction) *int64 { return &e.Version }, nil)},
		Ledger: &MemoryLedgerRepository{c: newCollection(func(e *models.WalletTransaction) *int64 { return &e.Version },
			func(e models.WalletTransaction) models.WalletTransaction {
				e.Metadata = maps.Clone(e.Metadata)
				return e
			})},
		Rules:       &MemoryRuleRepository{c: newCollection[models.AutoReleaseRule](nil, nil)},
		ReleaseLogs: &MemoryAutoReleaseLogRepository{c: newCollection[models.AutoReleaseLog](nil, nil)},
		Referrals:   &MemoryReferralRepository{c: newCollection(func(r *models.Referral) *int64 { return &r.Version }, nil)},
		Partners:    &MemoryPartnerRepository{c: newCollection(func(p *models.Partner) *int64 { return &p.Version }, nil)},
		Commissions: &MemoryCommissionRepository{c: newCollection(func(c *models.PartnerCommission) *int64 { return &c.Version }, nil)},
		Withdrawals: &MemoryWithdrawalRepository{c: newCollection(func(w *models.Withdrawal) *int64 { return &w.Version }, nil)},
		Bookings:    &MemoryBookingRepository{c: newCollection[models.Booking](nil, nil), now: time.Now},
	}
}

// MemoryWalletRepository is the in-memory wallet collection.
type MemoryWalletRepository struct{ c *collection[models.Wallet] }

func (r *MemoryWalletRepository) Get(_ context.Context, userID string) (*models.Wallet, error) {
	return r.c.get(userID)
}

func (r *MemoryWalletRepository) Create(_ context.Context, w *models.Wallet) error {
	return r.c.create(w.UserID, w)
}

func (r *MemoryWalletRepository) Update(_ context.Context, w *models.Wallet) error {
	return r.c.update(w.UserID, w)
}

// All returns every wallet.
func (r *MemoryWalletRepository) All() []models.Wallet {
	return r.c.find(func(*models.Wallet) bool { return true })
}

// MemoryEscrowRepository is the in-memory escrow collection.
type MemoryEscrowRepository struct{ c *collection[models.EscrowTransaction] }

func (r *MemoryEscrowRepository) Get(_ context.Context, bookingID string) (*models.EscrowTransaction, error) {
	return r.c.get(bookingID)
}

func (r *MemoryEscrowRepository) Create(_ context.Context, e *models.EscrowTransaction) error {
	return r.c.create(e.BookingID, e)
}

func (r *MemoryEscrowRepository) Update(_ context.Context, e *models.EscrowTransaction) error {
	return r.c.update(e.BookingID, e)
}

func (r *MemoryEscrowRepository) Delete(_ context.Context, bookingID string, version int64) error {
	return r.c.remove(bookingID, version, func(e *models.EscrowTransaction) bool {
		return e.Status == models.EscrowPending
	})
}

func (r *MemoryEscrowRepository) ListByStatus(_ context.Context, status string, after models.EscrowCursor, limit int) ([]models.EscrowTransaction, error) {
	rows := r.c.find(func(e *models.EscrowTransaction) bool { return e.Status == status && after.After(e) })
	sort.Slice(rows, func(i, j int) bool { return rows[i].Cursor().After(&rows[j]) })
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

// MemoryLedgerRepository is the in-memory ledger collection.
type MemoryLedgerRepository struct{ c *collection[models.WalletTransaction] }

func (r *MemoryLedgerRepository) Create(_ context.Context, entry *models.WalletTransaction) error {
	return r.c.create(entry.ID, entry)
}

func (r *MemoryLedgerRepository) Get(_ context.Context, id string) (*models.WalletTransaction, error) {
	return r.c.get(id)
}

func (r *MemoryLedgerRepository) UpdateStatus(_ context.Context, entry *models.WalletTransaction) error {
	cur, err := r.c.get(entry.ID)
	if err != nil {
		return err
	}
	cur.Status = entry.Status
	cur.Metadata = entry.Metadata
	cur.Version = entry.Version
	if err := r.c.update(entry.ID, cur); err != nil {
		return err
	}
	entry.Version = cur.Version
	return nil
}

func (r *MemoryLedgerRepository) ListByUser(_ context.Context, userID string, limit int) ([]models.WalletTransaction, error) {
	rows := r.c.find(func(e *models.WalletTransaction) bool { return e.UserID == userID })
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].ID < rows[j].ID
		}
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

// MemoryRuleRepository is the in-memory rule collection.
type MemoryRuleRepository struct{ c *collection[models.AutoReleaseRule] }

func (r *MemoryRuleRepository) ListEnabled(_ context.Context) ([]models.AutoReleaseRule, error) {
	rows := r.c.find(func(rule *models.AutoReleaseRule) bool { return rule.Enabled })
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows, nil
}

func (r *MemoryRuleRepository) Create(_ context.Context, rule *models.AutoReleaseRule) error {
	return r.c.create(rule.ID, rule)
}

// MemoryAutoReleaseLogRepository is the in-memory evaluation log.
type MemoryAutoReleaseLogRepository struct{ c *collection[models.AutoReleaseLog] }

func (r *MemoryAutoReleaseLogRepository) Create(_ context.Context, entry *models.AutoReleaseLog) error {
	return r.c.create(entry.ID, entry)
}

func (r *MemoryAutoReleaseLogRepository) ListByBooking(_ context.Context, bookingID string) ([]models.AutoReleaseLog, error) {
	rows := r.c.find(func(l *models.AutoReleaseLog) bool { return l.BookingID == bookingID })
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].ID < rows[j].ID
		}
		return rows[i].CreatedAt.Before(rows[j].CreatedAt)
	})
	return rows, nil
}

// MemoryReferralRepository is the in-memory referral collection.
type MemoryReferralRepository struct{ c *collection[models.Referral] }

func (r *MemoryReferralRepository) GetActiveByClient(_ context.Context, clientID string) (*models.Referral, error) {
	rows := r.c.find(func(ref *models.Referral) bool {
		return ref.ClientID == clientID && ref.Status == models.ReferralActive
	})
	if len(rows) == 0 {
		return nil, models.ErrNotFound
	}
	return &rows[0], nil
}

func (r *MemoryReferralRepository) Create(_ context.Context, ref *models.Referral) error {
	return r.c.create(ref.ID, ref)
}

func (r *MemoryReferralRepository) Update(_ context.Context, ref *models.Referral) error {
	return r.c.update(ref.ID, ref)
}

// Get returns the referral with id.
func (r *MemoryReferralRepository) Get(_ context.Context, id string) (*models.Referral, error) {
	return r.c.get(id)
}

// MemoryPartnerRepository is the in-memory partner collection.
type MemoryPartnerRepository struct{ c *collection[models.Partner] }

func (r *MemoryPartnerRepository) Get(_ context.Context, id string) (*models.Partner, error) {
	return r.c.get(id)
}

func (r *MemoryPartnerRepository) Create(_ context.Context, p *models.Partner) error {
	return r.c.create(p.ID, p)
}

func (r *MemoryPartnerRepository) Update(_ context.Context, p *models.Partner) error {
	return r.c.update(p.ID, p)
}

// MemoryCommissionRepository is the in-memory commission collection.
type MemoryCommissionRepository struct{ c *collection[models.PartnerCommission] }

func (r *MemoryCommissionRepository) Create(_ context.Context, c *models.PartnerCommission) error {
	return r.c.create(c.ID, c)
}

func (r *MemoryCommissionRepository) Get(_ context.Context, id string) (*models.PartnerCommission, error) {
	return r.c.get(id)
}

func (r *MemoryCommissionRepository) Update(_ context.Context, c *models.PartnerCommission) error {
	return r.c.update(c.ID, c)
}

// MemoryWithdrawalRepository is the in-memory withdrawal collection.
type MemoryWithdrawalRepository struct{ c *collection[models.Withdrawal] }

func (r *MemoryWithdrawalRepository) Create(_ context.Context, w *models.Withdrawal) error {
	if len(r.c.find(func(cur *models.Withdrawal) bool { return cur.Reference == w.Reference })) > 0 {
		return models.ErrAlreadyExists
	}
	return r.c.create(w.ID, w)
}

func (r *MemoryWithdrawalRepository) Get(_ context.Context, id string) (*models.Withdrawal, error) {
	return r.c.get(id)
}

func (r *MemoryWithdrawalRepository) GetByReference(_ context.Context, reference string) (*models.Withdrawal, error) {
	rows := r.c.find(func(w *models.Withdrawal) bool { return w.Reference == reference })
	if len(rows) == 0 {
		return nil, models.ErrNotFound
	}
	return &rows[0], nil
}

func (r *MemoryWithdrawalRepository) Update(_ context.Context, w *models.Withdrawal) error {
	return r.c.update(w.ID, w)
}

// MemoryBookingRepository is an in-memory booking source.
type MemoryBookingRepository struct {
	c   *collection[models.Booking]
	now func() time.Time
}

// Put stores or replaces a booking snapshot.
func (r *MemoryBookingRepository) Put(b models.Booking) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	r.c.docs[b.ID] = b
}

func (r *MemoryBookingRepository) GetBooking(_ context.Context, id string) (*models.Booking, error) {
	return r.c.get(id)
}

func (r *MemoryBookingRepository) UpdateStatus(_ context.Context, id string, update models.BookingUpdate) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	b, ok := r.c.docs[id]
	if !ok {
		return models.ErrNotFound
	}
	if update.Status != "" {
		b.Status = update.Status
	}
	if update.PaymentStatus != "" {
		b.PaymentStatus = update.PaymentStatus
	}
	b.UpdatedAt = r.now().UTC()
	r.c.docs[id] = b
	return nil
}
