package models

import (
	"fmt"
	"time"
)

// PlatformUserID is the owner id of the wallet that collects platform fees.
const PlatformUserID = "platform"

// Wallet holds the balances of one user. All amounts are in minor currency units.
type Wallet struct {
	UserID              string    `json:"user_id" db:"user_id"`                             // Unique owner id
	AvailableBalance    int64     `json:"available_balance" db:"available_balance"`         // Spendable funds
	PendingBalance      int64     `json:"pending_balance" db:"pending_balance"`             // Funds parked for in-flight withdrawals
	Escrow              int64     `json:"escrow" db:"escrow"`                               // Funds committed to bookings
	TotalDeposits       int64     `json:"total_deposits" db:"total_deposits"`               // Lifetime inflow (top-ups and earnings)
	TotalSpent          int64     `json:"total_spent" db:"total_spent"`                     // Lifetime released escrow
	TotalWithdrawn      int64     `json:"total_withdrawn" db:"total_withdrawn"`             // Lifetime completed withdrawals
	TransactionLimit    int64     `json:"transaction_limit" db:"transaction_limit"`         // Per-transaction cap, 0 means unlimited
	DailySpendLimit     int64     `json:"daily_spend_limit" db:"daily_spend_limit"`         // 0 means unlimited
	MonthlySpendLimit   int64     `json:"monthly_spend_limit" db:"monthly_spend_limit"`     // 0 means unlimited
	CurrentDailySpent   int64     `json:"current_daily_spent" db:"current_daily_spent"`     // Spent since LastResetDate's day
	CurrentMonthlySpent int64     `json:"current_monthly_spent" db:"current_monthly_spent"` // Spent since LastResetDate's month
	LastResetDate       time.Time `json:"last_reset_date" db:"last_reset_date"`
	IsActive            bool      `json:"is_active" db:"is_active"`
	Version             int64     `json:"-" db:"version"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time `json:"updated_at" db:"updated_at"`
}

// SpendingLimits are the caps applied to freshly created wallets.
type SpendingLimits struct {
	Transaction int64
	Daily       int64
	Monthly     int64
}

// NewWallet returns an active, empty wallet for userID.
func NewWallet(userID string, limits SpendingLimits, now time.Time) *Wallet {
	return &Wallet{
		UserID:            userID,
		TransactionLimit:  limits.Transaction,
		DailySpendLimit:   limits.Daily,
		MonthlySpendLimit: limits.Monthly,
		LastResetDate:     now,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// Holdings is the sum of every balance bucket of the wallet.
func (w *Wallet) Holdings() int64 {
	return w.AvailableBalance + w.Escrow + w.PendingBalance
}

// Reconciles reports whether the lifetime counters agree with the balances
// and no bucket is negative.
func (w *Wallet) Reconciles() bool {
	if w.AvailableBalance < 0 || w.Escrow < 0 || w.PendingBalance < 0 {
		return false
	}
	return w.TotalDeposits-w.TotalSpent-w.TotalWithdrawn == w.Holdings()
}

// LimitError describes which spending cap rejected an amount.
type LimitError struct {
	Limit     string // transaction, daily or monthly
	Remaining int64  // headroom left under the cap
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("%s spend limit exceeded: %d remaining", e.Limit, e.Remaining)
}

// CheckSpendingLimits checks amount against the per-transaction, daily and
// monthly caps, in that order. It returns nil when the spend is allowed.
func CheckSpendingLimits(w *Wallet, amount int64) error {
	if w.TransactionLimit > 0 && amount > w.TransactionLimit {
		return &LimitError{Limit: "transaction", Remaining: w.TransactionLimit}
	}
	if w.DailySpendLimit > 0 && w.CurrentDailySpent+amount > w.DailySpendLimit {
		return &LimitError{Limit: "daily", Remaining: max(w.DailySpendLimit-w.CurrentDailySpent, 0)}
	}
	if w.MonthlySpendLimit > 0 && w.CurrentMonthlySpent+amount > w.MonthlySpendLimit {
		return &LimitError{Limit: "monthly", Remaining: max(w.MonthlySpendLimit-w.CurrentMonthlySpent, 0)}
	}
	return nil
}

// ResetCountersIfNeeded zeroes the daily counter on a day change and the
// monthly counter on a month change. Both comparisons use the same now.
// It reports whether anything was reset.
func ResetCountersIfNeeded(w *Wallet, now time.Time) bool {
	now = now.UTC()
	last := w.LastResetDate.UTC()

	reset := false
	if now.Year() != last.Year() || now.YearDay() != last.YearDay() {
		w.CurrentDailySpent = 0
		reset = true
	}
	if now.Year() != last.Year() || now.Month() != last.Month() {
		w.CurrentMonthlySpent = 0
		reset = true
	}
	if reset {
		w.LastResetDate = now
	}
	return reset
}
