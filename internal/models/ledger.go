package models

import (
	"crypto/sha256"
	"database/sql/driver"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"
)

// Ledger entry types.
const (
	EntryHold               = "hold"
	EntryRelease            = "release"
	EntryPlatformFee        = "platform_fee"
	EntryEscrowSettle       = "escrow_settle"
	EntryRefund             = "refund"
	EntryTopUp              = "topup"
	EntryWithdrawal         = "withdrawal"
	EntryWithdrawalComplete = "withdrawal_complete"
	EntryWithdrawalReturn   = "withdrawal_return"
)

// Ledger entry statuses.
const (
	EntryCompleted = "completed"
	EntryVoided    = "voided"
)

// WalletTransaction is an immutable ledger entry. ID is a deterministic
// idempotency key derived from the business operation.
type WalletTransaction struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	WalletID  string    `json:"wallet_id" db:"wallet_id"`
	Type      string    `json:"type" db:"type"`
	Amount    int64     `json:"amount" db:"amount"` // Signed effect on AvailableBalance or the bucket named by Type
	Reference string    `json:"reference" db:"reference"`
	Status    string    `json:"status" db:"status"`
	Metadata  Metadata  `json:"metadata" db:"metadata"`
	Version   int64     `json:"-" db:"version"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Metadata is a flat string map stored as JSON.
type Metadata map[string]string

// Value implements driver.Valuer.
func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *Metadata) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*m = Metadata{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("metadata: unsupported source type")
	}
	return json.Unmarshal(raw, m)
}

// Ledger ids of the settlement operations.

func HoldEntryID(bookingID string) string { return "hold_" + bookingID }
func ReleaseEntryID(bookingID string) string { return "release_" + bookingID }
func FeeEntryID(bookingID string) string { return "fee_" + bookingID }
func SettleEntryID(bookingID string) string { return "settle_" + bookingID }
func RefundEntryID(bookingID string) string { return "refund_" + bookingID }
func WithdrawEntryID(withdrawalID string) string { return "withdraw_" + withdrawalID }
func ReversalEntryID(entryID string) string { return "reversal_" + entryID }

func WithdrawCompleteEntryID(withdrawalID string) string {
	return "withdraw_complete_" + withdrawalID
}

func WithdrawReturnEntryID(withdrawalID string) string {
	return "withdraw_return_" + withdrawalID
}

// TopUpEntryID hashes the provider reference so arbitrary reference strings
// map onto a fixed-size key.
func TopUpEntryID(reference string) string {
	sum := sha256.Sum256([]byte(reference))
	return "topup_" + hex.EncodeToString(sum[:8])
}
