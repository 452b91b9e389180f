package models

import "time"

// Escrow statuses.
const (
	EscrowPending   = "pending"
	EscrowHeld      = "held"
	EscrowReleased  = "released"
	EscrowRefunded  = "refunded"
	EscrowReverting = "reverting" // A release rollback owns the escrow
)

// EscrowTransaction holds the funds committed to one booking.
type EscrowTransaction struct {
	BookingID         string     `json:"booking_id" db:"booking_id"`                 // One escrow per booking
	ClientID          string     `json:"client_id" db:"client_id"`                   // Payer
	WorkerID          string     `json:"worker_id" db:"worker_id"`                   // Payee
	Amount            int64      `json:"amount" db:"amount"`                         // Total held
	PlatformFee       int64      `json:"platform_fee" db:"platform_fee"`             // Platform share of Amount
	WorkerAmount      int64      `json:"worker_amount" db:"worker_amount"`           // Amount - PlatformFee
	Status            string     `json:"status" db:"status"`                         // pending, held, released, refunded or reverting
	ProviderReference string     `json:"provider_reference" db:"provider_reference"` // Payment reference that funded the hold
	TriggeredBy       string     `json:"triggered_by" db:"triggered_by"`             // Who released or refunded
	RefundReason      string     `json:"refund_reason" db:"refund_reason"`
	Version           int64      `json:"-" db:"version"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
	ReleasedAt        *time.Time `json:"released_at,omitempty" db:"released_at"`
	RefundedAt        *time.Time `json:"refunded_at,omitempty" db:"refunded_at"`
}

// CanTransition reports whether the escrow may move from its current status to next.
// Refunded is terminal. Held is only re-entered through a rollback, which
// first moves the escrow to reverting.
func (e *EscrowTransaction) CanTransition(next string) bool {
	switch e.Status {
	case EscrowPending:
		return next == EscrowHeld
	case EscrowHeld:
		return next == EscrowReleased || next == EscrowRefunded || next == EscrowReverting
	case EscrowReleased:
		return next == EscrowReverting
	case EscrowReverting:
		return next == EscrowHeld || next == EscrowReleased
	default:
		return false
	}
}

// Cursor returns the position right after e in creation order.
func (e *EscrowTransaction) Cursor() EscrowCursor {
	return EscrowCursor{CreatedAt: e.CreatedAt, BookingID: e.BookingID}
}

// EscrowCursor is a position in the escrows ordered by creation time and
// booking id. The zero cursor is the start.
type EscrowCursor struct {
	CreatedAt time.Time
	BookingID string
}

// After reports whether e comes after the cursor.
func (c EscrowCursor) After(e *EscrowTransaction) bool {
	if !e.CreatedAt.Equal(c.CreatedAt) {
		return e.CreatedAt.After(c.CreatedAt)
	}
	return e.BookingID > c.BookingID
}

// SameParties reports whether other describes the same commitment.
func (e *EscrowTransaction) SameParties(other *EscrowTransaction) bool {
	return e.ClientID == other.ClientID && e.WorkerID == other.WorkerID && e.Amount == other.Amount
}

// HoursHeld returns the whole hours elapsed since the escrow was created.
func (e *EscrowTransaction) HoursHeld(now time.Time) int {
	return int(now.Sub(e.CreatedAt) / time.Hour)
}

// SettlementResult is returned by the settlement operations.
type SettlementResult struct {
	BookingID        string             `json:"booking_id"`
	Status           string             `json:"status"`
	AlreadyProcessed bool               `json:"already_processed"` // The call was a retry of a finished operation
	Escrow           *EscrowTransaction `json:"escrow,omitempty"`
}
