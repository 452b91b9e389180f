package models

import "time"

// Booking statuses as reported by the booking source.
const (
	BookingPending    = "pending"
	BookingAccepted   = "accepted"
	BookingInProgress = "in_progress"
	BookingCompleted  = "completed"
	BookingCancelled  = "cancelled"
	BookingDisputed   = "disputed"
)

// Booking payment statuses written back by the engine.
const (
	PaymentPending  = "pending"
	PaymentHeld     = "held"
	PaymentReleased = "released"
	PaymentRefunded = "refunded"
)

// Booking is a read-only snapshot of a booking.
type Booking struct {
	ID                string     `json:"id" db:"id"`
	ClientID          string     `json:"client_id" db:"client_id"`
	WorkerID          string     `json:"worker_id" db:"worker_id"`
	Status            string     `json:"status" db:"status"`
	PaymentStatus     string     `json:"payment_status" db:"payment_status"`
	Amount            int64      `json:"amount" db:"amount"`
	CompletedAt       *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	ClientConfirmedAt *time.Time `json:"client_confirmed_at,omitempty" db:"client_confirmed_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}

// BookingUpdate carries the fields written back to a booking. Empty fields are left untouched.
type BookingUpdate struct {
	Status        string
	PaymentStatus string
}
