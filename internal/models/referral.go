package models

import "time"

// Referral statuses.
const (
	ReferralActive  = "active"
	ReferralExpired = "expired"
	ReferralFraud   = "fraud"
)

// Commission statuses.
const (
	CommissionPending   = "pending"
	CommissionPaid      = "paid"
	CommissionCancelled = "cancelled"
)

// Referral links a client to the partner who referred them.
type Referral struct {
	ID                     string     `json:"id" db:"id"`
	ClientID               string     `json:"client_id" db:"client_id"`
	PartnerID              string     `json:"partner_id" db:"partner_id"`
	Status                 string     `json:"status" db:"status"`
	FirstCompletedJobAt    *time.Time `json:"first_completed_job_at,omitempty" db:"first_completed_job_at"`
	CommissionWindowEndsAt *time.Time `json:"commission_window_ends_at,omitempty" db:"commission_window_ends_at"`
	TotalCommissionEarned  int64      `json:"total_commission_earned" db:"total_commission_earned"`
	JobsCompleted          int64      `json:"jobs_completed" db:"jobs_completed"`
	Version                int64      `json:"-" db:"version"`
	CreatedAt              time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at" db:"updated_at"`
}

// Partner earns commission on the bookings of the clients it referred.
type Partner struct {
	ID             string    `json:"id" db:"id"`
	CommissionRate string    `json:"commission_rate" db:"commission_rate"` // Decimal fraction, e.g. "0.05"
	TotalEarnings  int64     `json:"total_earnings" db:"total_earnings"`
	PendingPayout  int64     `json:"pending_payout" db:"pending_payout"`
	JobsCompleted  int64     `json:"jobs_completed" db:"jobs_completed"`
	Version        int64     `json:"-" db:"version"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// PartnerCommission is the commission earned on one completed booking.
type PartnerCommission struct {
	ID               string    `json:"id" db:"id"` // partner_comm_{bookingId}
	PartnerID        string    `json:"partner_id" db:"partner_id"`
	ReferralID       string    `json:"referral_id" db:"referral_id"`
	BookingID        string    `json:"booking_id" db:"booking_id"`
	ClientID         string    `json:"client_id" db:"client_id"`
	JobAmount        int64     `json:"job_amount" db:"job_amount"`
	CommissionRate   string    `json:"commission_rate" db:"commission_rate"`
	CommissionAmount int64     `json:"commission_amount" db:"commission_amount"`
	Status           string    `json:"status" db:"status"`
	ReferralCounted  bool      `json:"-" db:"referral_counted"` // Added to the referral's counters
	PartnerCounted   bool      `json:"-" db:"partner_counted"`  // Added to the partner's counters
	Version          int64     `json:"-" db:"version"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// Counted reports whether both counter updates were applied.
func (c *PartnerCommission) Counted() bool {
	return c.ReferralCounted && c.PartnerCounted
}

// CommissionID is the idempotency key of the commission for bookingID.
func CommissionID(bookingID string) string {
	return "partner_comm_" + bookingID
}

// CommissionResult is returned by the commission engine.
type CommissionResult struct {
	BookingID        string `json:"booking_id"`
	PartnerID        string `json:"partner_id,omitempty"`
	CommissionAmount int64  `json:"commission_amount"`
	AlreadyProcessed bool   `json:"already_processed"`
	Skipped          string `json:"skipped,omitempty"` // Reason no commission was earned
}
