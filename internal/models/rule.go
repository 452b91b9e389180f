package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Auto-release triggers.
const (
	TriggerTimeBased   = "time_based"
	TriggerStatusBased = "status_based"
	TriggerHybrid      = "hybrid"
)

// Auto-release log outcomes.
const (
	OutcomeReleased  = "released"
	OutcomeScheduled = "scheduled"
	OutcomeCancelled = "cancelled"
	OutcomeFailed    = "failed"
)

// RuleConditions is the optional condition set of a rule.
type RuleConditions struct {
	AutoReleaseAfterHours     int    `json:"auto_release_after_hours"`    // Hours after completion, 0 means immediately
	MaxHoldDuration           int    `json:"max_hold_duration"`           // Hours since the hold, used by time_based
	RequiredStatus            string `json:"required_status"`             // Booking status the rule waits for
	RequireClientConfirmation bool   `json:"require_client_confirmation"` // Client must have confirmed completion
	GracePeriodHours          int    `json:"grace_period_hours"`          // Extra hours added to scheduled deadlines
}

// Value implements driver.Valuer.
func (c RuleConditions) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// Scan implements sql.Scanner.
func (c *RuleConditions) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	case nil:
		*c = RuleConditions{}
		return nil
	default:
		return errors.New("rule conditions: unsupported source type")
	}
}

// AutoReleaseRule is static configuration read by the evaluator.
type AutoReleaseRule struct {
	ID         string         `json:"id" db:"id"`
	Name       string         `json:"name" db:"name"`
	Trigger    string         `json:"trigger" db:"trigger"`
	Conditions RuleConditions `json:"conditions" db:"conditions"`
	Enabled    bool           `json:"enabled" db:"enabled"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
}

// AutoReleaseLog records one evaluation outcome. Append-only.
type AutoReleaseLog struct {
	ID        string    `json:"id" db:"id"`
	BookingID string    `json:"booking_id" db:"booking_id"`
	RuleID    string    `json:"rule_id" db:"rule_id"`
	Outcome   string    `json:"outcome" db:"outcome"`
	Message   string    `json:"message" db:"message"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// DefaultAutoReleaseRules are seeded when the rule store is empty.
func DefaultAutoReleaseRules(now time.Time) []AutoReleaseRule {
	return []AutoReleaseRule{
		{
			ID:         "max-hold-safety-valve",
			Name:       "Release anything held for 30 days",
			Trigger:    TriggerTimeBased,
			Conditions: RuleConditions{MaxHoldDuration: 720},
			Enabled:    true,
			CreatedAt:  now,
		},
		{
			ID:      "confirmed-completion",
			Name:    "Release on client-confirmed completion",
			Trigger: TriggerStatusBased,
			Conditions: RuleConditions{
				RequiredStatus:            BookingCompleted,
				RequireClientConfirmation: true,
			},
			Enabled:   true,
			CreatedAt: now,
		},
		{
			ID:      "completed-72h",
			Name:    "Release 72 hours after completion",
			Trigger: TriggerHybrid,
			Conditions: RuleConditions{
				RequiredStatus:        BookingCompleted,
				AutoReleaseAfterHours: 72,
			},
			Enabled:   true,
			CreatedAt: now,
		},
	}
}
