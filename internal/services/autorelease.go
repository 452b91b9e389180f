package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/logger"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/models"
)

//go:generate mockgen -source=autorelease.go -destination=autorelease_mock.go -package=services

// RuleRepository reads auto-release rules.
type RuleRepository interface {
	ListEnabled(ctx context.Context) ([]models.AutoReleaseRule, error)
	Create(ctx context.Context, rule *models.AutoReleaseRule) error
}

// AutoReleaseLogRepository appends evaluation outcomes.
type AutoReleaseLogRepository interface {
	Create(ctx context.Context, entry *models.AutoReleaseLog) error
}

// EscrowSettler releases or refunds escrow and reports whether automatic
// processing may run.
type EscrowSettler interface {
	ReleaseFunds(ctx context.Context, bookingID, triggeredBy string) (*models.SettlementResult, error)
	RefundFunds(ctx context.Context, bookingID, reason string) (*models.SettlementResult, error)
	Halted() bool
}

// Decision is the verdict of the rules on one held escrow.
type Decision struct {
	Eligible  bool      // Release now
	Cancelled bool      // The booking was called off, refund instead
	RuleID    string    // Rule that decided, empty when none applies
	ReleaseAt time.Time // Deadline of a scheduled release, zero otherwise
	Reason    string
}

type scheduledRule struct {
	rule     models.AutoReleaseRule
	deadline time.Time
}

// Decide evaluates rules against a held escrow and its booking at now.
// booking may be nil when the booking source has no record; then only
// time_based rules apply.
//
// A time_based rule releases unconditionally once the escrow was held for
// maxHoldDuration hours. A status_based rule with autoReleaseAfterHours 0
// releases as soon as its status (and confirmation) conditions hold, and a
// hybrid rule with autoReleaseAfterHours 0 as soon as the booking completed.
// Among the remaining scheduled rules the one with the smallest
// autoReleaseAfterHours decides, with its grace period added to the deadline.
func Decide(rules []models.AutoReleaseRule, escrow *models.EscrowTransaction, booking *models.Booking, now time.Time) Decision {
	if booking != nil && (booking.Status == models.BookingCancelled || booking.PaymentStatus == models.PaymentRefunded) {
		return Decision{Cancelled: true, Reason: "booking " + booking.Status}
	}

	var (
		valve     *scheduledRule
		scheduled []scheduledRule
	)
	for _, rule := range sortedRules(rules) {
		if !rule.Enabled {
			continue
		}
		c := rule.Conditions

		switch rule.Trigger {
		case models.TriggerTimeBased:
			if c.MaxHoldDuration <= 0 {
				continue
			}
			if escrow.HoursHeld(now) >= c.MaxHoldDuration {
				return Decision{Eligible: true, RuleID: rule.ID, Reason: fmt.Sprintf("held for %d hours", escrow.HoursHeld(now))}
			}
			deadline := escrow.CreatedAt.Add(time.Duration(c.MaxHoldDuration) * time.Hour)
			if valve == nil || deadline.Before(valve.deadline) {
				valve = &scheduledRule{rule: rule, deadline: deadline}
			}

		case models.TriggerStatusBased:
			if !statusMatches(c, booking) {
				continue
			}
			if c.RequireClientConfirmation && (booking.CompletedAt == nil || booking.ClientConfirmedAt == nil) {
				continue
			}
			if c.AutoReleaseAfterHours == 0 {
				return Decision{Eligible: true, RuleID: rule.ID, Reason: "booking " + booking.Status}
			}
			if since := completionTime(booking); since != nil {
				scheduled = append(scheduled, scheduledRule{rule: rule, deadline: deadlineAfter(*since, c)})
			}

		case models.TriggerHybrid:
			if !statusMatches(c, booking) || booking.CompletedAt == nil {
				continue
			}
			if c.AutoReleaseAfterHours == 0 {
				return Decision{Eligible: true, RuleID: rule.ID, Reason: "booking completed"}
			}
			scheduled = append(scheduled, scheduledRule{rule: rule, deadline: deadlineAfter(*booking.CompletedAt, c)})
		}
	}

	if len(scheduled) > 0 {
		winner := scheduled[0]
		for _, sr := range scheduled[1:] {
			if sr.rule.Conditions.AutoReleaseAfterHours < winner.rule.Conditions.AutoReleaseAfterHours {
				winner = sr
			}
		}
		if !now.Before(winner.deadline) {
			return Decision{Eligible: true, RuleID: winner.rule.ID, Reason: "release deadline reached"}
		}
		if valve == nil || winner.deadline.Before(valve.deadline) {
			return Decision{RuleID: winner.rule.ID, ReleaseAt: winner.deadline, Reason: "scheduled"}
		}
	}
	if valve != nil {
		return Decision{RuleID: valve.rule.ID, ReleaseAt: valve.deadline, Reason: "scheduled by max hold duration"}
	}
	return Decision{Reason: "no rule applies"}
}

func sortedRules(rules []models.AutoReleaseRule) []models.AutoReleaseRule {
	out := append([]models.AutoReleaseRule(nil), rules...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func statusMatches(c models.RuleConditions, b *models.Booking) bool {
	if b == nil {
		return false
	}
	required := c.RequiredStatus
	if required == "" {
		required = models.BookingCompleted
	}
	return b.Status == required
}

// completionTime is the moment the booking counts as done for status rules.
func completionTime(b *models.Booking) *time.Time {
	if b.ClientConfirmedAt != nil {
		return b.ClientConfirmedAt
	}
	return b.CompletedAt
}

func deadlineAfter(since time.Time, c models.RuleConditions) time.Time {
	return since.Add(time.Duration(c.AutoReleaseAfterHours+c.GracePeriodHours) * time.Hour)
}

// EvaluationSummary counts the outcomes of one evaluation pass.
type EvaluationSummary struct {
	Evaluated int  `json:"evaluated"`
	Released  int  `json:"released"`
	Scheduled int  `json:"scheduled"`
	Cancelled int  `json:"cancelled"`
	Failed    int  `json:"failed"`
	Halted    bool `json:"halted"`
}

// AutoReleaseEvaluator releases held escrow that the configured rules make
// eligible and refunds the escrow of cancelled bookings. It relies on the
// engine's idempotency, so passes may overlap.
type AutoReleaseEvaluator struct {
	rules     RuleRepository
	logs      AutoReleaseLogRepository
	escrows   EscrowRepository
	bookings  BookingSource
	engine    EscrowSettler
	batchSize int
	now       func() time.Time
}

// NewAutoReleaseEvaluator creates an AutoReleaseEvaluator that reads held
// escrows in pages of batchSize.
func NewAutoReleaseEvaluator(
	rules RuleRepository,
	logs AutoReleaseLogRepository,
	escrows EscrowRepository,
	bookings BookingSource,
	engine EscrowSettler,
	batchSize int,
) *AutoReleaseEvaluator {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &AutoReleaseEvaluator{
		rules:     rules,
		logs:      logs,
		escrows:   escrows,
		bookings:  bookings,
		engine:    engine,
		batchSize: batchSize,
		now:       time.Now,
	}
}

// SeedDefaultRules installs the default rules when no rule is enabled.
func (e *AutoReleaseEvaluator) SeedDefaultRules(ctx context.Context) error {
	rules, err := e.rules.ListEnabled(ctx)
	if err != nil {
		return err
	}
	if len(rules) > 0 {
		return nil
	}

	for _, rule := range models.DefaultAutoReleaseRules(e.now().UTC()) {
		if err := e.rules.Create(ctx, &rule); err != nil && !errors.Is(err, models.ErrAlreadyExists) {
			return err
		}
		logger.Log.Infow("auto-release rule seeded", "rule_id", rule.ID, "trigger", rule.Trigger)
	}
	return nil
}

// EvaluateAutoReleases runs one pass over every held escrow, reading them
// page by page. Failed settlements are logged and left for the next pass.
// The pass stops early when the engine reports an inconsistency.
func (e *AutoReleaseEvaluator) EvaluateAutoReleases(ctx context.Context) (*EvaluationSummary, error) {
	summary := &EvaluationSummary{}
	if e.engine.Halted() {
		summary.Halted = true
		return summary, ErrEngineHalted
	}

	rules, err := e.rules.ListEnabled(ctx)
	if err != nil {
		logger.Log.Errorw("failed to load auto-release rules", "error", err)
		return nil, err
	}
	if len(rules) == 0 {
		return summary, nil
	}

	var after models.EscrowCursor
	for {
		page, err := e.escrows.ListByStatus(ctx, models.EscrowHeld, after, e.batchSize)
		if err != nil {
			logger.Log.Errorw("failed to list held escrows", "error", err)
			return nil, err
		}

		for i := range page {
			if err := e.evaluate(ctx, rules, &page[i], summary); err != nil {
				return summary, err
			}
		}
		if len(page) < e.batchSize {
			break
		}
		after = page[len(page)-1].Cursor()
	}

	logger.Log.Infow("auto-release pass finished",
		"evaluated", summary.Evaluated, "released", summary.Released, "scheduled", summary.Scheduled,
		"cancelled", summary.Cancelled, "failed", summary.Failed)
	return summary, nil
}

// evaluate decides one held escrow and acts on the decision. It returns an
// error only when the pass must stop.
func (e *AutoReleaseEvaluator) evaluate(ctx context.Context, rules []models.AutoReleaseRule, escrow *models.EscrowTransaction, summary *EvaluationSummary) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if e.engine.Halted() {
		summary.Halted = true
		return ErrEngineHalted
	}
	summary.Evaluated++

	booking, err := e.bookings.GetBooking(ctx, escrow.BookingID)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			logger.Log.Warnw("failed to read booking, applying time rules only", "booking_id", escrow.BookingID, "error", err)
		}
		booking = nil
	}

	now := e.now().UTC()
	d := Decide(rules, escrow, booking, now)

	switch {
	case d.Cancelled:
		_, err := e.engine.RefundFunds(ctx, escrow.BookingID, d.Reason)
		if err != nil {
			return e.failed(ctx, summary, escrow.BookingID, d, err, now)
		}
		summary.Cancelled++
		e.record(ctx, "cancelled_"+escrow.BookingID, escrow.BookingID, d.RuleID, models.OutcomeCancelled, d.Reason, now)

	case d.Eligible:
		_, err := e.engine.ReleaseFunds(ctx, escrow.BookingID, "auto_release:"+d.RuleID)
		if err != nil {
			return e.failed(ctx, summary, escrow.BookingID, d, err, now)
		}
		summary.Released++
		e.record(ctx, "released_"+escrow.BookingID, escrow.BookingID, d.RuleID, models.OutcomeReleased, d.Reason, now)

	case d.RuleID != "":
		summary.Scheduled++
		msg := "release scheduled at " + d.ReleaseAt.Format(time.RFC3339)
		e.record(ctx, fmt.Sprintf("scheduled_%s_%s", escrow.BookingID, d.RuleID), escrow.BookingID, d.RuleID, models.OutcomeScheduled, msg, now)
	}
	return nil
}

// failed logs a settlement the engine refused. Only an inconsistency stops the pass.
func (e *AutoReleaseEvaluator) failed(ctx context.Context, summary *EvaluationSummary, bookingID string, d Decision, err error, now time.Time) error {
	summary.Failed++
	logger.Log.Errorw("auto-release settlement failed", "booking_id", bookingID, "rule_id", d.RuleID, "cancelled", d.Cancelled, "error", err)
	e.record(ctx, uuid.NewString(), bookingID, d.RuleID, models.OutcomeFailed, err.Error(), now)
	if errors.Is(err, ErrSettlementInconsistency) {
		summary.Halted = true
		return err
	}
	return nil
}

// record appends a log entry. Entries with deterministic ids are written once.
func (e *AutoReleaseEvaluator) record(ctx context.Context, id, bookingID, ruleID, outcome, message string, now time.Time) {
	err := e.logs.Create(ctx, &models.AutoReleaseLog{
		ID:        id,
		BookingID: bookingID,
		RuleID:    ruleID,
		Outcome:   outcome,
		Message:   message,
		CreatedAt: now,
	})
	if err != nil && !errors.Is(err, models.ErrAlreadyExists) {
		logger.Log.Errorw("failed to write auto-release log", "booking_id", bookingID, "outcome", outcome, "error", err)
	}
}
