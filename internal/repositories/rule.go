package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/models"
)

// RuleRepository stores auto-release rules and their evaluation log in PostgreSQL.
type RuleRepository struct {
	db *sqlx.DB
}

// NewRuleRepository creates a RuleRepository.
func NewRuleRepository(db *sqlx.DB) *RuleRepository {
	return &RuleRepository{db: db}
}

// ListEnabled returns every enabled rule.
func (r *RuleRepository) ListEnabled(ctx context.Context) ([]models.AutoReleaseRule, error) {
	query := `SELECT id, name, trigger, conditions, enabled, created_at FROM auto_release_rules WHERE enabled ORDER BY id`

	var rules []models.AutoReleaseRule
	err := r.db.SelectContext(ctx, &rules, query)
	logQuery(query, nil, err)
	return rules, err
}

// Create inserts rule or returns models.ErrAlreadyExists.
func (r *RuleRepository) Create(ctx context.Context, rule *models.AutoReleaseRule) error {
	query := `
		INSERT INTO auto_release_rules (id, name, trigger, conditions, enabled, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`
	args := []any{rule.ID, rule.Name, rule.Trigger, rule.Conditions, rule.Enabled, rule.CreatedAt}

	res, err := r.db.ExecContext(ctx, query, args...)
	logQuery(query, args, err)
	if err != nil {
		return err
	}
	return expectOneRow(res, models.ErrAlreadyExists)
}

// AutoReleaseLogRepository appends evaluation outcomes in PostgreSQL.
type AutoReleaseLogRepository struct {
	db *sqlx.DB
}

// NewAutoReleaseLogRepository creates an AutoReleaseLogRepository.
func NewAutoReleaseLogRepository(db *sqlx.DB) *AutoReleaseLogRepository {
	return &AutoReleaseLogRepository{db: db}
}

// Create appends entry or returns models.ErrAlreadyExists for a known id.
func (r *AutoReleaseLogRepository) Create(ctx context.Context, entry *models.AutoReleaseLog) error {
	query := `
		INSERT INTO auto_release_logs (id, booking_id, rule_id, outcome, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`
	args := []any{entry.ID, entry.BookingID, entry.RuleID, entry.Outcome, entry.Message, entry.CreatedAt}

	res, err := r.db.ExecContext(ctx, query, args...)
	logQuery(query, args, err)
	if err != nil {
		return err
	}
	return expectOneRow(res, models.ErrAlreadyExists)
}

// ListByBooking returns the log of bookingID, oldest first.
func (r *AutoReleaseLogRepository) ListByBooking(ctx context.Context, bookingID string) ([]models.AutoReleaseLog, error) {
	query := `SELECT id, booking_id, rule_id, outcome, message, created_at FROM auto_release_logs WHERE booking_id = $1 ORDER BY created_at, id`

	var rows []models.AutoReleaseLog
	err := r.db.SelectContext(ctx, &rows, query, bookingID)
	logQuery(query, []any{bookingID}, err)
	return rows, err
}
