package repositories

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/logger"
)

// Schema lists the DDL statements of the ledger store. Every statement is idempotent.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS wallets (
		user_id TEXT PRIMARY KEY,
		available_balance BIGINT NOT NULL DEFAULT 0 CHECK (available_balance >= 0),
		pending_balance BIGINT NOT NULL DEFAULT 0 CHECK (pending_balance >= 0),
		escrow BIGINT NOT NULL DEFAULT 0 CHECK (escrow >= 0),
		total_deposits BIGINT NOT NULL DEFAULT 0,
		total_spent BIGINT NOT NULL DEFAULT 0,
		total_withdrawn BIGINT NOT NULL DEFAULT 0,
		transaction_limit BIGINT NOT NULL DEFAULT 0,
		daily_spend_limit BIGINT NOT NULL DEFAULT 0,
		monthly_spend_limit BIGINT NOT NULL DEFAULT 0,
		current_daily_spent BIGINT NOT NULL DEFAULT 0,
		current_monthly_spent BIGINT NOT NULL DEFAULT 0,
		last_reset_date TIMESTAMPTZ NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		version BIGINT NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS escrow_transactions (
		booking_id TEXT PRIMARY KEY,
		client_id TEXT NOT NULL,
		worker_id TEXT NOT NULL,
		amount BIGINT NOT NULL CHECK (amount > 0),
		platform_fee BIGINT NOT NULL DEFAULT 0,
		worker_amount BIGINT NOT NULL,
		status TEXT NOT NULL,
		provider_reference TEXT NOT NULL DEFAULT '',
		triggered_by TEXT NOT NULL DEFAULT '',
		refund_reason TEXT NOT NULL DEFAULT '',
		version BIGINT NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		released_at TIMESTAMPTZ,
		refunded_at TIMESTAMPTZ
	);`,
	`CREATE INDEX IF NOT EXISTS escrow_transactions_status_idx ON escrow_transactions (status, created_at, booking_id);`,
	`CREATE TABLE IF NOT EXISTS wallet_transactions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		wallet_id TEXT NOT NULL,
		type TEXT NOT NULL,
		amount BIGINT NOT NULL,
		reference TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		metadata JSONB NOT NULL DEFAULT '{}',
		version BIGINT NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS wallet_transactions_user_idx ON wallet_transactions (user_id, created_at DESC);`,
	`CREATE TABLE IF NOT EXISTS auto_release_rules (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		trigger TEXT NOT NULL,
		conditions JSONB NOT NULL,
		enabled BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS auto_release_logs (
		id TEXT PRIMARY KEY,
		booking_id TEXT NOT NULL,
		rule_id TEXT NOT NULL,
		outcome TEXT NOT NULL,
		message TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS partners (
		id TEXT PRIMARY KEY,
		commission_rate NUMERIC(6,4) NOT NULL,
		total_earnings BIGINT NOT NULL DEFAULT 0,
		pending_payout BIGINT NOT NULL DEFAULT 0,
		jobs_completed BIGINT NOT NULL DEFAULT 0,
		version BIGINT NOT NULL DEFAULT 1,
		updated_at TIMESTAMPTZ NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS referrals (
		id TEXT PRIMARY KEY,
		client_id TEXT NOT NULL,
		partner_id TEXT NOT NULL REFERENCES partners(id),
		status TEXT NOT NULL,
		first_completed_job_at TIMESTAMPTZ,
		commission_window_ends_at TIMESTAMPTZ,
		total_commission_earned BIGINT NOT NULL DEFAULT 0,
		jobs_completed BIGINT NOT NULL DEFAULT 0,
		version BIGINT NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS referrals_client_idx ON referrals (client_id);`,
	`CREATE TABLE IF NOT EXISTS partner_commissions (
		id TEXT PRIMARY KEY,
		partner_id TEXT NOT NULL,
		referral_id TEXT NOT NULL,
		booking_id TEXT NOT NULL,
		client_id TEXT NOT NULL,
		job_amount BIGINT NOT NULL,
		commission_rate NUMERIC(6,4) NOT NULL,
		commission_amount BIGINT NOT NULL,
		status TEXT NOT NULL,
		referral_counted BOOLEAN NOT NULL DEFAULT FALSE,
		partner_counted BOOLEAN NOT NULL DEFAULT FALSE,
		version BIGINT NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL
	);`,
	`ALTER TABLE partner_commissions ADD COLUMN IF NOT EXISTS referral_counted BOOLEAN NOT NULL DEFAULT FALSE;`,
	`ALTER TABLE partner_commissions ADD COLUMN IF NOT EXISTS partner_counted BOOLEAN NOT NULL DEFAULT FALSE;`,
	`ALTER TABLE partner_commissions ADD COLUMN IF NOT EXISTS version BIGINT NOT NULL DEFAULT 1;`,
	`CREATE TABLE IF NOT EXISTS withdrawals (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		amount BIGINT NOT NULL CHECK (amount > 0),
		bank_account_id TEXT NOT NULL,
		account_number TEXT NOT NULL DEFAULT '',
		bank_code TEXT NOT NULL DEFAULT '',
		account_name TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		reference TEXT NOT NULL UNIQUE,
		transfer_code TEXT NOT NULL DEFAULT '',
		failure_reason TEXT NOT NULL DEFAULT '',
		version BIGINT NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id TEXT PRIMARY KEY,
		client_id TEXT NOT NULL,
		worker_id TEXT NOT NULL,
		status TEXT NOT NULL,
		payment_status TEXT NOT NULL DEFAULT '',
		amount BIGINT NOT NULL,
		completed_at TIMESTAMPTZ,
		client_confirmed_at TIMESTAMPTZ,
		updated_at TIMESTAMPTZ NOT NULL
	);`,
}

// Migrate applies Schema.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range Schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			logger.Log.Errorw("migration failed", "statement", compact(stmt), "error", err)
			return err
		}
	}
	return nil
}

// compact collapses whitespace so queries log on one line.
func compact(query string) string {
	return strings.Join(strings.Fields(query), " ")
}

// logQuery logs a statement with its arguments and outcome.
func logQuery(query string, args []any, err error) {
	logger.Log.Debugw("query executed",
		"query", compact(query),
		"args", args,
		"error", err,
	)
}
