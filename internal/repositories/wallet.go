package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/models"
)

const walletColumns = `user_id, available_balance, pending_balance, escrow,
	total_deposits, total_spent, total_withdrawn,
	transaction_limit, daily_spend_limit, monthly_spend_limit,
	current_daily_spent, current_monthly_spent, last_reset_date,
	is_active, version, created_at, updated_at`

// WalletRepository stores wallets in PostgreSQL.
type WalletRepository struct {
	db *sqlx.DB
}

// NewWalletRepository creates a WalletRepository.
func NewWalletRepository(db *sqlx.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

// Get returns the wallet of userID or models.ErrNotFound.
func (r *WalletRepository) Get(ctx context.Context, userID string) (*models.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE user_id = $1`

	var w models.Wallet
	err := r.db.GetContext(ctx, &w, query, userID)
	logQuery(query, []any{userID}, err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// Create inserts w unless a wallet for the same user exists, in which case
// it returns models.ErrAlreadyExists.
func (r *WalletRepository) Create(ctx context.Context, w *models.Wallet) error {
	query := `
		INSERT INTO wallets (` + walletColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, 1, $15, $16)
		ON CONFLICT (user_id) DO NOTHING
	`
	args := []any{
		w.UserID, w.AvailableBalance, w.PendingBalance, w.Escrow,
		w.TotalDeposits, w.TotalSpent, w.TotalWithdrawn,
		w.TransactionLimit, w.DailySpendLimit, w.MonthlySpendLimit,
		w.CurrentDailySpent, w.CurrentMonthlySpent, w.LastResetDate,
		w.IsActive, w.CreatedAt, w.UpdatedAt,
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	logQuery(query, args, err)
	if err != nil {
		return err
	}
	if err := expectOneRow(res, models.ErrAlreadyExists); err != nil {
		return err
	}
	w.Version = 1
	return nil
}

// Update writes w if the stored version still equals w.Version and bumps the version.
func (r *WalletRepository) Update(ctx context.Context, w *models.Wallet) error {
	query := `
		UPDATE wallets SET
			available_balance = $3, pending_balance = $4, escrow = $5,
			total_deposits = $6, total_spent = $7, total_withdrawn = $8,
			transaction_limit = $9, daily_spend_limit = $10, monthly_spend_limit = $11,
			current_daily_spent = $12, current_monthly_spent = $13, last_reset_date = $14,
			is_active = $15, updated_at = $16, version = version + 1
		WHERE user_id = $1 AND version = $2
	`
	args := []any{
		w.UserID, w.Version,
		w.AvailableBalance, w.PendingBalance, w.Escrow,
		w.TotalDeposits, w.TotalSpent, w.TotalWithdrawn,
		w.TransactionLimit, w.DailySpendLimit, w.MonthlySpendLimit,
		w.CurrentDailySpent, w.CurrentMonthlySpent, w.LastResetDate,
		w.IsActive, w.UpdatedAt,
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	logQuery(query, args, err)
	if err != nil {
		return err
	}
	if err := expectOneRow(res, models.ErrVersionConflict); err != nil {
		return err
	}
	w.Version++
	return nil
}

// expectOneRow maps a zero-row write onto errNone.
func expectOneRow(res sql.Result, errNone error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errNone
	}
	return nil
}
