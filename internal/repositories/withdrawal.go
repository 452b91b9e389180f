package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/models"
)

const withdrawalColumns = `id, user_id, amount, bank_account_id, account_number, bank_code, account_name,
	status, reference, transfer_code, failure_reason, version, created_at, updated_at`

// WithdrawalRepository stores withdrawals in PostgreSQL.
type WithdrawalRepository struct {
	db *sqlx.DB
}

// NewWithdrawalRepository creates a WithdrawalRepository.
func NewWithdrawalRepository(db *sqlx.DB) *WithdrawalRepository {
	return &WithdrawalRepository{db: db}
}

// Create inserts w or returns models.ErrAlreadyExists when the id or reference is taken.
func (r *WithdrawalRepository) Create(ctx context.Context, w *models.Withdrawal) error {
	query := `
		INSERT INTO withdrawals (` + withdrawalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 1, $12, $13)
		ON CONFLICT DO NOTHING
	`
	args := []any{
		w.ID, w.UserID, w.Amount, w.BankAccountID, w.AccountNumber, w.BankCode, w.AccountName,
		w.Status, w.Reference, w.TransferCode, w.FailureReason, w.CreatedAt, w.UpdatedAt,
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

// Get returns the withdrawal with id or models.ErrNotFound.
func (r *WithdrawalRepository) Get(ctx context.Context, id string) (*models.Withdrawal, error) {
	return r.getBy(ctx, "id", id)
}

// GetByReference returns the withdrawal with the given transfer reference or models.ErrNotFound.
func (r *WithdrawalRepository) GetByReference(ctx context.Context, reference string) (*models.Withdrawal, error) {
	return r.getBy(ctx, "reference", reference)
}

func (r *WithdrawalRepository) getBy(ctx context.Context, column, value string) (*models.Withdrawal, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawals WHERE ` + column + ` = $1`

	var w models.Withdrawal
	err := r.db.GetContext(ctx, &w, query, value)
	logQuery(query, []any{value}, err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// Update writes the status fields of w under an optimistic version check.
func (r *WithdrawalRepository) Update(ctx context.Context, w *models.Withdrawal) error {
	query := `
		UPDATE withdrawals SET
			status = $3, transfer_code = $4, failure_reason = $5, updated_at = $6, version = version + 1
		WHERE id = $1 AND version = $2
	`
	args := []any{w.ID, w.Version, w.Status, w.TransferCode, w.FailureReason, w.UpdatedAt}

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
