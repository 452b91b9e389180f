package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/models"
)

const ledgerColumns = `id, user_id, wallet_id, type, amount, reference, status, metadata, version, created_at`

// LedgerRepository stores wallet transactions in PostgreSQL.
type LedgerRepository struct {
	db *sqlx.DB
}

// NewLedgerRepository creates a LedgerRepository.
func NewLedgerRepository(db *sqlx.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// Create inserts entry. A collision on the idempotency id returns models.ErrAlreadyExists.
func (r *LedgerRepository) Create(ctx context.Context, entry *models.WalletTransaction) error {
	query := `
		INSERT INTO wallet_transactions (` + ledgerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 1, $9)
		ON CONFLICT (id) DO NOTHING
	`
	args := []any{
		entry.ID, entry.UserID, entry.WalletID, entry.Type, entry.Amount,
		entry.Reference, entry.Status, entry.Metadata, entry.CreatedAt,
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	logQuery(query, args, err)
	if err != nil {
		return err
	}
	if err := expectOneRow(res, models.ErrAlreadyExists); err != nil {
		return err
	}
	entry.Version = 1
	return nil
}

// Get returns the entry with the given id or models.ErrNotFound.
func (r *LedgerRepository) Get(ctx context.Context, id string) (*models.WalletTransaction, error) {
	query := `SELECT ` + ledgerColumns + ` FROM wallet_transactions WHERE id = $1`

	var entry models.WalletTransaction
	err := r.db.GetContext(ctx, &entry, query, id)
	logQuery(query, []any{id}, err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// UpdateStatus changes the status of an entry under an optimistic version check.
// Amount and owner never change.
func (r *LedgerRepository) UpdateStatus(ctx context.Context, entry *models.WalletTransaction) error {
	query := `UPDATE wallet_transactions SET status = $3, metadata = $4, version = version + 1 WHERE id = $1 AND version = $2`
	args := []any{entry.ID, entry.Version, entry.Status, entry.Metadata}

	res, err := r.db.ExecContext(ctx, query, args...)
	logQuery(query, args, err)
	if err != nil {
		return err
	}
	if err := expectOneRow(res, models.ErrVersionConflict); err != nil {
		return err
	}
	entry.Version++
	return nil
}

// ListByUser returns the newest entries of userID.
func (r *LedgerRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.WalletTransaction, error) {
	query := `SELECT ` + ledgerColumns + ` FROM wallet_transactions WHERE user_id = $1 ORDER BY created_at DESC, id LIMIT $2`

	var rows []models.WalletTransaction
	err := r.db.SelectContext(ctx, &rows, query, userID, limit)
	logQuery(query, []any{userID, limit}, err)
	return rows, err
}
