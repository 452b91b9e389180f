package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/models"
)

const escrowColumns = `booking_id, client_id, worker_id, amount, platform_fee, worker_amount,
	status, provider_reference, triggered_by, refund_reason, version,
	created_at, updated_at, released_at, refunded_at`

// EscrowRepository stores escrow transactions in PostgreSQL.
type EscrowRepository struct {
	db *sqlx.DB
}

// NewEscrowRepository creates an EscrowRepository.
func NewEscrowRepository(db *sqlx.DB) *EscrowRepository {
	return &EscrowRepository{db: db}
}

// Get returns the escrow of bookingID or models.ErrNotFound.
func (r *EscrowRepository) Get(ctx context.Context, bookingID string) (*models.EscrowTransaction, error) {
	query := `SELECT ` + escrowColumns + ` FROM escrow_transactions WHERE booking_id = $1`

	var e models.EscrowTransaction
	err := r.db.GetContext(ctx, &e, query, bookingID)
	logQuery(query, []any{bookingID}, err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts e; the booking id is the key, so a second escrow for the
// same booking fails with models.ErrAlreadyExists.
func (r *EscrowRepository) Create(ctx context.Context, e *models.EscrowTransaction) error {
	query := `
		INSERT INTO escrow_transactions (` + escrowColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 1, $11, $12, $13, $14)
		ON CONFLICT (booking_id) DO NOTHING
	`
	args := []any{
		e.BookingID, e.ClientID, e.WorkerID, e.Amount, e.PlatformFee, e.WorkerAmount,
		e.Status, e.ProviderReference, e.TriggeredBy, e.RefundReason,
		e.CreatedAt, e.UpdatedAt, e.ReleasedAt, e.RefundedAt,
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	logQuery(query, args, err)
	if err != nil {
		return err
	}
	if err := expectOneRow(res, models.ErrAlreadyExists); err != nil {
		return err
	}
	e.Version = 1
	return nil
}

// Update writes the mutable fields of e under an optimistic version check.
func (r *EscrowRepository) Update(ctx context.Context, e *models.EscrowTransaction) error {
	query := `
		UPDATE escrow_transactions SET
			status = $3, provider_reference = $4, triggered_by = $5, refund_reason = $6,
			updated_at = $7, released_at = $8, refunded_at = $9, version = version + 1
		WHERE booking_id = $1 AND version = $2
	`
	args := []any{
		e.BookingID, e.Version,
		e.Status, e.ProviderReference, e.TriggeredBy, e.RefundReason,
		e.UpdatedAt, e.ReleasedAt, e.RefundedAt,
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	logQuery(query, args, err)
	if err != nil {
		return err
	}
	if err := expectOneRow(res, models.ErrVersionConflict); err != nil {
		return err
	}
	e.Version++
	return nil
}

// Delete removes a still-pending escrow at the given version.
func (r *EscrowRepository) Delete(ctx context.Context, bookingID string, version int64) error {
	query := `DELETE FROM escrow_transactions WHERE booking_id = $1 AND version = $2 AND status = 'pending'`

	res, err := r.db.ExecContext(ctx, query, bookingID, version)
	logQuery(query, []any{bookingID, version}, err)
	if err != nil {
		return err
	}
	return expectOneRow(res, models.ErrVersionConflict)
}

// ListByStatus returns up to limit escrows with the given status that come
// after the cursor, ordered by creation time and booking id.
func (r *EscrowRepository) ListByStatus(ctx context.Context, status string, after models.EscrowCursor, limit int) ([]models.EscrowTransaction, error) {
	query := `SELECT ` + escrowColumns + ` FROM escrow_transactions
		WHERE status = $1 AND (created_at, booking_id) > ($2, $3)
		ORDER BY created_at, booking_id LIMIT $4`
	args := []any{status, after.CreatedAt, after.BookingID, limit}

	var rows []models.EscrowTransaction
	err := r.db.SelectContext(ctx, &rows, query, args...)
	logQuery(query, args, err)
	return rows, err
}
