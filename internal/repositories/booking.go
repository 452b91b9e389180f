package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/models"
)

// BookingRepository reads booking snapshots and writes back payment progress.
type BookingRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewBookingRepository creates a BookingRepository.
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db, now: time.Now}
}

// GetBooking returns the booking with id or models.ErrNotFound.
func (r *BookingRepository) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	query := `SELECT id, client_id, worker_id, status, payment_status, amount, completed_at, client_confirmed_at, updated_at
		FROM bookings WHERE id = $1`

	var b models.Booking
	err := r.db.GetContext(ctx, &b, query, id)
	logQuery(query, []any{id}, err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// UpdateStatus writes the non-empty fields of update.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, update models.BookingUpdate) error {
	query := `
		UPDATE bookings SET
			status = COALESCE(NULLIF($2, ''), status),
			payment_status = COALESCE(NULLIF($3, ''), payment_status),
			updated_at = $4
		WHERE id = $1
	`
	args := []any{id, update.Status, update.PaymentStatus, r.now().UTC()}

	res, err := r.db.ExecContext(ctx, query, args...)
	logQuery(query, args, err)
	if err != nil {
		return err
	}
	return expectOneRow(res, models.ErrNotFound)
}
