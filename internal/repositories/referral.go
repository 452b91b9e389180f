package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/models"
)

const referralColumns = `id, client_id, partner_id, status, first_completed_job_at, commission_window_ends_at,
	total_commission_earned, jobs_completed, version, created_at, updated_at`

// ReferralRepository stores referrals in PostgreSQL.
type ReferralRepository struct {
	db *sqlx.DB
}

// NewReferralRepository creates a ReferralRepository.
func NewReferralRepository(db *sqlx.DB) *ReferralRepository {
	return &ReferralRepository{db: db}
}

// GetActiveByClient returns the active referral of clientID or models.ErrNotFound.
func (r *ReferralRepository) GetActiveByClient(ctx context.Context, clientID string) (*models.Referral, error) {
	query := `SELECT ` + referralColumns + ` FROM referrals WHERE client_id = $1 AND status = 'active'`

	var ref models.Referral
	err := r.db.GetContext(ctx, &ref, query, clientID)
	logQuery(query, []any{clientID}, err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

// Get returns the referral with id or models.ErrNotFound.
func (r *ReferralRepository) Get(ctx context.Context, id string) (*models.Referral, error) {
	query := `SELECT ` + referralColumns + ` FROM referrals WHERE id = $1`

	var ref models.Referral
	err := r.db.GetContext(ctx, &ref, query, id)
	logQuery(query, []any{id}, err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

// Create inserts ref or returns models.ErrAlreadyExists.
func (r *ReferralRepository) Create(ctx context.Context, ref *models.Referral) error {
	query := `
		INSERT INTO referrals (` + referralColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 1, $9, $10)
		ON CONFLICT DO NOTHING
	`
	args := []any{
		ref.ID, ref.ClientID, ref.PartnerID, ref.Status, ref.FirstCompletedJobAt, ref.CommissionWindowEndsAt,
		ref.TotalCommissionEarned, ref.JobsCompleted, ref.CreatedAt, ref.UpdatedAt,
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	logQuery(query, args, err)
	if err != nil {
		return err
	}
	if err := expectOneRow(res, models.ErrAlreadyExists); err != nil {
		return err
	}
	ref.Version = 1
	return nil
}

// Update writes ref under an optimistic version check.
func (r *ReferralRepository) Update(ctx context.Context, ref *models.Referral) error {
	query := `
		UPDATE referrals SET
			status = $3, first_completed_job_at = $4, commission_window_ends_at = $5,
			total_commission_earned = $6, jobs_completed = $7, updated_at = $8, version = version + 1
		WHERE id = $1 AND version = $2
	`
	args := []any{
		ref.ID, ref.Version,
		ref.Status, ref.FirstCompletedJobAt, ref.CommissionWindowEndsAt,
		ref.TotalCommissionEarned, ref.JobsCompleted, ref.UpdatedAt,
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	logQuery(query, args, err)
	if err != nil {
		return err
	}
	if err := expectOneRow(res, models.ErrVersionConflict); err != nil {
		return err
	}
	ref.Version++
	return nil
}

// PartnerRepository stores partners in PostgreSQL.
type PartnerRepository struct {
	db *sqlx.DB
}

// NewPartnerRepository creates a PartnerRepository.
func NewPartnerRepository(db *sqlx.DB) *PartnerRepository {
	return &PartnerRepository{db: db}
}

// Get returns the partner with id or models.ErrNotFound.
func (r *PartnerRepository) Get(ctx context.Context, id string) (*models.Partner, error) {
	query := `SELECT id, commission_rate::text AS commission_rate, total_earnings, pending_payout, jobs_completed, version, updated_at
		FROM partners WHERE id = $1`

	var p models.Partner
	err := r.db.GetContext(ctx, &p, query, id)
	logQuery(query, []any{id}, err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts p or returns models.ErrAlreadyExists.
func (r *PartnerRepository) Create(ctx context.Context, p *models.Partner) error {
	query := `
		INSERT INTO partners (id, commission_rate, total_earnings, pending_payout, jobs_completed, version, updated_at)
		VALUES ($1, $2, $3, $4, $5, 1, $6)
		ON CONFLICT (id) DO NOTHING
	`
	args := []any{p.ID, p.CommissionRate, p.TotalEarnings, p.PendingPayout, p.JobsCompleted, p.UpdatedAt}

	res, err := r.db.ExecContext(ctx, query, args...)
	logQuery(query, args, err)
	if err != nil {
		return err
	}
	if err := expectOneRow(res, models.ErrAlreadyExists); err != nil {
		return err
	}
	p.Version = 1
	return nil
}

// Update writes the counters of p under an optimistic version check.
func (r *PartnerRepository) Update(ctx context.Context, p *models.Partner) error {
	query := `
		UPDATE partners SET
			total_earnings = $3, pending_payout = $4, jobs_completed = $5, updated_at = $6, version = version + 1
		WHERE id = $1 AND version = $2
	`
	args := []any{p.ID, p.Version, p.TotalEarnings, p.PendingPayout, p.JobsCompleted, p.UpdatedAt}

	res, err := r.db.ExecContext(ctx, query, args...)
	logQuery(query, args, err)
	if err != nil {
		return err
	}
	if err := expectOneRow(res, models.ErrVersionConflict); err != nil {
		return err
	}
	p.Version++
	return nil
}

// CommissionRepository stores partner commissions in PostgreSQL.
type CommissionRepository struct {
	db *sqlx.DB
}

// NewCommissionRepository creates a CommissionRepository.
func NewCommissionRepository(db *sqlx.DB) *CommissionRepository {
	return &CommissionRepository{db: db}
}

// Create inserts c. Its id is derived from the booking, so a second
// commission for the same booking returns models.ErrAlreadyExists.
func (r *CommissionRepository) Create(ctx context.Context, c *models.PartnerCommission) error {
	query := `
		INSERT INTO partner_commissions (id, partner_id, referral_id, booking_id, client_id,
			job_amount, commission_rate, commission_amount, status, referral_counted, partner_counted, version, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 1, $12)
		ON CONFLICT (id) DO NOTHING
	`
	args := []any{
		c.ID, c.PartnerID, c.ReferralID, c.BookingID, c.ClientID,
		c.JobAmount, c.CommissionRate, c.CommissionAmount, c.Status,
		c.ReferralCounted, c.PartnerCounted, c.CreatedAt,
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	logQuery(query, args, err)
	if err != nil {
		return err
	}
	if err := expectOneRow(res, models.ErrAlreadyExists); err != nil {
		return err
	}
	c.Version = 1
	return nil
}

// Get returns the commission with id or models.ErrNotFound.
func (r *CommissionRepository) Get(ctx context.Context, id string) (*models.PartnerCommission, error) {
	query := `SELECT id, partner_id, referral_id, booking_id, client_id, job_amount,
		commission_rate::text AS commission_rate, commission_amount, status,
		referral_counted, partner_counted, version, created_at
		FROM partner_commissions WHERE id = $1`

	var c models.PartnerCommission
	err := r.db.GetContext(ctx, &c, query, id)
	logQuery(query, []any{id}, err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Update writes the status and counter marks of c under an optimistic version check.
func (r *CommissionRepository) Update(ctx context.Context, c *models.PartnerCommission) error {
	query := `
		UPDATE partner_commissions SET
			status = $3, referral_counted = $4, partner_counted = $5, version = version + 1
		WHERE id = $1 AND version = $2
	`
	args := []any{c.ID, c.Version, c.Status, c.ReferralCounted, c.PartnerCounted}

	res, err := r.db.ExecContext(ctx, query, args...)
	logQuery(query, args, err)
	if err != nil {
		return err
	}
	if err := expectOneRow(res, models.ErrVersionConflict); err != nil {
		return err
	}
	c.Version++
	return nil
}
