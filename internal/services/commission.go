package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sbilibin2017/gw-escrow-settlement/internal/logger"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/models"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=commission.go -destination=commission_mock.go -package=services

// ReferralRepository persists referrals.
type ReferralRepository interface {
	GetActiveByClient(ctx context.Context, clientID string) (*models.Referral, error)
	Get(ctx context.Context, id string) (*models.Referral, error)
	Update(ctx context.Context, ref *models.Referral) error
}

// PartnerRepository persists partners.
type PartnerRepository interface {
	Get(ctx context.Context, id string) (*models.Partner, error)
	Update(ctx context.Context, p *models.Partner) error
}

// CommissionRepository persists partner commissions keyed by booking.
type CommissionRepository interface {
	Create(ctx context.Context, c *models.PartnerCommission) error
	Get(ctx context.Context, id string) (*models.PartnerCommission, error)
	Update(ctx context.Context, c *models.PartnerCommission) error
}

// Reasons a completed booking earns no commission.
const (
	SkipNoReferral     = "no active referral"
	SkipWindowExpired  = "commission window expired"
	SkipZeroCommission = "commission rounds to zero"
)

// CommissionService pays partners a share of the bookings completed by the
// clients they referred, during a window that opens on the first completed job.
type CommissionService struct {
	referrals   ReferralRepository
	partners    PartnerRepository
	commissions CommissionRepository
	window      time.Duration
	now         func() time.Time
}

// NewCommissionService creates a CommissionService. windowDays is the length
// of the earning window.
func NewCommissionService(
	referrals ReferralRepository,
	partners PartnerRepository,
	commissions CommissionRepository,
	windowDays int,
) *CommissionService {
	return &CommissionService{
		referrals:   referrals,
		partners:    partners,
		commissions: commissions,
		window:      time.Duration(windowDays) * 24 * time.Hour,
		now:         time.Now,
	}
}

// ProcessCommission records the commission earned on a completed booking.
// It is safe to call repeatedly for the same booking: the commission record
// keyed by the booking is created once and later calls return its amount,
// finishing any counter update the creating call did not mark as applied.
func (s *CommissionService) ProcessCommission(ctx context.Context, bookingID, clientID string, jobAmount int64) (*models.CommissionResult, error) {
	if bookingID == "" || clientID == "" || jobAmount <= 0 {
		return nil, ErrInvalidInput
	}
	result := &models.CommissionResult{BookingID: bookingID}

	recorded, err := s.commissions.Get(ctx, models.CommissionID(bookingID))
	if err == nil {
		if !recorded.Counted() {
			if err := s.applyCounters(ctx, recorded); err != nil {
				return nil, err
			}
		}
		result.PartnerID = recorded.PartnerID
		result.CommissionAmount = recorded.CommissionAmount
		result.AlreadyProcessed = true
		return result, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	ref, err := s.referrals.GetActiveByClient(ctx, clientID)
	if errors.Is(err, models.ErrNotFound) {
		result.Skipped = SkipNoReferral
		return result, nil
	}
	if err != nil {
		return nil, err
	}
	result.PartnerID = ref.PartnerID

	now := s.now().UTC()
	ref, err = s.updateReferral(ctx, ref, func(r *models.Referral) (bool, error) {
		if r.Status != models.ReferralActive {
			return false, nil
		}
		if r.CommissionWindowEndsAt == nil {
			ends := now.Add(s.window)
			r.FirstCompletedJobAt = &now
			r.CommissionWindowEndsAt = &ends
			return true, nil
		}
		if now.After(*r.CommissionWindowEndsAt) {
			r.Status = models.ReferralExpired
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	if ref.Status != models.ReferralActive {
		logger.Log.Infow("referral no longer earns commission", "referral_id", ref.ID, "status", ref.Status, "booking_id", bookingID)
		result.Skipped = SkipNoReferral
		if ref.Status == models.ReferralExpired {
			result.Skipped = SkipWindowExpired
		}
		return result, nil
	}

	partner, err := s.partners.Get(ctx, ref.PartnerID)
	if err != nil {
		return nil, err
	}
	rate, err := decimal.NewFromString(partner.CommissionRate)
	if err != nil {
		return nil, fmt.Errorf("partner %s has invalid commission rate %q: %w", partner.ID, partner.CommissionRate, err)
	}

	amount := decimal.NewFromInt(jobAmount).Mul(rate).Round(0).IntPart()
	if amount <= 0 {
		result.Skipped = SkipZeroCommission
		return result, nil
	}

	commission := &models.PartnerCommission{
		ID:               models.CommissionID(bookingID),
		PartnerID:        partner.ID,
		ReferralID:       ref.ID,
		BookingID:        bookingID,
		ClientID:         clientID,
		JobAmount:        jobAmount,
		CommissionRate:   rate.String(),
		CommissionAmount: amount,
		Status:           models.CommissionPending,
		CreatedAt:        now,
	}
	if err := s.commissions.Create(ctx, commission); err != nil {
		if !errors.Is(err, models.ErrAlreadyExists) {
			return nil, err
		}
		recorded, err := s.commissions.Get(ctx, commission.ID)
		if err != nil {
			return nil, err
		}
		result.CommissionAmount = recorded.CommissionAmount
		result.AlreadyProcessed = true
		return result, nil
	}

	// the creator applies the counters; a lost race leaves them to the creator
	if err := s.applyCounters(ctx, commission); err != nil {
		return nil, err
	}

	logger.Log.Infow("commission recorded", "booking_id", bookingID, "partner_id", partner.ID, "amount", amount)
	result.CommissionAmount = amount
	return result, nil
}

// applyCounters adds c to the referral and partner counters it has not been
// counted against yet, marking each one on the record once applied. A failure
// leaves the mark unset so the next ProcessCommission for the booking retries it.
func (s *CommissionService) applyCounters(ctx context.Context, c *models.PartnerCommission) error {
	if !c.ReferralCounted {
		err := s.countReferral(ctx, c)
		if err == nil {
			err = s.markCounted(ctx, c, func(m *models.PartnerCommission) { m.ReferralCounted = true })
		}
		if err != nil {
			logger.Log.DPanicw("referral counters not updated for recorded commission",
				"commission_id", c.ID, "referral_id", c.ReferralID, "booking_id", c.BookingID, "error", err)
			return err
		}
	}
	if !c.PartnerCounted {
		err := s.countPartner(ctx, c)
		if err == nil {
			err = s.markCounted(ctx, c, func(m *models.PartnerCommission) { m.PartnerCounted = true })
		}
		if err != nil {
			logger.Log.DPanicw("partner counters not updated for recorded commission",
				"commission_id", c.ID, "partner_id", c.PartnerID, "booking_id", c.BookingID, "error", err)
			return err
		}
	}
	return nil
}

func (s *CommissionService) countReferral(ctx context.Context, c *models.PartnerCommission) error {
	ref, err := s.referrals.Get(ctx, c.ReferralID)
	if err != nil {
		return err
	}
	_, err = s.updateReferral(ctx, ref, func(r *models.Referral) (bool, error) {
		r.TotalCommissionEarned += c.CommissionAmount
		r.JobsCompleted++
		return true, nil
	})
	return err
}

func (s *CommissionService) countPartner(ctx context.Context, c *models.PartnerCommission) error {
	partner, err := s.partners.Get(ctx, c.PartnerID)
	if err != nil {
		return err
	}
	return s.updatePartner(ctx, partner, c.CommissionAmount)
}

// markCounted applies mark to the stored commission and copies the result
// back into c, re-reading on version conflicts.
func (s *CommissionService) markCounted(ctx context.Context, c *models.PartnerCommission, mark func(m *models.PartnerCommission)) error {
	current := c
	for attempt := 0; attempt < defaultMaxRetries; attempt++ {
		updated := *current
		mark(&updated)

		err := s.commissions.Update(ctx, &updated)
		if err == nil {
			*c = updated
			return nil
		}
		if !errors.Is(err, models.ErrVersionConflict) {
			return err
		}
		if current, err = s.commissions.Get(ctx, c.ID); err != nil {
			return err
		}
	}
	return fmt.Errorf("%w: commission %s", ErrConcurrentUpdate, c.ID)
}

// updateReferral applies fn to ref and writes it back when fn reports a
// change, re-reading on version conflicts.
func (s *CommissionService) updateReferral(ctx context.Context, ref *models.Referral, fn func(r *models.Referral) (bool, error)) (*models.Referral, error) {
	for attempt := 0; attempt < defaultMaxRetries; attempt++ {
		updated := *ref
		changed, err := fn(&updated)
		if err != nil {
			return nil, err
		}
		if !changed {
			return ref, nil
		}
		updated.UpdatedAt = s.now().UTC()

		err = s.referrals.Update(ctx, &updated)
		if err == nil {
			return &updated, nil
		}
		if !errors.Is(err, models.ErrVersionConflict) {
			return nil, err
		}
		if ref, err = s.referrals.Get(ctx, ref.ID); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: referral %s", ErrConcurrentUpdate, ref.ID)
}

func (s *CommissionService) updatePartner(ctx context.Context, p *models.Partner, amount int64) error {
	for attempt := 0; attempt < defaultMaxRetries; attempt++ {
		updated := *p
		updated.TotalEarnings += amount
		updated.PendingPayout += amount
		updated.JobsCompleted++
		updated.UpdatedAt = s.now().UTC()

		err := s.partners.Update(ctx, &updated)
		if err == nil {
			return nil
		}
		if !errors.Is(err, models.ErrVersionConflict) {
			return err
		}
		if p, err = s.partners.Get(ctx, p.ID); err != nil {
			return err
		}
	}
	return fmt.Errorf("%w: partner %s", ErrConcurrentUpdate, p.ID)
}
