package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sbilibin2017/gw-escrow-settlement/internal/logger"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/models"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=settlement.go -destination=settlement_mock.go -package=services

// EscrowRepository persists escrow transactions with optimistic updates.
type EscrowRepository interface {
	Get(ctx context.Context, bookingID string) (*models.EscrowTransaction, error)
	Create(ctx context.Context, e *models.EscrowTransaction) error
	Update(ctx context.Context, e *models.EscrowTransaction) error
	Delete(ctx context.Context, bookingID string, version int64) error // Only pending escrows can be deleted
	ListByStatus(ctx context.Context, status string, after models.EscrowCursor, limit int) ([]models.EscrowTransaction, error)
}

// BookingSource reads booking snapshots and writes back payment progress.
type BookingSource interface {
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	UpdateStatus(ctx context.Context, id string, update models.BookingUpdate) error
}

// Notifier delivers user notifications. Delivery is fire-and-forget.
type Notifier interface {
	Notify(ctx context.Context, n models.Notification)
}

// CommissionProcessor is told about every booking whose funds were released.
type CommissionProcessor interface {
	ProcessCommission(ctx context.Context, bookingID, clientID string, jobAmount int64) (*models.CommissionResult, error)
}

const maxLedgerLimit = 100

// HoldRequest commits client funds to a booking.
type HoldRequest struct {
	ClientID          string
	WorkerID          string
	BookingID         string
	Amount            int64
	PlatformFee       *int64 // Computed from the configured rate when nil
	ProviderReference string
}

// SettlementEngine moves money between client wallets, escrow records,
// worker wallets and the platform wallet. It is the only writer of wallets
// and escrow transactions.
type SettlementEngine struct {
	book        *Bookkeeper
	escrows     EscrowRepository
	bookings    BookingSource
	notifier    Notifier
	commissions CommissionProcessor
	feeBPS      int64
	now         func() time.Time

	mu         sync.RWMutex
	haltReason string
	onHalt     []func(halted bool)
}

// NewSettlementEngine creates a SettlementEngine. feeBPS is the platform fee in basis points.
func NewSettlementEngine(
	book *Bookkeeper,
	escrows EscrowRepository,
	bookings BookingSource,
	notifier Notifier,
	feeBPS int64,
) *SettlementEngine {
	return &SettlementEngine{
		book:     book,
		escrows:  escrows,
		bookings: bookings,
		notifier: notifier,
		feeBPS:   feeBPS,
		now:      time.Now,
	}
}

// SetCommissionProcessor makes the engine report released bookings to p.
func (s *SettlementEngine) SetCommissionProcessor(p CommissionProcessor) {
	s.commissions = p
}

// OnHaltChange registers fn to be called whenever the engine halts or resumes.
func (s *SettlementEngine) OnHaltChange(fn func(halted bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onHalt = append(s.onHalt, fn)
}

// Halted reports whether automatic processing is suspended after an inconsistency.
func (s *SettlementEngine) Halted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.haltReason != ""
}

// HaltReason returns the error that halted the engine, or "".
func (s *SettlementEngine) HaltReason() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.haltReason
}

// AcknowledgeInconsistency resumes automatic processing after an operator
// reconciled the ledger.
func (s *SettlementEngine) AcknowledgeInconsistency(operator string) {
	s.mu.Lock()
	reason := s.haltReason
	s.haltReason = ""
	listeners := s.onHalt
	s.mu.Unlock()

	logger.Log.Warnw("settlement inconsistency acknowledged", "operator", operator, "reason", reason)
	for _, fn := range listeners {
		fn(false)
	}
}

// checkHalt halts the engine when err reports an inconsistency and returns err.
func (s *SettlementEngine) checkHalt(err error) error {
	if err == nil || !errors.Is(err, ErrSettlementInconsistency) {
		return err
	}

	s.mu.Lock()
	first := s.haltReason == ""
	if first {
		s.haltReason = err.Error()
	}
	listeners := s.onHalt
	s.mu.Unlock()

	logger.Log.DPanicw("settlement engine halted", "error", err)
	if first {
		for _, fn := range listeners {
			fn(true)
		}
	}
	return err
}

// PlatformFee returns the fee charged on amount at the configured rate,
// rounded half away from zero.
func (s *SettlementEngine) PlatformFee(amount int64) int64 {
	return decimal.NewFromInt(amount).
		Mul(decimal.NewFromInt(s.feeBPS)).
		Div(decimal.NewFromInt(10000)).
		Round(0).
		IntPart()
}

// HoldFunds moves amount from the client's available balance into escrow
// for the booking. A retry of a finished hold returns the recorded escrow
// with AlreadyProcessed set.
func (s *SettlementEngine) HoldFunds(ctx context.Context, req HoldRequest) (*models.SettlementResult, error) {
	if req.ClientID == "" || req.WorkerID == "" || req.BookingID == "" || req.Amount <= 0 {
		return nil, ErrInvalidInput
	}
	if req.ClientID == req.WorkerID {
		return nil, fmt.Errorf("%w: client and worker are the same user", ErrInvalidInput)
	}
	fee := s.PlatformFee(req.Amount)
	if req.PlatformFee != nil {
		fee = *req.PlatformFee
	}
	if fee < 0 || fee > req.Amount {
		return nil, fmt.Errorf("%w: platform fee out of range", ErrInvalidInput)
	}

	now := s.now().UTC()
	escrow := &models.EscrowTransaction{
		BookingID:         req.BookingID,
		ClientID:          req.ClientID,
		WorkerID:          req.WorkerID,
		Amount:            req.Amount,
		PlatformFee:       fee,
		WorkerAmount:      req.Amount - fee,
		Status:            models.EscrowPending,
		ProviderReference: req.ProviderReference,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	existing, err := s.escrows.Get(ctx, req.BookingID)
	switch {
	case err == nil:
	case errors.Is(err, models.ErrNotFound):
		wallet, err := s.book.Wallet(ctx, req.ClientID)
		if err != nil {
			logger.Log.Errorw("failed to load client wallet", "client_id", req.ClientID, "error", err)
			return nil, err
		}
		if err := checkSpend(wallet, req.Amount, now); err != nil {
			logger.Log.Infow("hold rejected", "booking_id", req.BookingID, "client_id", req.ClientID, "reason", err)
			return nil, err
		}

		err = s.escrows.Create(ctx, escrow)
		if err == nil {
			break
		}
		if !errors.Is(err, models.ErrAlreadyExists) {
			logger.Log.Errorw("failed to create escrow", "booking_id", req.BookingID, "error", err)
			return nil, err
		}
		// lost the race for the booking
		if existing, err = s.escrows.Get(ctx, req.BookingID); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if existing != nil {
		if !existing.SameParties(escrow) {
			logger.Log.Warnw("booking already committed to another hold",
				"booking_id", req.BookingID, "client_id", req.ClientID, "worker_id", req.WorkerID)
			return nil, fmt.Errorf("%w: booking %s already has an escrow", ErrInvalidState, req.BookingID)
		}
		if existing.Status != models.EscrowPending {
			return &models.SettlementResult{BookingID: req.BookingID, Status: existing.Status, AlreadyProcessed: true, Escrow: existing}, nil
		}
		// an earlier attempt stopped half way; finish it
		escrow = existing
	}

	amount := escrow.Amount
	steps := []sagaStep{
		{
			name: "debit client",
			apply: func(ctx context.Context) error {
				_, err := s.book.Post(ctx, &models.WalletTransaction{
					ID:        models.HoldEntryID(escrow.BookingID),
					UserID:    escrow.ClientID,
					Type:      models.EntryHold,
					Amount:    -amount,
					Reference: escrow.BookingID,
					Metadata:  models.Metadata{"worker_id": escrow.WorkerID},
				}, func(w *models.Wallet) error {
					if err := checkSpend(w, amount, s.now()); err != nil {
						return err
					}
					w.AvailableBalance -= amount
					w.Escrow += amount
					w.CurrentDailySpent += amount
					w.CurrentMonthlySpent += amount
					return nil
				})
				return err
			},
			compensate: func(ctx context.Context) error {
				return s.book.Reverse(ctx, models.HoldEntryID(escrow.BookingID), "hold not completed", func(w *models.Wallet) error {
					w.Escrow -= amount
					w.AvailableBalance += amount
					w.CurrentDailySpent = max(w.CurrentDailySpent-amount, 0)
					w.CurrentMonthlySpent = max(w.CurrentMonthlySpent-amount, 0)
					return nil
				})
			},
		},
		{
			name: "update booking",
			apply: func(ctx context.Context) error {
				return s.bookings.UpdateStatus(ctx, escrow.BookingID, models.BookingUpdate{PaymentStatus: models.PaymentHeld})
			},
			compensate: func(ctx context.Context) error {
				return s.bookings.UpdateStatus(ctx, escrow.BookingID, models.BookingUpdate{PaymentStatus: models.PaymentPending})
			},
		},
		{
			name: "mark escrow held",
			apply: func(ctx context.Context) error {
				return s.transitionEscrow(ctx, escrow, models.EscrowHeld, func(e *models.EscrowTransaction) {})
			},
		},
	}

	if err := runSaga(ctx, "hold "+escrow.BookingID, steps); err != nil {
		if !errors.Is(err, ErrSettlementInconsistency) {
			if derr := s.escrows.Delete(context.WithoutCancel(ctx), escrow.BookingID, escrow.Version); derr != nil {
				logger.Log.Errorw("failed to drop pending escrow", "booking_id", escrow.BookingID, "error", derr)
			}
		}
		logger.Log.Errorw("hold failed", "booking_id", escrow.BookingID, "error", err)
		return nil, s.checkHalt(holdError(err))
	}

	logger.Log.Infow("funds held", "booking_id", escrow.BookingID, "client_id", escrow.ClientID, "amount", amount)
	s.notify(ctx, escrow.ClientID, "Payment secured",
		"Your payment for the booking is held safely until the job is done.", "hold_"+escrow.BookingID)

	return &models.SettlementResult{BookingID: escrow.BookingID, Status: escrow.Status, Escrow: escrow}, nil
}

// holdError surfaces the business reason of a failed hold debit instead of
// the generic settlement failure.
func holdError(err error) error {
	var stepErr *StepError
	if errors.As(err, &stepErr) && stepErr.Step == "debit client" {
		var limitErr *models.LimitError
		if errors.Is(stepErr.Err, ErrInsufficientFunds) || errors.Is(stepErr.Err, ErrWalletInactive) || errors.As(stepErr.Err, &limitErr) {
			return stepErr.Err
		}
	}
	return err
}

// checkSpend validates a spend of amount from w.
func checkSpend(w *models.Wallet, amount int64, now time.Time) error {
	if !w.IsActive {
		return ErrWalletInactive
	}
	models.ResetCountersIfNeeded(w, now)
	if w.AvailableBalance < amount {
		return ErrInsufficientFunds
	}
	return models.CheckSpendingLimits(w, amount)
}

// ReleaseFunds pays the worker and the platform out of the booking's escrow.
// Steps run in order and each has an inverse; if a later step fails the
// earlier ones are undone and ErrSettlementFailed is returned.
func (s *SettlementEngine) ReleaseFunds(ctx context.Context, bookingID, triggeredBy string) (*models.SettlementResult, error) {
	if bookingID == "" {
		return nil, ErrInvalidInput
	}
	escrow, err := s.escrows.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	switch escrow.Status {
	case models.EscrowReleased:
		// every entry was applied before the escrow was marked released;
		// voided ones belong to a rollback and stay voided
		return &models.SettlementResult{BookingID: bookingID, Status: escrow.Status, AlreadyProcessed: true, Escrow: escrow}, nil
	case models.EscrowHeld:
	default:
		return nil, fmt.Errorf("%w: escrow of booking %s is %s", ErrInvalidState, bookingID, escrow.Status)
	}

	steps := []sagaStep{
		{
			name:       "credit worker",
			apply:      func(ctx context.Context) error { return s.creditWorker(ctx, escrow) },
			compensate: func(ctx context.Context) error { return s.reverseWorkerCredit(ctx, escrow) },
		},
		{
			name:       "credit platform fee",
			apply:      func(ctx context.Context) error { return s.creditPlatform(ctx, escrow) },
			compensate: func(ctx context.Context) error { return s.reversePlatformCredit(ctx, escrow) },
		},
		{
			name:       "settle client escrow",
			apply:      func(ctx context.Context) error { return s.settleClientEscrow(ctx, escrow) },
			compensate: func(ctx context.Context) error { return s.reverseClientSettlement(ctx, escrow) },
		},
		{
			name: "mark escrow released",
			apply: func(ctx context.Context) error {
				now := s.now().UTC()
				return s.transitionEscrow(ctx, escrow, models.EscrowReleased, func(e *models.EscrowTransaction) {
					e.TriggeredBy = triggeredBy
					e.ReleasedAt = &now
				})
			},
			compensate: func(ctx context.Context) error { return s.restoreHeld(ctx, escrow) },
		},
		{
			name: "update booking",
			apply: func(ctx context.Context) error {
				return s.bookings.UpdateStatus(ctx, bookingID, models.BookingUpdate{
					Status:        models.BookingCompleted,
					PaymentStatus: models.PaymentReleased,
				})
			},
		},
	}

	if err := runSaga(ctx, "release "+bookingID, steps); err != nil {
		if errors.Is(err, errEscrowSettledElsewhere) {
			return nil, fmt.Errorf("%w: escrow of booking %s was refunded concurrently", ErrInvalidState, bookingID)
		}
		logger.Log.Errorw("release failed", "booking_id", bookingID, "triggered_by", triggeredBy, "error", err)
		return nil, s.checkHalt(err)
	}

	logger.Log.Infow("funds released", "booking_id", bookingID, "worker_id", escrow.WorkerID,
		"worker_amount", escrow.WorkerAmount, "platform_fee", escrow.PlatformFee, "triggered_by", triggeredBy)
	s.notify(ctx, escrow.WorkerID, "Payment received",
		"Payment for your completed job is now in your wallet.", "release_"+bookingID)
	s.notify(ctx, escrow.ClientID, "Payment released",
		"Your payment was released to the worker.", "release_client_"+bookingID)

	if s.commissions != nil {
		if _, err := s.commissions.ProcessCommission(ctx, bookingID, escrow.ClientID, escrow.Amount); err != nil {
			logger.Log.Errorw("commission processing failed", "booking_id", bookingID, "error", err)
		}
	}

	return &models.SettlementResult{BookingID: bookingID, Status: escrow.Status, Escrow: escrow}, nil
}

// RefundFunds returns the booking's escrow to the client's available balance.
func (s *SettlementEngine) RefundFunds(ctx context.Context, bookingID, reason string) (*models.SettlementResult, error) {
	if bookingID == "" {
		return nil, ErrInvalidInput
	}
	escrow, err := s.escrows.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	switch escrow.Status {
	case models.EscrowRefunded:
		return &models.SettlementResult{BookingID: bookingID, Status: escrow.Status, AlreadyProcessed: true, Escrow: escrow}, nil
	case models.EscrowHeld:
	default:
		return nil, fmt.Errorf("%w: escrow of booking %s is %s", ErrInvalidState, bookingID, escrow.Status)
	}

	steps := []sagaStep{
		{
			name:       "refund client",
			apply:      func(ctx context.Context) error { return s.refundClient(ctx, escrow) },
			compensate: func(ctx context.Context) error { return s.reverseClientRefund(ctx, escrow) },
		},
		{
			name: "mark escrow refunded",
			apply: func(ctx context.Context) error {
				now := s.now().UTC()
				return s.transitionEscrow(ctx, escrow, models.EscrowRefunded, func(e *models.EscrowTransaction) {
					e.RefundReason = reason
					e.RefundedAt = &now
				})
			},
			compensate: func(ctx context.Context) error { return s.restoreHeld(ctx, escrow) },
		},
		{
			name: "update booking",
			apply: func(ctx context.Context) error {
				return s.bookings.UpdateStatus(ctx, bookingID, models.BookingUpdate{PaymentStatus: models.PaymentRefunded})
			},
		},
	}

	if err := runSaga(ctx, "refund "+bookingID, steps); err != nil {
		if errors.Is(err, errEscrowSettledElsewhere) {
			return nil, fmt.Errorf("%w: escrow of booking %s was released concurrently", ErrInvalidState, bookingID)
		}
		logger.Log.Errorw("refund failed", "booking_id", bookingID, "error", err)
		return nil, s.checkHalt(err)
	}

	logger.Log.Infow("funds refunded", "booking_id", bookingID, "client_id", escrow.ClientID, "amount", escrow.Amount, "reason", reason)
	s.notify(ctx, escrow.ClientID, "Payment refunded",
		"The payment for your booking was returned to your wallet.", "refund_"+bookingID)

	return &models.SettlementResult{BookingID: bookingID, Status: escrow.Status, Escrow: escrow}, nil
}

// RollbackRelease undoes a release: the worker and platform credits are
// reversed, the client's escrow is restored and the escrow record is held
// again. The escrow is first moved to reverting, so no release or refund
// can run while entries are reversed. A rollback stopped half way is
// resumed by calling RollbackRelease again. Entries that were never applied
// are skipped.
func (s *SettlementEngine) RollbackRelease(ctx context.Context, bookingID string) (*models.SettlementResult, error) {
	escrow, err := s.escrows.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	from := escrow.Status
	switch from {
	case models.EscrowReverting:
	case models.EscrowReleased, models.EscrowHeld:
		if err := s.claimEscrow(ctx, escrow, models.EscrowReverting); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: escrow of booking %s is %s", ErrInvalidState, bookingID, escrow.Status)
	}

	// the worker credit is the step most likely to be refused, so it goes
	// first while nothing has changed yet
	if err := s.reverseWorkerCredit(ctx, escrow); err != nil {
		logger.Log.Errorw("release rollback refused", "booking_id", bookingID, "error", err)
		if errors.Is(err, ErrSettlementInconsistency) {
			return nil, s.checkHalt(err)
		}
		if from != models.EscrowReverting {
			if cerr := s.claimEscrow(context.WithoutCancel(ctx), escrow, from); cerr != nil {
				return nil, s.checkHalt(fmt.Errorf("%w: escrow of %s left reverting: %v", ErrSettlementInconsistency, bookingID, cerr))
			}
		}
		return nil, err
	}

	for _, fn := range []func(context.Context, *models.EscrowTransaction) error{
		s.reversePlatformCredit,
		s.reverseClientSettlement,
		s.restoreHeld,
	} {
		if err := fn(ctx, escrow); err != nil {
			logger.Log.Errorw("release rollback failed", "booking_id", bookingID, "error", err)
			if !errors.Is(err, ErrSettlementInconsistency) {
				err = fmt.Errorf("%w: rollback of %s: %v", ErrSettlementInconsistency, bookingID, err)
			}
			return nil, s.checkHalt(err)
		}
	}

	if err := s.bookings.UpdateStatus(ctx, bookingID, models.BookingUpdate{PaymentStatus: models.PaymentHeld}); err != nil {
		logger.Log.Errorw("failed to write back rolled back booking", "booking_id", bookingID, "error", err)
		return nil, err
	}

	logger.Log.Warnw("release rolled back", "booking_id", bookingID, "worker_id", escrow.WorkerID)
	return &models.SettlementResult{BookingID: bookingID, Status: escrow.Status, Escrow: escrow}, nil
}

// GetWallet returns the wallet of userID.
func (s *SettlementEngine) GetWallet(ctx context.Context, userID string) (*models.Wallet, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.book.CachedWallet(ctx, userID)
}

// GetLedger returns the newest ledger entries of userID. limit is clamped to [1, 100].
func (s *SettlementEngine) GetLedger(ctx context.Context, userID string, limit int) ([]models.WalletTransaction, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	limit = min(max(limit, 1), maxLedgerLimit)
	return s.book.Entries(ctx, userID, limit)
}

// GetEscrow returns the escrow of bookingID.
func (s *SettlementEngine) GetEscrow(ctx context.Context, bookingID string) (*models.EscrowTransaction, error) {
	return s.escrows.Get(ctx, bookingID)
}

func (s *SettlementEngine) creditWorker(ctx context.Context, e *models.EscrowTransaction) error {
	if e.WorkerAmount == 0 {
		return nil
	}
	_, err := s.book.Post(ctx, &models.WalletTransaction{
		ID:        models.ReleaseEntryID(e.BookingID),
		UserID:    e.WorkerID,
		Type:      models.EntryRelease,
		Amount:    e.WorkerAmount,
		Reference: e.BookingID,
		Metadata:  models.Metadata{"client_id": e.ClientID},
	}, func(w *models.Wallet) error {
		w.AvailableBalance += e.WorkerAmount
		w.TotalDeposits += e.WorkerAmount
		return nil
	})
	return err
}

func (s *SettlementEngine) reverseWorkerCredit(ctx context.Context, e *models.EscrowTransaction) error {
	return s.book.Reverse(ctx, models.ReleaseEntryID(e.BookingID), "release rolled back", func(w *models.Wallet) error {
		if w.AvailableBalance < e.WorkerAmount {
			return ErrInsufficientFunds
		}
		w.AvailableBalance -= e.WorkerAmount
		w.TotalDeposits -= e.WorkerAmount
		return nil
	})
}

func (s *SettlementEngine) creditPlatform(ctx context.Context, e *models.EscrowTransaction) error {
	if e.PlatformFee == 0 {
		return nil
	}
	_, err := s.book.Post(ctx, &models.WalletTransaction{
		ID:        models.FeeEntryID(e.BookingID),
		UserID:    models.PlatformUserID,
		Type:      models.EntryPlatformFee,
		Amount:    e.PlatformFee,
		Reference: e.BookingID,
	}, func(w *models.Wallet) error {
		w.AvailableBalance += e.PlatformFee
		w.TotalDeposits += e.PlatformFee
		return nil
	})
	return err
}

func (s *SettlementEngine) reversePlatformCredit(ctx context.Context, e *models.EscrowTransaction) error {
	return s.book.Reverse(ctx, models.FeeEntryID(e.BookingID), "release rolled back", func(w *models.Wallet) error {
		if w.AvailableBalance < e.PlatformFee {
			return ErrInsufficientFunds
		}
		w.AvailableBalance -= e.PlatformFee
		w.TotalDeposits -= e.PlatformFee
		return nil
	})
}

func (s *SettlementEngine) settleClientEscrow(ctx context.Context, e *models.EscrowTransaction) error {
	_, err := s.book.Post(ctx, &models.WalletTransaction{
		ID:        models.SettleEntryID(e.BookingID),
		UserID:    e.ClientID,
		Type:      models.EntryEscrowSettle,
		Amount:    -e.Amount,
		Reference: e.BookingID,
		Metadata:  models.Metadata{"worker_id": e.WorkerID},
	}, func(w *models.Wallet) error {
		if w.Escrow < e.Amount {
			return fmt.Errorf("%w: client escrow below booking amount", ErrInvalidState)
		}
		w.Escrow -= e.Amount
		w.TotalSpent += e.Amount
		return nil
	})
	return err
}

func (s *SettlementEngine) reverseClientSettlement(ctx context.Context, e *models.EscrowTransaction) error {
	return s.book.Reverse(ctx, models.SettleEntryID(e.BookingID), "release rolled back", func(w *models.Wallet) error {
		w.Escrow += e.Amount
		w.TotalSpent -= e.Amount
		return nil
	})
}

func (s *SettlementEngine) refundClient(ctx context.Context, e *models.EscrowTransaction) error {
	_, err := s.book.Post(ctx, &models.WalletTransaction{
		ID:        models.RefundEntryID(e.BookingID),
		UserID:    e.ClientID,
		Type:      models.EntryRefund,
		Amount:    e.Amount,
		Reference: e.BookingID,
	}, func(w *models.Wallet) error {
		if w.Escrow < e.Amount {
			return fmt.Errorf("%w: client escrow below booking amount", ErrInvalidState)
		}
		w.Escrow -= e.Amount
		w.AvailableBalance += e.Amount
		return nil
	})
	return err
}

func (s *SettlementEngine) reverseClientRefund(ctx context.Context, e *models.EscrowTransaction) error {
	return s.book.Reverse(ctx, models.RefundEntryID(e.BookingID), "refund rolled back", func(w *models.Wallet) error {
		if w.AvailableBalance < e.Amount {
			return ErrInsufficientFunds
		}
		w.AvailableBalance -= e.Amount
		w.Escrow += e.Amount
		return nil
	})
}

var errEscrowSettledElsewhere = errors.New("escrow settled by a concurrent call")

// transitionEscrow moves e to next and applies stamp. A version conflict is
// resolved by reading the escrow again: reaching next through another call
// counts as success.
func (s *SettlementEngine) transitionEscrow(ctx context.Context, e *models.EscrowTransaction, next string, stamp func(*models.EscrowTransaction)) error {
	for attempt := 0; attempt < defaultMaxRetries; attempt++ {
		if e.Status == next {
			return nil
		}
		if e.Status == models.EscrowReverting {
			return fmt.Errorf("%w: escrow %s is being rolled back", ErrInvalidState, e.BookingID)
		}
		if !e.CanTransition(next) {
			if e.Status == models.EscrowReleased || e.Status == models.EscrowRefunded {
				return errEscrowSettledElsewhere
			}
			return fmt.Errorf("%w: escrow %s cannot move from %s to %s", ErrInvalidState, e.BookingID, e.Status, next)
		}

		updated := *e
		updated.Status = next
		updated.UpdatedAt = s.now().UTC()
		stamp(&updated)

		err := s.escrows.Update(ctx, &updated)
		if err == nil {
			*e = updated
			return nil
		}
		if !errors.Is(err, models.ErrVersionConflict) {
			return err
		}

		fresh, err := s.escrows.Get(ctx, e.BookingID)
		if err != nil {
			return err
		}
		*e = *fresh
	}
	return fmt.Errorf("%w: escrow %s", ErrConcurrentUpdate, e.BookingID)
}

// claimEscrow moves e from its current status to next with a single
// version-checked update. Unlike transitionEscrow it fails with
// ErrInvalidState when another call changed the status first.
func (s *SettlementEngine) claimEscrow(ctx context.Context, e *models.EscrowTransaction, next string) error {
	from := e.Status
	for attempt := 0; attempt < defaultMaxRetries; attempt++ {
		if e.Status != from || !e.CanTransition(next) {
			return fmt.Errorf("%w: escrow %s cannot move from %s to %s", ErrInvalidState, e.BookingID, e.Status, next)
		}

		updated := *e
		updated.Status = next
		updated.UpdatedAt = s.now().UTC()

		err := s.escrows.Update(ctx, &updated)
		if err == nil {
			*e = updated
			return nil
		}
		if !errors.Is(err, models.ErrVersionConflict) {
			return err
		}
		fresh, err := s.escrows.Get(ctx, e.BookingID)
		if err != nil {
			return err
		}
		*e = *fresh
	}
	return fmt.Errorf("%w: escrow %s", ErrConcurrentUpdate, e.BookingID)
}

// restoreHeld puts a released, refunded or reverting escrow back into held.
// It is the only way back into held.
func (s *SettlementEngine) restoreHeld(ctx context.Context, e *models.EscrowTransaction) error {
	for attempt := 0; attempt < defaultMaxRetries; attempt++ {
		if e.Status == models.EscrowHeld {
			return nil
		}

		restored := *e
		restored.Status = models.EscrowHeld
		restored.TriggeredBy = ""
		restored.RefundReason = ""
		restored.ReleasedAt = nil
		restored.RefundedAt = nil
		restored.UpdatedAt = s.now().UTC()

		err := s.escrows.Update(ctx, &restored)
		if err == nil {
			*e = restored
			return nil
		}
		if !errors.Is(err, models.ErrVersionConflict) {
			return err
		}
		fresh, err := s.escrows.Get(ctx, e.BookingID)
		if err != nil {
			return err
		}
		*e = *fresh
	}
	return fmt.Errorf("%w: escrow %s", ErrConcurrentUpdate, e.BookingID)
}

func (s *SettlementEngine) notify(ctx context.Context, userID, title, message, key string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, models.Notification{
		UserID:         userID,
		Title:          title,
		Message:        message,
		IdempotencyKey: strings.ToLower(key),
	})
}
