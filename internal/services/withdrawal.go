package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/logger"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/models"
)

//go:generate mockgen -source=withdrawal.go -destination=withdrawal_mock.go -package=services

// WithdrawalRepository persists withdrawals with optimistic updates.
type WithdrawalRepository interface {
	Create(ctx context.Context, w *models.Withdrawal) error // Returns models.ErrAlreadyExists when the id or reference is taken
	Get(ctx context.Context, id string) (*models.Withdrawal, error)
	GetByReference(ctx context.Context, reference string) (*models.Withdrawal, error)
	Update(ctx context.Context, w *models.Withdrawal) error
}

// Withdrawal modes.
const (
	WithdrawalModeDirect   = "direct"   // transfer starts as soon as funds are reserved
	WithdrawalModeApproval = "approval" // transfer starts when an admin approves
)

// WithdrawalConfig configures the withdrawal workflow.
type WithdrawalConfig struct {
	MinAmount int64
	Mode      string
}

// WithdrawalRequest asks to move funds out of a wallet.
type WithdrawalRequest struct {
	UserID    string
	Amount    int64
	Account   models.BankAccount
	Reference string // Optional client idempotency key
}

// WithdrawalService reserves funds, starts bank transfers and reconciles
// their outcome.
type WithdrawalService struct {
	book        *Bookkeeper
	withdrawals WithdrawalRepository
	provider    PaymentProvider
	notifier    Notifier
	cfg         WithdrawalConfig
	now         func() time.Time
}

// NewWithdrawalService creates a WithdrawalService.
func NewWithdrawalService(
	book *Bookkeeper,
	withdrawals WithdrawalRepository,
	provider PaymentProvider,
	notifier Notifier,
	cfg WithdrawalConfig,
) *WithdrawalService {
	if cfg.Mode == "" {
		cfg.Mode = WithdrawalModeDirect
	}
	return &WithdrawalService{
		book:        book,
		withdrawals: withdrawals,
		provider:    provider,
		notifier:    notifier,
		cfg:         cfg,
		now:         time.Now,
	}
}

// InitiateWithdrawal reserves the amount and, in direct mode, starts the
// transfer. If the provider refuses the transfer the reserved funds are
// returned and ErrExternalProvider is reported.
func (s *WithdrawalService) InitiateWithdrawal(ctx context.Context, req WithdrawalRequest) (*models.Withdrawal, error) {
	if req.UserID == "" || req.Amount <= 0 || req.Account.AccountNumber == "" || req.Account.BankCode == "" {
		return nil, ErrInvalidInput
	}
	if req.Amount < s.cfg.MinAmount {
		return nil, ErrBelowMinimumWithdrawal
	}

	if req.Reference != "" {
		existing, err := s.withdrawals.GetByReference(ctx, req.Reference)
		if err == nil {
			if existing.UserID != req.UserID {
				return nil, fmt.Errorf("%w: reference already used", ErrInvalidInput)
			}
			logger.Log.Infow("withdrawal already requested", "withdrawal_id", existing.ID, "reference", req.Reference)
			return existing, nil
		}
		if !errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
	}

	wallet, err := s.book.Wallet(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if !wallet.IsActive {
		return nil, ErrWalletInactive
	}
	if wallet.AvailableBalance < req.Amount {
		return nil, ErrInsufficientFunds
	}

	now := s.now().UTC()
	w := &models.Withdrawal{
		ID:            uuid.NewString(),
		UserID:        req.UserID,
		Amount:        req.Amount,
		BankAccountID: req.Account.ID,
		AccountNumber: req.Account.AccountNumber,
		BankCode:      req.Account.BankCode,
		AccountName:   req.Account.AccountName,
		Status:        models.WithdrawalPending,
		Reference:     req.Reference,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if w.Reference == "" {
		w.Reference = "wd_" + w.ID
	}

	if err := s.withdrawals.Create(ctx, w); err != nil {
		if errors.Is(err, models.ErrAlreadyExists) {
			return s.withdrawals.GetByReference(ctx, w.Reference)
		}
		logger.Log.Errorw("failed to record withdrawal", "user_id", req.UserID, "error", err)
		return nil, err
	}

	_, err = s.book.Post(ctx, &models.WalletTransaction{
		ID:        models.WithdrawEntryID(w.ID),
		UserID:    w.UserID,
		Type:      models.EntryWithdrawal,
		Amount:    -w.Amount,
		Reference: w.Reference,
		Metadata:  models.Metadata{"bank_account_id": w.BankAccountID},
	}, func(wallet *models.Wallet) error {
		if !wallet.IsActive {
			return ErrWalletInactive
		}
		if wallet.AvailableBalance < w.Amount {
			return ErrInsufficientFunds
		}
		wallet.AvailableBalance -= w.Amount
		wallet.PendingBalance += w.Amount
		return nil
	})
	if err != nil {
		logger.Log.Infow("withdrawal reservation failed", "withdrawal_id", w.ID, "error", err)
		if uerr := s.setStatus(ctx, w, models.WithdrawalRejected, func(w *models.Withdrawal) { w.FailureReason = err.Error() }); uerr != nil {
			logger.Log.Errorw("failed to reject unreserved withdrawal", "withdrawal_id", w.ID, "error", uerr)
		}
		return nil, err
	}

	logger.Log.Infow("withdrawal reserved", "withdrawal_id", w.ID, "user_id", w.UserID, "amount", w.Amount, "mode", s.cfg.Mode)

	if s.cfg.Mode == WithdrawalModeApproval {
		return w, nil
	}
	return s.startTransfer(ctx, w)
}

// ApproveWithdrawal starts the transfer of a pending withdrawal. Only one
// approval can start a transfer.
func (s *WithdrawalService) ApproveWithdrawal(ctx context.Context, id, adminID string) (*models.Withdrawal, error) {
	w, err := s.withdrawals.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if w.Status != models.WithdrawalPending {
		return nil, fmt.Errorf("%w: withdrawal %s is %s", ErrInvalidState, id, w.Status)
	}

	logger.Log.Infow("withdrawal approved", "withdrawal_id", id, "admin_id", adminID)
	return s.startTransfer(ctx, w)
}

// RejectWithdrawal returns exactly the reserved amount of a pending
// withdrawal to the available balance. A withdrawal whose transfer already
// started cannot be rejected. Rejecting a rejected withdrawal finishes a
// return that stopped half way.
func (s *WithdrawalService) RejectWithdrawal(ctx context.Context, id, reason string) (*models.Withdrawal, error) {
	w, err := s.withdrawals.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	switch w.Status {
	case models.WithdrawalRejected:
		reason = w.FailureReason
	case models.WithdrawalPending:
	default:
		return nil, fmt.Errorf("%w: withdrawal %s is %s", ErrInvalidState, id, w.Status)
	}

	if err := s.returnFunds(ctx, w, reason); err != nil {
		return nil, err
	}
	return w, nil
}

// GetWithdrawal returns the withdrawal with id.
func (s *WithdrawalService) GetWithdrawal(ctx context.Context, id string) (*models.Withdrawal, error) {
	return s.withdrawals.Get(ctx, id)
}

// HandleTransferEvent reconciles a provider transfer event.
func (s *WithdrawalService) HandleTransferEvent(ctx context.Context, event string, data models.WebhookTransfer) error {
	w, err := s.withdrawals.GetByReference(ctx, data.Reference)
	if errors.Is(err, models.ErrNotFound) {
		logger.Log.Warnw("transfer event for unknown withdrawal", "event", event, "reference", data.Reference)
		return nil
	}
	if err != nil {
		return err
	}

	switch event {
	case models.EventTransferSuccess:
		return s.complete(ctx, w)
	case models.EventTransferFailed, models.EventTransferReversed:
		if w.Terminal() {
			return nil
		}
		reason := data.Reason
		if reason == "" {
			reason = event
		}
		return s.returnFunds(ctx, w, reason)
	default:
		logger.Log.Debugw("ignoring transfer event", "event", event)
		return nil
	}
}

// startTransfer claims a pending withdrawal for processing and then calls
// the provider. Losing the claim means another call owns the withdrawal.
func (s *WithdrawalService) startTransfer(ctx context.Context, w *models.Withdrawal) (*models.Withdrawal, error) {
	if err := s.claim(ctx, w, models.WithdrawalProcessing, func(*models.Withdrawal) {}); err != nil {
		logger.Log.Warnw("withdrawal claimed by another call", "withdrawal_id", w.ID, "status", w.Status, "error", err)
		return nil, err
	}

	recipient, err := s.provider.CreateRecipient(ctx, w.Account())
	if err != nil {
		return nil, s.providerFailure(ctx, w, "create recipient", err)
	}

	transfer, err := s.provider.InitiateTransfer(ctx, w.Amount, recipient, w.Reference)
	if err != nil {
		return nil, s.providerFailure(ctx, w, "initiate transfer", err)
	}

	if err := s.recordTransferCode(ctx, w, transfer.TransferCode); err != nil {
		// the transfer is in flight; the webhook reconciles the record by reference
		logger.Log.Errorw("failed to record transfer code", "withdrawal_id", w.ID, "transfer_code", transfer.TransferCode, "error", err)
	}

	logger.Log.Infow("transfer initiated", "withdrawal_id", w.ID, "transfer_code", transfer.TransferCode)
	s.notify(ctx, w, "Withdrawal processing", "Your withdrawal is on its way to your bank.", "withdraw_processing_"+w.ID)
	return w, nil
}

// providerFailure returns the reserved funds and reports ErrExternalProvider.
func (s *WithdrawalService) providerFailure(ctx context.Context, w *models.Withdrawal, op string, cause error) error {
	logger.Log.Errorw("transfer provider failed", "withdrawal_id", w.ID, "operation", op, "error", cause)
	if err := s.returnFunds(context.WithoutCancel(ctx), w, op+" failed"); err != nil {
		return err
	}
	return fmt.Errorf("%w: %s: %v", ErrExternalProvider, op, cause)
}

// complete settles a transfer the provider reported as successful. Success
// for a withdrawal whose funds were already returned means the user was paid
// twice and is reported as an inconsistency.
func (s *WithdrawalService) complete(ctx context.Context, w *models.Withdrawal) error {
	switch w.Status {
	case models.WithdrawalCompleted:
		return nil
	case models.WithdrawalRejected:
		settled, err := s.book.EntryStatus(ctx, models.WithdrawCompleteEntryID(w.ID))
		if err != nil {
			return err
		}
		if settled == models.EntryCompleted {
			// success replayed after a reversal
			return nil
		}
		logger.Log.DPanicw("transfer succeeded for a rejected withdrawal",
			"withdrawal_id", w.ID, "user_id", w.UserID, "amount", w.Amount, "reference", w.Reference)
		return fmt.Errorf("%w: withdrawal %s paid out after its funds were returned", ErrSettlementInconsistency, w.ID)
	case models.WithdrawalPending:
		if err := s.claim(ctx, w, models.WithdrawalProcessing, func(*models.Withdrawal) {}); err != nil {
			if w.Status == models.WithdrawalPending {
				return err
			}
			// another call moved it on; settle against the fresh record
			return s.complete(ctx, w)
		}
	}

	_, err := s.book.Post(ctx, &models.WalletTransaction{
		ID:        models.WithdrawCompleteEntryID(w.ID),
		UserID:    w.UserID,
		Type:      models.EntryWithdrawalComplete,
		Amount:    -w.Amount,
		Reference: w.Reference,
		Metadata:  models.Metadata{"transfer_code": w.TransferCode},
	}, func(wallet *models.Wallet) error {
		if wallet.PendingBalance < w.Amount {
			return fmt.Errorf("%w: pending balance below withdrawal amount", ErrInvalidState)
		}
		wallet.PendingBalance -= w.Amount
		wallet.TotalWithdrawn += w.Amount
		return nil
	})
	if err != nil {
		logger.Log.Errorw("failed to settle withdrawal", "withdrawal_id", w.ID, "error", err)
		return err
	}

	if err := s.setStatus(ctx, w, models.WithdrawalCompleted, func(*models.Withdrawal) {}); err != nil {
		return err
	}

	logger.Log.Infow("withdrawal completed", "withdrawal_id", w.ID, "amount", w.Amount)
	s.notify(ctx, w, "Withdrawal completed", "Your withdrawal has been paid out.", "withdraw_complete_"+w.ID)
	return nil
}

// returnFunds marks the withdrawal rejected and then credits the recorded
// amount back. The status is claimed first so a concurrent call cannot start
// or settle the transfer while the funds are returned. A transfer reversed
// after completion takes the amount back out of the withdrawn total instead
// of the pending balance.
func (s *WithdrawalService) returnFunds(ctx context.Context, w *models.Withdrawal, reason string) error {
	if w.Status != models.WithdrawalRejected {
		if err := s.claim(ctx, w, models.WithdrawalRejected, func(w *models.Withdrawal) { w.FailureReason = reason }); err != nil {
			if w.Status != models.WithdrawalRejected {
				logger.Log.Warnw("withdrawal moved on before its funds could be returned", "withdrawal_id", w.ID, "status", w.Status)
				return err
			}
		}
	}

	reserved, err := s.book.EntryStatus(ctx, models.WithdrawEntryID(w.ID))
	if err != nil {
		return err
	}
	if reserved != models.EntryCompleted {
		logger.Log.Warnw("withdrawal had no reservation to return", "withdrawal_id", w.ID)
		return nil
	}
	settled, err := s.book.EntryStatus(ctx, models.WithdrawCompleteEntryID(w.ID))
	if err != nil {
		return err
	}
	completed := settled == models.EntryCompleted

	applied, err := s.book.Post(ctx, &models.WalletTransaction{
		ID:        models.WithdrawReturnEntryID(w.ID),
		UserID:    w.UserID,
		Type:      models.EntryWithdrawalReturn,
		Amount:    w.Amount,
		Reference: w.Reference,
		Metadata:  models.Metadata{"reason": reason},
	}, func(wallet *models.Wallet) error {
		if completed {
			wallet.TotalWithdrawn -= w.Amount
		} else {
			if wallet.PendingBalance < w.Amount {
				return fmt.Errorf("%w: pending balance below withdrawal amount", ErrInvalidState)
			}
			wallet.PendingBalance -= w.Amount
		}
		wallet.AvailableBalance += w.Amount
		return nil
	})
	if err != nil {
		logger.Log.Errorw("failed to return withdrawal funds", "withdrawal_id", w.ID, "error", err)
		return err
	}
	if !applied {
		return nil
	}

	logger.Log.Infow("withdrawal funds returned", "withdrawal_id", w.ID, "amount", w.Amount, "reason", reason)
	s.notify(ctx, w, "Withdrawal returned", "Your withdrawal could not be completed and the funds are back in your wallet.", "withdraw_return_"+w.ID)
	return nil
}

// claim moves w from its current status to next. Unlike setStatus it fails
// with ErrInvalidState when another call changed the status first, leaving
// the fresh record in w.
func (s *WithdrawalService) claim(ctx context.Context, w *models.Withdrawal, next string, stamp func(*models.Withdrawal)) error {
	from := w.Status
	for attempt := 0; attempt < defaultMaxRetries; attempt++ {
		if w.Status != from || !w.CanTransition(next) {
			return fmt.Errorf("%w: withdrawal %s cannot move from %s to %s", ErrInvalidState, w.ID, w.Status, next)
		}

		updated := *w
		updated.Status = next
		updated.UpdatedAt = s.now().UTC()
		stamp(&updated)

		err := s.withdrawals.Update(ctx, &updated)
		if err == nil {
			*w = updated
			return nil
		}
		if !errors.Is(err, models.ErrVersionConflict) {
			return err
		}
		fresh, err := s.withdrawals.Get(ctx, w.ID)
		if err != nil {
			return err
		}
		*w = *fresh
	}
	return fmt.Errorf("%w: withdrawal %s", ErrConcurrentUpdate, w.ID)
}

// recordTransferCode stores the provider's transfer code whatever the
// status is by now.
func (s *WithdrawalService) recordTransferCode(ctx context.Context, w *models.Withdrawal, code string) error {
	for attempt := 0; attempt < defaultMaxRetries; attempt++ {
		if w.TransferCode == code {
			return nil
		}

		updated := *w
		updated.TransferCode = code
		updated.UpdatedAt = s.now().UTC()

		err := s.withdrawals.Update(ctx, &updated)
		if err == nil {
			*w = updated
			return nil
		}
		if !errors.Is(err, models.ErrVersionConflict) {
			return err
		}
		fresh, err := s.withdrawals.Get(ctx, w.ID)
		if err != nil {
			return err
		}
		*w = *fresh
	}
	return fmt.Errorf("%w: withdrawal %s", ErrConcurrentUpdate, w.ID)
}

// setStatus moves w to next, re-reading on version conflicts.
func (s *WithdrawalService) setStatus(ctx context.Context, w *models.Withdrawal, next string, stamp func(*models.Withdrawal)) error {
	for attempt := 0; attempt < defaultMaxRetries; attempt++ {
		if w.Status == next {
			return nil
		}
		if !w.CanTransition(next) {
			return fmt.Errorf("%w: withdrawal %s cannot move from %s to %s", ErrInvalidState, w.ID, w.Status, next)
		}

		updated := *w
		updated.Status = next
		updated.UpdatedAt = s.now().UTC()
		stamp(&updated)

		err := s.withdrawals.Update(ctx, &updated)
		if err == nil {
			*w = updated
			return nil
		}
		if !errors.Is(err, models.ErrVersionConflict) {
			return err
		}
		fresh, err := s.withdrawals.Get(ctx, w.ID)
		if err != nil {
			return err
		}
		*w = *fresh
	}
	return fmt.Errorf("%w: withdrawal %s", ErrConcurrentUpdate, w.ID)
}

func (s *WithdrawalService) notify(ctx context.Context, w *models.Withdrawal, title, message, key string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, models.Notification{
		UserID:         w.UserID,
		Title:          title,
		Message:        message,
		IdempotencyKey: key,
	})
}
