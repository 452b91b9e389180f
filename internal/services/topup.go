package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/logger"
	"github.com/sbilibin2017/gw-escrow-settlement/internal/models"
)

//go:generate mockgen -source=topup.go -destination=topup_mock.go -package=services

// PaymentProvider is the payment gateway. Amounts are in minor units.
type PaymentProvider interface {
	InitializePayment(ctx context.Context, amount int64, email, reference string, metadata map[string]string) (*models.PaymentInit, error)
	VerifyPayment(ctx context.Context, reference string) (*models.PaymentVerification, error)
	CreateRecipient(ctx context.Context, account models.BankAccount) (string, error)
	InitiateTransfer(ctx context.Context, amount int64, recipientCode, reference string) (*models.Transfer, error)
}

// TopUpResult is the outcome of a confirmed top-up.
type TopUpResult struct {
	Reference        string `json:"reference"`
	UserID           string `json:"user_id"`
	Amount           int64  `json:"amount"`
	AlreadyProcessed bool   `json:"already_processed"`
}

// TopUpService credits wallets from verified provider payments.
type TopUpService struct {
	book     *Bookkeeper
	provider PaymentProvider
	notifier Notifier
}

// NewTopUpService creates a TopUpService.
func NewTopUpService(book *Bookkeeper, provider PaymentProvider, notifier Notifier) *TopUpService {
	return &TopUpService{
		book:     book,
		provider: provider,
		notifier: notifier,
	}
}

// InitializeTopUp starts a provider payment that credits userID once confirmed.
func (s *TopUpService) InitializeTopUp(ctx context.Context, userID, email string, amount int64) (*models.PaymentInit, error) {
	if userID == "" || amount <= 0 || !strings.Contains(email, "@") {
		return nil, ErrInvalidInput
	}

	reference := "tp_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	init, err := s.provider.InitializePayment(ctx, amount, email, reference, map[string]string{"user_id": userID})
	if err != nil {
		logger.Log.Errorw("failed to initialize payment", "user_id", userID, "amount", amount, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrExternalProvider, err)
	}

	logger.Log.Infow("top-up initialized", "user_id", userID, "amount", amount, "reference", init.Reference)
	return init, nil
}

// ConfirmTopUp verifies the payment behind reference with the provider and
// credits the payer. The ledger id is derived from the reference, so
// confirming the same payment twice credits once.
func (s *TopUpService) ConfirmTopUp(ctx context.Context, reference string) (*TopUpResult, error) {
	if reference == "" {
		return nil, ErrInvalidInput
	}

	payment, err := s.provider.VerifyPayment(ctx, reference)
	if err != nil {
		logger.Log.Errorw("failed to verify payment", "reference", reference, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrExternalProvider, err)
	}
	if payment.Status != models.PaymentStatusSuccess {
		logger.Log.Infow("payment not successful", "reference", reference, "status", payment.Status)
		return nil, fmt.Errorf("%w: status %s", ErrPaymentNotSuccessful, payment.Status)
	}

	userID := payment.Metadata["user_id"]
	if userID == "" || payment.Amount <= 0 {
		logger.Log.Warnw("verified payment lacks owner or amount", "reference", reference)
		return nil, fmt.Errorf("%w: payment %s has no owner", ErrInvalidInput, reference)
	}

	applied, err := s.book.Post(ctx, &models.WalletTransaction{
		ID:        models.TopUpEntryID(reference),
		UserID:    userID,
		Type:      models.EntryTopUp,
		Amount:    payment.Amount,
		Reference: reference,
		Metadata:  models.Metadata{"paid_at": payment.PaidAt.UTC().Format(time.RFC3339)},
	}, func(w *models.Wallet) error {
		w.AvailableBalance += payment.Amount
		w.TotalDeposits += payment.Amount
		return nil
	})
	if err != nil {
		logger.Log.Errorw("failed to credit top-up", "reference", reference, "user_id", userID, "error", err)
		return nil, err
	}

	if applied {
		logger.Log.Infow("wallet topped up", "user_id", userID, "amount", payment.Amount, "reference", reference)
		if s.notifier != nil {
			s.notifier.Notify(ctx, models.Notification{
				UserID:         userID,
				Title:          "Wallet funded",
				Message:        "Your wallet top-up was successful.",
				IdempotencyKey: models.TopUpEntryID(reference),
			})
		}
	}

	return &TopUpResult{
		Reference:        reference,
		UserID:           userID,
		Amount:           payment.Amount,
		AlreadyProcessed: !applied,
	}, nil
}

// HandleChargeEvent confirms the top-up named by a charge webhook. The
// webhook payload is not trusted for the amount; the provider is asked again.
func (s *TopUpService) HandleChargeEvent(ctx context.Context, charge models.WebhookCharge) error {
	_, err := s.ConfirmTopUp(ctx, charge.Reference)
	if errors.Is(err, ErrPaymentNotSuccessful) {
		return nil
	}
	return err
}
