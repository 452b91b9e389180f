package models

import "time"

// Withdrawal statuses.
const (
	WithdrawalPending    = "pending"
	WithdrawalProcessing = "processing"
	WithdrawalCompleted  = "completed"
	WithdrawalRejected   = "rejected"
)

// BankAccount is the payout destination of a withdrawal.
type BankAccount struct {
	ID            string `json:"id"`
	AccountNumber string `json:"account_number"`
	BankCode      string `json:"bank_code"`
	AccountName   string `json:"account_name"`
}

// Withdrawal moves funds out of a wallet to a bank account.
type Withdrawal struct {
	ID            string    `json:"id" db:"id"`
	UserID        string    `json:"user_id" db:"user_id"`
	Amount        int64     `json:"amount" db:"amount"` // Debited at request time, returned verbatim on rejection
	BankAccountID string    `json:"bank_account_id" db:"bank_account_id"`
	AccountNumber string    `json:"-" db:"account_number"`
	BankCode      string    `json:"-" db:"bank_code"`
	AccountName   string    `json:"-" db:"account_name"`
	Status        string    `json:"status" db:"status"`
	Reference     string    `json:"reference" db:"reference"`
	TransferCode  string    `json:"transfer_code,omitempty" db:"transfer_code"`
	FailureReason string    `json:"failure_reason,omitempty" db:"failure_reason"`
	Version       int64     `json:"-" db:"version"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// Account returns the bank account captured on the withdrawal.
func (w *Withdrawal) Account() BankAccount {
	return BankAccount{
		ID:            w.BankAccountID,
		AccountNumber: w.AccountNumber,
		BankCode:      w.BankCode,
		AccountName:   w.AccountName,
	}
}

// CanTransition reports whether the withdrawal may move to next.
func (w *Withdrawal) CanTransition(next string) bool {
	switch w.Status {
	case WithdrawalPending:
		return next == WithdrawalProcessing || next == WithdrawalRejected
	case WithdrawalProcessing:
		return next == WithdrawalCompleted || next == WithdrawalRejected
	case WithdrawalCompleted:
		// a provider may reverse a transfer after reporting success
		return next == WithdrawalRejected
	default:
		return false
	}
}

// Terminal reports whether no further provider event can change the withdrawal.
func (w *Withdrawal) Terminal() bool {
	return w.Status == WithdrawalRejected
}
