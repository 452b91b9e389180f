package services

import "errors"

var (
	// ErrInvalidInput is returned when a request is missing ids or carries a non-positive amount.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInsufficientFunds is returned when the available balance cannot cover an amount.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrWalletInactive is returned for spends from a deactivated wallet.
	ErrWalletInactive = errors.New("wallet is inactive")
	// ErrInvalidState is returned when an escrow, booking or withdrawal is in the wrong status for the operation.
	ErrInvalidState = errors.New("invalid state for operation")
	// ErrBelowMinimumWithdrawal is returned for withdrawals under the configured minimum.
	ErrBelowMinimumWithdrawal = errors.New("amount below minimum withdrawal")
	// ErrPaymentNotSuccessful is returned when the provider reports a payment that did not succeed.
	ErrPaymentNotSuccessful = errors.New("payment not successful")
	// ErrExternalProvider is returned when a payment or transfer call failed or timed out.
	ErrExternalProvider = errors.New("external provider failure")
	// ErrSettlementFailed is returned when a settlement step failed and every earlier step was compensated.
	ErrSettlementFailed = errors.New("settlement failed")
	// ErrSettlementInconsistency is returned when a compensation itself failed. The ledger and the
	// wallets may disagree until an operator reconciles them.
	ErrSettlementInconsistency = errors.New("settlement inconsistency")
	// ErrEngineHalted is returned by automatic processing after an inconsistency until it is acknowledged.
	ErrEngineHalted = errors.New("settlement engine halted")
	// ErrConcurrentUpdate is returned when optimistic retries were exhausted.
	ErrConcurrentUpdate = errors.New("too many concurrent updates")
)
