package models

// Transaction is the event published for every applied ledger entry.
type Transaction struct {
	TransactionID string `json:"transaction_id"` // TransactionID is the ledger entry id.
	Timestamp     int64  `json:"timestamp"`      // Timestamp is the Unix time (seconds) the entry was applied.
	Amount        int64  `json:"amount"`         // Amount is the signed amount in minor units.
	UserID        string `json:"user_id"`        // UserID owns the affected wallet.
	Operation     string `json:"operation"`      // Operation is the ledger entry type.
	Reference     string `json:"reference"`      // Reference is the booking, withdrawal or payment reference.
}

// Notification is a message for the fire-and-forget notification sink.
type Notification struct {
	UserID         string `json:"user_id"`
	Title          string `json:"title"`
	Message        string `json:"message"`
	IdempotencyKey string `json:"idempotency_key"`
}
