package domain

import "time"

// TransactionType discriminates the transaction variants the daemon reports.
type TransactionType string

// Transaction variants.
const (
	TransactionChain    TransactionType = "chain"
	TransactionSent     TransactionType = "sent"
	TransactionReceived TransactionType = "received"
)

// Transaction is one entry of the daemon's transaction feed. Exactly one
// variant applies; the variant-specific fields below are meaningful only
// for the matching Type. Read-only from this core's perspective.
type Transaction struct {
	ID        string
	Tokens    Tokens
	CreatedAt time.Time
	Type      TransactionType

	// chain
	ChainAddress string

	// sent
	Recipient string

	// received
	Memo      string
	Confirmed bool
}
