package domain

import "time"

// ConnectionView is a connection with its derived display values.
type ConnectionView struct {
	Connection Connection
	Status     ConnectionStatus
	Balance    Tokens
	BestPingMs *int64
}

// SettledInvoice pairs an invoice with the transaction that settled it.
type SettledInvoice struct {
	Invoice     Invoice
	Transaction Transaction
}

// Snapshot is the immutable, fully-reconciled view produced once per
// refresh cycle. Connections are ordered by public key. Settled carries
// the invoices settled during this cycle only; they are not re-reported
// on later cycles.
type Snapshot struct {
	Seq             uint64
	TakenAt         time.Time
	Connections     []ConnectionView
	Wallet          Wallet
	PendingInvoices []Invoice
	Settled         []SettledInvoice
}
