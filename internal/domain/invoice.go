package domain

import "time"

// Invoice is a locally-created payment request. Immutable once the daemon
// acknowledges creation and assigns the id.
type Invoice struct {
	ID             string
	PaymentRequest string
	CreatedAt      time.Time
	Amount         Tokens
	Memo           string
}
