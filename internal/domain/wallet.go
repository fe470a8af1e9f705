package domain

// Wallet is the polled view of the daemon's transaction feed plus the
// operator-supplied exchange rate. Rebuilt wholesale on every successful
// poll, never patched incrementally.
type Wallet struct {
	Transactions []Transaction
	CentsPerCoin int64 // 0 means no known rate
}
