package domain

import "fmt"

// TokensPerCoin is the number of smallest native units in one coin.
const TokensPerCoin = 100_000_000

// Tokens is an amount in the smallest native unit. Always non-negative;
// balance arithmetic stays in integers.
type Tokens uint64

// Formatted renders the amount as a decimal coin value with 8 places.
func (t Tokens) Formatted() string {
	return fmt.Sprintf("%d.%08d", uint64(t)/TokensPerCoin, uint64(t)%TokensPerCoin)
}
