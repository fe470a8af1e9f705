// Package convert performs currency conversion between the native integer
// unit and fiat cents using an operator-supplied exchange rate.
package convert

import (
	"errors"

	"github.com/shopspring/decimal"

	"lnwallet/internal/domain"
)

// ErrRateUnavailable is returned when a conversion is requested without a
// known exchange rate. It never aborts a reconciliation cycle.
var ErrRateUnavailable = errors.New("exchange rate unavailable")

// roundingPlaces is the precision of the intermediate fiat amount; the
// final rounding to whole cents happens only at display time.
const roundingPlaces = 3

var tokensPerCoin = decimal.NewFromInt(domain.TokensPerCoin)

// ToFiat converts a native amount to fiat cents:
// cents = tokens * centsPerCoin / TokensPerCoin, rounded half-up at three
// decimal places. Use WholeCents for display rounding.
func ToFiat(tokens domain.Tokens, centsPerCoin int64) (decimal.Decimal, error) {
	if centsPerCoin <= 0 {
		return decimal.Zero, ErrRateUnavailable
	}

	cents := decimal.NewFromUint64(uint64(tokens)).
		Mul(decimal.NewFromInt(centsPerCoin)).
		Div(tokensPerCoin)

	// decimal.Round rounds half away from zero, which is half-up for the
	// non-negative amounts handled here.
	return cents.Round(roundingPlaces), nil
}

// WholeCents rounds a cent amount half-up to whole cents for display.
func WholeCents(cents decimal.Decimal) int64 {
	return cents.Round(0).IntPart()
}

// ToNative converts fiat cents (possibly fractional) to native tokens:
// tokens = cents / centsPerCoin * TokensPerCoin, same rounding policy,
// floored to a non-negative integer. Amounts below one smallest unit
// clamp to zero; the result is never negative.
func ToNative(cents decimal.Decimal, centsPerCoin int64) (domain.Tokens, error) {
	if centsPerCoin <= 0 {
		return 0, ErrRateUnavailable
	}

	tokens := cents.
		Div(decimal.NewFromInt(centsPerCoin)).
		Mul(tokensPerCoin).
		Round(roundingPlaces).
		Floor()

	if tokens.IsNegative() {
		return 0, nil
	}
	return domain.Tokens(tokens.IntPart()), nil
}

// CoinsToTokens converts a decimal coin amount (e.g. parsed user input)
// to tokens, flooring to the smallest unit and clamping negatives to zero.
func CoinsToTokens(coins decimal.Decimal) domain.Tokens {
	tokens := coins.Mul(tokensPerCoin).Floor()
	if tokens.IsNegative() {
		return 0
	}
	return domain.Tokens(tokens.IntPart())
}
