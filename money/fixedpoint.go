// Package money implements the fixed-point payout arithmetic used by the
// settlement engine. Multipliers carry two decimal places and all
// intermediate products go through big.Int, so payouts are exact and
// reproducible regardless of platform float behavior.
package money

import (
	"fmt"
	"math"
	"math/big"
)

// MultiplierScale is the fixed-point scale for win multipliers: two decimal
// places, so a multiplier of 2.5x is stored as 250.
const MultiplierScale = 100

var scaleBig = big.NewInt(MultiplierScale)

// MultiplierFromFloat converts a caller-supplied multiplier into its
// fixed-point representation, truncating beyond two decimals. 2.567 -> 256.
func MultiplierFromFloat(multiplier float64) int64 {
	return int64(math.Floor(multiplier * MultiplierScale))
}

// Winnings computes the payout for a won bet:
//
//	floor(amount * multiplier) / MultiplierScale
//
// with multiplier already in hundredths. The product goes through a big.Int
// so the intermediate cannot wrap, and a quotient that does not fit in an
// int64 is rejected rather than truncated: a settlement whose payout cannot
// be represented must fail, not commit a wrapped amount.
func Winnings(amount, multiplier int64) (int64, error) {
	product := new(big.Int).Mul(big.NewInt(amount), big.NewInt(multiplier))
	product.Quo(product, scaleBig)
	if !product.IsInt64() {
		return 0, fmt.Errorf("payout %s exceeds the representable amount range", product.String())
	}
	return product.Int64(), nil
}
