package lending

import (
	"math/big"

	"github.com/shopspring/decimal"
)

var (
	// Precision fixed point scale of every amount, price and ratio (1e18)
	Precision int32 = 18
	// SecondsPerYear seconds per year
	SecondsPerYear int64 = 31_536_000
	// InterestRatePercent fixed simple interest APR in percent
	InterestRatePercent int64 = 3
	// DefaultLTVMax max loan-to-value for new borrows and withdrawals
	DefaultLTVMax = decimal.New(75, -2)
	// DefaultLiquidationThreshold ltv above which a position is liquidatable
	DefaultLiquidationThreshold = decimal.New(80, -2)
	// DefaultLiquidationBonus extra collateral awarded to liquidators
	DefaultLiquidationBonus = decimal.New(5, -2)

	one = decimal.NewFromInt(1)
	ulp = decimal.New(1, -Precision)
)

// MaxHealthFactor the largest value representable in 256 bits at 18 decimals,
// reported for positions without debt
var MaxHealthFactor = func() decimal.Decimal {
	max := new(big.Int).Lsh(big.NewInt(1), 256)
	max.Sub(max, big.NewInt(1))
	return decimal.NewFromBigInt(max, -Precision)
}()

// One 1.0
func One() decimal.Decimal {
	return one
}

// Truncate truncate at Precision
func Truncate(d decimal.Decimal) decimal.Decimal {
	return d.Truncate(Precision)
}

// MulDiv a*b/c truncated at Precision, zero if c is zero
func MulDiv(a, b, c decimal.Decimal) decimal.Decimal {
	if c.IsZero() {
		return decimal.Zero
	}

	q, _ := a.Mul(b).QuoRem(c, Precision)
	return q
}

// DivCeil a/b rounded up at Precision, zero if b is zero
func DivCeil(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return decimal.Zero
	}

	q, r := a.QuoRem(b, Precision)
	if !r.IsZero() {
		q = q.Add(ulp)
	}

	return q
}

// Min the smaller one
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}

	return b
}
