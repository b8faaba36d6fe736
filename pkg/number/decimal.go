package number

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// Decimal parse v, zero on error
func Decimal(v string) decimal.Decimal {
	d, _ := decimal.NewFromString(v)
	return d
}

// Parse parse a non-negative decimal, empty string falls back to def
func Parse(v string, def decimal.Decimal) (decimal.Decimal, error) {
	if v == "" {
		return def, nil
	}

	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse decimal %q: %w", v, err)
	}

	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative decimal %q", v)
	}

	return d, nil
}

// Ceil round up at precision
func Ceil(d decimal.Decimal, precision int32) decimal.Decimal {
	return d.Shift(precision).Ceil().Shift(-precision)
}

// FromUint256 x scaled down by 10^decimals
func FromUint256(x *uint256.Int, decimals int32) decimal.Decimal {
	if x == nil {
		return decimal.Zero
	}

	return decimal.NewFromBigInt(x.ToBig(), -decimals)
}

// ToUint256 d scaled up by 10^decimals, digits beyond are truncated
func ToUint256(d decimal.Decimal, decimals int32) (*uint256.Int, error) {
	if d.IsNegative() {
		return nil, fmt.Errorf("negative decimal %s", d)
	}

	v, overflow := uint256.FromBig(d.Shift(decimals).Truncate(0).BigInt())
	if overflow {
		return nil, fmt.Errorf("decimal %s overflows uint256", d)
	}

	return v, nil
}
