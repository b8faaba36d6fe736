// Package tickmath converts concentrated liquidity pool ticks into prices.
//
// Ratios are Q64.96 fixed point square roots of token1/token0, as produced by
// the pool's own tick math. Prices are 18 decimals fixed point.
package tickmath

import (
	"errors"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

const (
	// MinTick the lowest tick a pool can observe
	MinTick int32 = -887272
	// MaxTick the highest tick a pool can observe
	MaxTick int32 = 887272
	// Decimals price precision
	Decimals = 18
)

var (
	// ErrTickOutOfRange tick beyond [MinTick, MaxTick]
	ErrTickOutOfRange = errors.New("tickmath: tick out of range")
	// ErrOverflow intermediate value does not fit in 256 bits
	ErrOverflow = errors.New("tickmath: overflow")
)

var (
	// MinSqrtRatio sqrt ratio at MinTick
	MinSqrtRatio = uint256.NewInt(4295128739)
	// MaxSqrtRatio sqrt ratio at MaxTick
	MaxSqrtRatio = uint256.MustFromDecimal("1461446703485210103287273052203988822378723970342")

	q64  = new(uint256.Int).Lsh(uint256.NewInt(1), 64)
	q128 = new(uint256.Int).Lsh(uint256.NewInt(1), 128)
	q192 = new(uint256.Int).Lsh(uint256.NewInt(1), 192)
	// largest sqrt ratio whose square still fits in 256 bits
	maxSquarable = new(uint256.Int).Sub(q128, uint256.NewInt(1))
	priceScale   = uint256.NewInt(1_000_000_000_000_000_000)
	q32Mask      = uint256.NewInt(0xffffffff)
	maxUint256   = new(uint256.Int).SetAllOne()

	ratioOdd  = uint256.MustFromHex("0xfffcb933bd6fad37aa2d162d1a594001")
	ratioEven = new(uint256.Int).Set(q128)

	// 1 / sqrt(1.0001)^(2^i) in Q128.128, for i = 1..19
	magicRatios = []*uint256.Int{
		uint256.MustFromHex("0xfff97272373d413259a46990580e213a"),
		uint256.MustFromHex("0xfff2e50f5f656932ef12357cf3c7fdcc"),
		uint256.MustFromHex("0xffe5caca7e10e4e61c3624eaa0941cd0"),
		uint256.MustFromHex("0xffcb9843d60f6159c9db58835c926644"),
		uint256.MustFromHex("0xff973b41fa98c081472e6896dfb254c0"),
		uint256.MustFromHex("0xff2ea16466c96a3843ec78b326b52861"),
		uint256.MustFromHex("0xfe5dee046a99a2a811c461f1969c3053"),
		uint256.MustFromHex("0xfcbe86c7900a88aedcffc83b479aa3a4"),
		uint256.MustFromHex("0xf987a7253ac413176f2b074cf7815e54"),
		uint256.MustFromHex("0xf3392b0822b70005940c7a398e4b70f3"),
		uint256.MustFromHex("0xe7159475a2c29b7443b29c7fa6e889d9"),
		uint256.MustFromHex("0xd097f3bdfd2022b8845ad8f792aa5825"),
		uint256.MustFromHex("0xa9f746462d870fdf8a65dc1f90e061e5"),
		uint256.MustFromHex("0x70d869a156d2a1b890bb3df62baf32f7"),
		uint256.MustFromHex("0x31be135f97d08fd981231505542fcfa6"),
		uint256.MustFromHex("0x9aa508b5b7a84e1c677de54f3e99bc9"),
		uint256.MustFromHex("0x5d6af8dedb81196699c329225ee604"),
		uint256.MustFromHex("0x2216e584f5fa1ea926041bedfe98"),
		uint256.MustFromHex("0x48a170391f7dc42444e8fa2"),
	}
)

// SqrtRatioAtTick sqrt(1.0001^tick) * 2^96, rounded up
func SqrtRatioAtTick(tick int32) (*uint256.Int, error) {
	if tick < MinTick || tick > MaxTick {
		return nil, ErrTickOutOfRange
	}

	absTick := uint32(tick)
	if tick < 0 {
		absTick = uint32(-tick)
	}

	ratio := new(uint256.Int)
	if absTick&1 != 0 {
		ratio.Set(ratioOdd)
	} else {
		ratio.Set(ratioEven)
	}

	for i, magic := range magicRatios {
		if absTick&(1<<uint(i+1)) != 0 {
			ratio.Mul(ratio, magic)
			ratio.Rsh(ratio, 128)
		}
	}

	if tick > 0 {
		ratio.Div(maxUint256, ratio)
	}

	// Q128.128 to Q64.96, rounding up
	rem := new(uint256.Int).And(ratio, q32Mask)
	sqrt := new(uint256.Int).Rsh(ratio, 32)
	if !rem.IsZero() {
		sqrt.AddUint64(sqrt, 1)
	}

	return sqrt, nil
}

// PriceX18FromSqrtRatio sqrtRatio^2 * 1e18 / 2^192
func PriceX18FromSqrtRatio(sqrtRatio *uint256.Int) (*uint256.Int, error) {
	if sqrtRatio.Cmp(maxSquarable) <= 0 {
		square := new(uint256.Int).Mul(sqrtRatio, sqrtRatio)
		price, overflow := new(uint256.Int).MulDivOverflow(square, priceScale, q192)
		if overflow {
			return nil, ErrOverflow
		}

		return price, nil
	}

	// square over 2^64 first so the intermediate stays in 256 bits
	ratioX128, overflow := new(uint256.Int).MulDivOverflow(sqrtRatio, sqrtRatio, q64)
	if overflow {
		return nil, ErrOverflow
	}

	price, overflow := new(uint256.Int).MulDivOverflow(ratioX128, priceScale, q128)
	if overflow {
		return nil, ErrOverflow
	}

	return price, nil
}

// PriceFromSqrtRatio sqrtRatio^2 / 2^192 as a decimal, truncated at 18 decimals
func PriceFromSqrtRatio(sqrtRatio *uint256.Int) (decimal.Decimal, error) {
	x, err := PriceX18FromSqrtRatio(sqrtRatio)
	if err != nil {
		return decimal.Zero, err
	}

	return decimal.NewFromBigInt(x.ToBig(), -Decimals), nil
}

// PriceAtTick 1.0001^tick at 18 decimals
func PriceAtTick(tick int32) (decimal.Decimal, error) {
	sqrt, err := SqrtRatioAtTick(tick)
	if err != nil {
		return decimal.Zero, err
	}

	return PriceFromSqrtRatio(sqrt)
}

// MeanTick (cumNow - cumPast) / window, truncated toward zero
func MeanTick(cumPast, cumNow int64, window uint32) (int32, error) {
	if window == 0 {
		return 0, ErrTickOutOfRange
	}

	mean := (cumNow - cumPast) / int64(window)
	if mean < int64(MinTick) || mean > int64(MaxTick) {
		return 0, ErrTickOutOfRange
	}

	return int32(mean), nil
}
