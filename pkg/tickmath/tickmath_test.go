package tickmath

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSqrtRatioAtTick(t *testing.T) {
	cases := []struct {
		tick int32
		want string
	}{
		{0, "79228162514264337593543950336"},
		{MinTick, "4295128739"},
		{MaxTick, "1461446703485210103287273052203988822378723970342"},
	}

	for _, c := range cases {
		sqrt, err := SqrtRatioAtTick(c.tick)
		require.NoError(t, err)
		assert.Equal(t, c.want, sqrt.Dec(), "tick %d", c.tick)
	}

	assert.Equal(t, MinSqrtRatio.Dec(), mustSqrt(t, MinTick).Dec())
	assert.Equal(t, MaxSqrtRatio.Dec(), mustSqrt(t, MaxTick).Dec())

	_, err := SqrtRatioAtTick(MaxTick + 1)
	assert.ErrorIs(t, err, ErrTickOutOfRange)
	_, err = SqrtRatioAtTick(MinTick - 1)
	assert.ErrorIs(t, err, ErrTickOutOfRange)
}

func TestSqrtRatioMonotonic(t *testing.T) {
	prev := mustSqrt(t, -1000)
	for tick := int32(-999); tick <= 1000; tick++ {
		cur := mustSqrt(t, tick)
		assert.True(t, cur.Gt(prev), "tick %d", tick)
		prev = cur
	}
}

func TestPriceAtTick(t *testing.T) {
	price, err := PriceAtTick(0)
	require.NoError(t, err)
	assert.Equal(t, "1", price.String())

	// 1.0001^69082 ~ 1000
	price, err = PriceAtTick(69082)
	require.NoError(t, err)
	assert.InDelta(t, 1000, price.InexactFloat64(), 0.5)

	inverse, err := PriceAtTick(-69082)
	require.NoError(t, err)
	assert.InDelta(t, 0.001, inverse.InexactFloat64(), 0.000001)

	// representable without overflow at both extremes
	_, err = PriceAtTick(MaxTick)
	assert.NoError(t, err)
	low, err := PriceAtTick(MinTick)
	assert.NoError(t, err)
	assert.True(t, low.IsZero())
}

func TestPriceFromSqrtRatio(t *testing.T) {
	// 2^96 * 2 squares to 4
	sqrt := new(uint256.Int).Lsh(uint256.NewInt(2), 96)
	price, err := PriceFromSqrtRatio(sqrt)
	require.NoError(t, err)
	assert.Equal(t, "4", price.String())

	// above 2^128 takes the wide path
	wide := new(uint256.Int).Lsh(uint256.NewInt(1), 130)
	price, err = PriceFromSqrtRatio(wide)
	require.NoError(t, err)
	// (2^130)^2 / 2^192 = 2^68
	assert.Equal(t, "295147905179352825856", price.String())

	_, err = PriceFromSqrtRatio(new(uint256.Int).SetAllOne())
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestMeanTick(t *testing.T) {
	tick, err := MeanTick(0, 1800*100, 1800)
	require.NoError(t, err)
	assert.EqualValues(t, 100, tick)

	// truncates toward zero
	tick, err = MeanTick(0, -1801, 1800)
	require.NoError(t, err)
	assert.EqualValues(t, -1, tick)

	_, err = MeanTick(0, 1, 0)
	assert.Error(t, err)

	_, err = MeanTick(0, int64(MaxTick+1)*10, 10)
	assert.ErrorIs(t, err, ErrTickOutOfRange)
}

func mustSqrt(t *testing.T, tick int32) *uint256.Int {
	t.Helper()
	sqrt, err := SqrtRatioAtTick(tick)
	require.NoError(t, err)
	return sqrt
}
