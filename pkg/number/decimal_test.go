package number

import (
	"testing"

	"github.com/bmizerany/assert"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

func TestCeil(t *testing.T) {
	data := map[string]string{
		"0.10304":     "0.11",
		"0.100000001": "0.11",
		"0.108":       "0.11",
		"0.1":         "0.1",
	}

	for k, v := range data {
		t.Run(k, func(t *testing.T) {
			c := Ceil(Decimal(k), 2)
			assert.Equal(t, v, c.String(), "should be ceil")
		})
	}
}

func TestParse(t *testing.T) {
	d, err := Parse("", decimal.NewFromInt(7))
	assert.Equal(t, nil, err)
	assert.Equal(t, "7", d.String())

	d, err = Parse("0.75", decimal.Zero)
	assert.Equal(t, nil, err)
	assert.Equal(t, "0.75", d.String())

	_, err = Parse("-1", decimal.Zero)
	assert.NotEqual(t, nil, err)

	_, err = Parse("abc", decimal.Zero)
	assert.NotEqual(t, nil, err)
}

func TestUint256RoundTrip(t *testing.T) {
	x := uint256.NewInt(1_500_000_000_000_000_000)
	d := FromUint256(x, 18)
	assert.Equal(t, "1.5", d.String())

	y, err := ToUint256(d, 18)
	assert.Equal(t, nil, err)
	assert.Equal(t, x.Dec(), y.Dec())

	y, err = ToUint256(Decimal("0.0000000000000000019"), 18)
	assert.Equal(t, nil, err)
	assert.Equal(t, "1", y.Dec())
}
