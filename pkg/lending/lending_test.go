package lending

import (
	"testing"
	"time"

	"twapvault/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestMulDiv(t *testing.T) {
	assert.True(t, d("0.333333333333333333").Equal(MulDiv(d("1"), d("1"), d("3"))))
	assert.True(t, decimal.Zero.Equal(MulDiv(d("1"), d("1"), decimal.Zero)))
	assert.True(t, d("0.333333333333333334").Equal(DivCeil(d("1"), d("3"))))
	assert.True(t, d("2").Equal(DivCeil(d("4"), d("2"))))
}

func TestPendingInterest(t *testing.T) {
	start := time.Unix(1_700_000_000, 0)
	p := &core.Position{
		Debt:        d("1000"),
		LastAccrued: start,
	}

	t.Run("one year is 3%", func(t *testing.T) {
		interest := PendingInterest(p, start.Add(time.Duration(SecondsPerYear)*time.Second))
		assert.Equal(t, "30", interest.String())
	})

	t.Run("no time no interest", func(t *testing.T) {
		assert.True(t, PendingInterest(p, start).IsZero())
		assert.True(t, PendingInterest(p, start.Add(-time.Hour)).IsZero())
	})

	t.Run("no debt no interest", func(t *testing.T) {
		empty := &core.Position{LastAccrued: start}
		assert.True(t, PendingInterest(empty, start.Add(time.Hour)).IsZero())
	})
}

func TestAccrueInterest(t *testing.T) {
	start := time.Unix(1_700_000_000, 0)
	p := &core.Position{
		Debt:                 d("1000"),
		LastAccrued:          start,
		AccruedInterestTotal: decimal.Zero,
	}

	half := start.Add(time.Duration(SecondsPerYear/2) * time.Second)
	interest := AccrueInterest(p, half)
	assert.Equal(t, "15", interest.String())
	assert.Equal(t, "1015", p.Debt.String())
	assert.Equal(t, "15", p.AccruedInterestTotal.String())
	assert.Equal(t, half, p.LastAccrued)

	// a second accrual at the same instant adds nothing
	assert.True(t, AccrueInterest(p, half).IsZero())
	assert.Equal(t, "1015", p.Debt.String())
}

func TestHealthFactor(t *testing.T) {
	threshold := DefaultLiquidationThreshold

	t.Run("zero debt is max", func(t *testing.T) {
		assert.True(t, MaxHealthFactor.Equal(HealthFactor(decimal.Zero, decimal.Zero, d("2000"), threshold)))
		assert.True(t, MaxHealthFactor.Equal(HealthFactor(d("10"), decimal.Zero, decimal.Zero, threshold)))
	})

	t.Run("0.95", func(t *testing.T) {
		health := HealthFactor(d("10"), d("15000"), d("1781.25"), threshold)
		assert.Equal(t, "0.95", health.String())
		assert.True(t, IsLiquidatable(health))
	})

	t.Run("exactly one is healthy", func(t *testing.T) {
		health := HealthFactor(d("10"), d("16000"), d("2000"), threshold)
		assert.True(t, health.Equal(One()))
		assert.False(t, IsLiquidatable(health))
	})
}

func TestBorrowLimits(t *testing.T) {
	ltv := DefaultLTVMax
	price := d("2000")

	assert.Equal(t, "15000", MaxBorrow(d("10"), decimal.Zero, price, ltv).String())
	assert.Equal(t, "5000", MaxBorrow(d("10"), d("10000"), price, ltv).String())
	assert.True(t, MaxBorrow(d("10"), d("16000"), price, ltv).IsZero())

	assert.True(t, BorrowAllowed(d("10"), decimal.Zero, d("15000"), price, ltv))
	assert.False(t, BorrowAllowed(d("10"), decimal.Zero, d("15000.000000000000000001"), price, ltv))
}

func TestWithdrawLimits(t *testing.T) {
	ltv := DefaultLTVMax
	price := d("2000")

	assert.Equal(t, "10", MaxWithdraw(d("10"), decimal.Zero, price, ltv).String())
	// 7500 debt needs 5 collateral at 1500 per unit
	assert.Equal(t, "5", MaxWithdraw(d("10"), d("7500"), price, ltv).String())
	assert.True(t, MaxWithdraw(d("10"), d("15000"), price, ltv).IsZero())

	assert.True(t, WithdrawAllowed(d("10"), d("7500"), d("5"), price, ltv))
	assert.False(t, WithdrawAllowed(d("10"), d("7500"), d("5.000000000000000001"), price, ltv))
	assert.False(t, WithdrawAllowed(d("10"), decimal.Zero, d("11"), price, ltv))
	assert.True(t, WithdrawAllowed(d("10"), decimal.Zero, d("10"), price, ltv))
}

func TestComputeLiquidation(t *testing.T) {
	bonus := DefaultLiquidationBonus

	t.Run("priced", func(t *testing.T) {
		liq := ComputeLiquidation(d("10"), d("15000"), d("20000"), d("1781.25"), bonus, SeizeAtPrice)
		assert.Equal(t, "15000", liq.Repay.String())
		assert.Equal(t, "8.842105263157894736", liq.Seize.String())
	})

	t.Run("nominal", func(t *testing.T) {
		liq := ComputeLiquidation(d("100"), d("75"), d("75"), d("0.890625"), bonus, SeizeNominal)
		assert.Equal(t, "75", liq.Repay.String())
		assert.Equal(t, "78.75", liq.Seize.String())
	})

	t.Run("partial", func(t *testing.T) {
		liq := ComputeLiquidation(d("100"), d("75"), d("10"), d("1"), bonus, SeizeNominal)
		assert.Equal(t, "10", liq.Repay.String())
		assert.Equal(t, "10.5", liq.Seize.String())
	})

	t.Run("clamped to collateral", func(t *testing.T) {
		liq := ComputeLiquidation(d("1"), d("2000"), d("2000"), d("1000"), bonus, SeizeAtPrice)
		assert.Equal(t, "1", liq.Seize.String())
		// 1000 / 1.05
		assert.Equal(t, "952.380952380952380952", liq.Repay.String())
	})
}

func TestParseSeizeMode(t *testing.T) {
	assert.Equal(t, SeizeNominal, ParseSeizeMode(" Nominal "))
	assert.Equal(t, SeizeAtPrice, ParseSeizeMode(""))
	assert.Equal(t, SeizeAtPrice, ParseSeizeMode("price"))
}

func TestRequire(t *testing.T) {
	require.NoError(t, Require(true, core.ErrInvalidAmount))
	err := Require(false, core.ErrInvalidAmount)
	assert.ErrorIs(t, err, core.ErrInvalidAmount)
}
