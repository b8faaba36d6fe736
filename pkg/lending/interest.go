package lending

import (
	"time"

	"twapvault/core"

	"github.com/shopspring/decimal"
)

// PendingInterest interest owed since the last accrual
//
// interest = debt * APR% * seconds / (SecondsPerYear * 100)
//
// Simple interest: compounding only emerges from repeated accruals.
func PendingInterest(position *core.Position, now time.Time) decimal.Decimal {
	if !position.HasDebt() || position.LastAccrued.IsZero() {
		return decimal.Zero
	}

	seconds := now.Unix() - position.LastAccrued.Unix()
	if seconds <= 0 {
		return decimal.Zero
	}

	return MulDiv(
		position.Debt.Mul(decimal.NewFromInt(InterestRatePercent)),
		decimal.NewFromInt(seconds),
		decimal.NewFromInt(SecondsPerYear*100),
	)
}

// AccrueInterest adds the pending interest to the position and stamps LastAccrued.
// Returns the interest added, the caller owns the aggregate update.
func AccrueInterest(position *core.Position, now time.Time) decimal.Decimal {
	if !position.HasDebt() {
		return decimal.Zero
	}

	interest := PendingInterest(position, now)
	if interest.IsPositive() {
		position.Debt = position.Debt.Add(interest)
		position.AccruedInterestTotal = position.AccruedInterestTotal.Add(interest)
	}

	if now.After(position.LastAccrued) {
		position.LastAccrued = now
	}

	return interest
}
