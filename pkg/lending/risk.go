package lending

import (
	"strings"

	"twapvault/core"

	"github.com/shopspring/decimal"
)

// Params risk parameters of the ledger
type Params struct {
	LTVMax               decimal.Decimal
	LiquidationThreshold decimal.Decimal
	LiquidationBonus     decimal.Decimal
	MaxCollateral        decimal.Decimal
	MaxDebt              decimal.Decimal
	SeizeMode            SeizeMode
}

// DefaultParams 75% ltv, 80% threshold, 5% bonus and no caps
func DefaultParams() Params {
	return Params{
		LTVMax:               DefaultLTVMax,
		LiquidationThreshold: DefaultLiquidationThreshold,
		LiquidationBonus:     DefaultLiquidationBonus,
		MaxCollateral:        MaxHealthFactor,
		MaxDebt:              MaxHealthFactor,
		SeizeMode:            SeizeAtPrice,
	}
}

// SeizeMode how repaid debt converts into seized collateral
type SeizeMode int

const (
	// SeizeAtPrice seize = repay * (1 + bonus) / price
	SeizeAtPrice SeizeMode = iota
	// SeizeNominal seize = repay * (1 + bonus), debt and collateral share one unit
	SeizeNominal
)

// ParseSeizeMode "nominal" or anything else for priced
func ParseSeizeMode(s string) SeizeMode {
	if strings.EqualFold(strings.TrimSpace(s), "nominal") {
		return SeizeNominal
	}

	return SeizeAtPrice
}

func (m SeizeMode) String() string {
	if m == SeizeNominal {
		return "nominal"
	}

	return "price"
}

// CollateralValue collateral * price
func CollateralValue(collateral, price decimal.Decimal) decimal.Decimal {
	return Truncate(collateral.Mul(price))
}

// HealthFactor collateral * price * threshold / debt
//
// MaxHealthFactor if debt is zero whatever the collateral or price is.
func HealthFactor(collateral, debt, price, threshold decimal.Decimal) decimal.Decimal {
	if !debt.IsPositive() {
		return MaxHealthFactor
	}

	return MulDiv(CollateralValue(collateral, price), threshold, debt)
}

// IsLiquidatable health factor below 1
func IsLiquidatable(health decimal.Decimal) bool {
	return health.LessThan(one)
}

// BorrowLimit collateral * price * ltv, the total debt a position may carry
func BorrowLimit(collateral, price, ltv decimal.Decimal) decimal.Decimal {
	return Truncate(CollateralValue(collateral, price).Mul(ltv))
}

// MaxBorrow additional debt allowed on top of the current debt
func MaxBorrow(collateral, debt, price, ltv decimal.Decimal) decimal.Decimal {
	limit := BorrowLimit(collateral, price, ltv)
	if limit.LessThanOrEqual(debt) {
		return decimal.Zero
	}

	return limit.Sub(debt)
}

// MaxWithdraw collateral that can leave while the rest still backs the debt at ltv
//
// required = ceil(debt / (price * ltv))
func MaxWithdraw(collateral, debt, price, ltv decimal.Decimal) decimal.Decimal {
	if !debt.IsPositive() {
		return collateral
	}

	perUnit := Truncate(price.Mul(ltv))
	if !perUnit.IsPositive() {
		return decimal.Zero
	}

	required := DivCeil(debt, perUnit)
	if required.GreaterThanOrEqual(collateral) {
		return decimal.Zero
	}

	return collateral.Sub(required)
}

// WithdrawAllowed the remaining collateral still covers the debt at ltv
func WithdrawAllowed(collateral, debt, amount, price, ltv decimal.Decimal) bool {
	if amount.GreaterThan(collateral) {
		return false
	}

	if !debt.IsPositive() {
		return true
	}

	return BorrowLimit(collateral.Sub(amount), price, ltv).GreaterThanOrEqual(debt)
}

// BorrowAllowed debt + amount stays within the borrow limit
func BorrowAllowed(collateral, debt, amount, price, ltv decimal.Decimal) bool {
	return debt.Add(amount).LessThanOrEqual(BorrowLimit(collateral, price, ltv))
}

// SeizeAmount collateral paid out for repaying debt
func SeizeAmount(repay, price, bonus decimal.Decimal, mode SeizeMode) decimal.Decimal {
	gross := Truncate(repay.Mul(one.Add(bonus)))
	if mode == SeizeNominal {
		return gross
	}

	if !price.IsPositive() {
		return decimal.Zero
	}

	q, _ := gross.QuoRem(price, Precision)
	return q
}

// RepayForSeize debt covered by seizing the given collateral, inverse of SeizeAmount rounded down
func RepayForSeize(seize, price, bonus decimal.Decimal, mode SeizeMode) decimal.Decimal {
	value := seize
	if mode == SeizeAtPrice {
		value = CollateralValue(seize, price)
	}

	q, _ := value.QuoRem(one.Add(bonus), Precision)
	return q
}

// Liquidation amounts of one liquidation
type Liquidation struct {
	Repay decimal.Decimal
	Seize decimal.Decimal
}

// ComputeLiquidation repay = min(maxRepay, debt), seize follows the mode.
// If the seize exceeds the collateral, all collateral is seized and repay shrinks to what it covers.
func ComputeLiquidation(collateral, debt, maxRepay, price, bonus decimal.Decimal, mode SeizeMode) Liquidation {
	repay := Min(maxRepay, debt)
	seize := SeizeAmount(repay, price, bonus, mode)

	if seize.GreaterThan(collateral) {
		seize = collateral
		repay = Min(repay, RepayForSeize(collateral, price, bonus, mode))
	}

	return Liquidation{Repay: repay, Seize: seize}
}

// Require return the code as error if the condition fails
func Require(condition bool, code core.ErrorCode) error {
	if condition {
		return nil
	}

	return code
}
