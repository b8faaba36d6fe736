package core

import (
	"errors"
	"strconv"

	"github.com/fox-one/pkg/store/db"
)

// ErrOptimisticLock the row changed since it was read
var ErrOptimisticLock = db.ErrOptimisticLock

// ErrorCode int
type ErrorCode int

const (
	// ErrUnknown unkown
	ErrUnknown ErrorCode = 100000
	// ErrUnauthorized caller is not an admin
	ErrUnauthorized ErrorCode = 100001
	// ErrReentrantCall nested call into the ledger while an operation is running
	ErrReentrantCall ErrorCode = 100002

	// ErrInvalidAmount invalid amount
	ErrInvalidAmount ErrorCode = 100101
	// ErrMaxCollateralExceeded per-account collateral cap exceeded
	ErrMaxCollateralExceeded ErrorCode = 100102
	// ErrMaxDebtExceeded per-account debt cap exceeded
	ErrMaxDebtExceeded ErrorCode = 100103
	// ErrInsufficientCollateral withdraw more than deposited
	ErrInsufficientCollateral ErrorCode = 100104
	// ErrNoDebtToRepay repay without outstanding debt
	ErrNoDebtToRepay ErrorCode = 100105

	// ErrExcessiveBorrow would breach the max loan-to-value ratio
	ErrExcessiveBorrow ErrorCode = 100201
	// ErrInsufficientLiquidity vault can not fund the borrow
	ErrInsufficientLiquidity ErrorCode = 100202

	// ErrUserNotInRegistry account not indexed as liquidatable
	ErrUserNotInRegistry ErrorCode = 100301
	// ErrNotLiquidatable health factor is not below one
	ErrNotLiquidatable ErrorCode = 100302

	// ErrOracleInsufficientLiquidity pool liquidity below the configured minimum
	ErrOracleInsufficientLiquidity ErrorCode = 100401
	// ErrStalePrice no committed price within the heartbeat
	ErrStalePrice ErrorCode = 100402
	// ErrPriceTooLow price below the sanity bound
	ErrPriceTooLow ErrorCode = 100403
	// ErrPriceTooHigh price above the sanity bound
	ErrPriceTooHigh ErrorCode = 100404
	// ErrPriceChangeTooLarge price moved more than the allowed delta
	ErrPriceChangeTooLarge ErrorCode = 100405
	// ErrPriceOverflow tick math overflowed
	ErrPriceOverflow ErrorCode = 100406

	// ErrTransferFailed asset transfer failed
	ErrTransferFailed ErrorCode = 100501
)

// ErrorCategory groups error codes by how a caller should react
type ErrorCategory int

const (
	// CategoryUnknown unexpected failure
	CategoryUnknown ErrorCategory = iota
	// CategoryInput will never succeed with the same arguments
	CategoryInput
	// CategorySolvency breaches a safety ratio or vault liquidity
	CategorySolvency
	// CategoryEligibility not currently liquidatable
	CategoryEligibility
	// CategoryOracle try again later
	CategoryOracle
	// CategoryTransfer asset movement failed
	CategoryTransfer
	// CategoryPermission admin gate or reentrancy latch
	CategoryPermission
)

// Category category of the error code
func (e ErrorCode) Category() ErrorCategory {
	switch {
	case e == ErrUnauthorized || e == ErrReentrantCall:
		return CategoryPermission
	case e >= 100100 && e < 100200:
		return CategoryInput
	case e >= 100200 && e < 100300:
		return CategorySolvency
	case e >= 100300 && e < 100400:
		return CategoryEligibility
	case e >= 100400 && e < 100500:
		return CategoryOracle
	case e >= 100500 && e < 100600:
		return CategoryTransfer
	default:
		return CategoryUnknown
	}
}

// Retryable oracle failures may clear up without any change by the caller
func (e ErrorCode) Retryable() bool {
	return e.Category() == CategoryOracle
}

func (e ErrorCode) String() string {
	return strconv.Itoa(int(e))
}

func (e ErrorCode) Error() string {
	return e.String()
}

// CodeOf the ErrorCode wrapped in err, ErrUnknown if there is none
func CodeOf(err error) ErrorCode {
	var code ErrorCode
	if errors.As(err, &code) {
		return code
	}

	return ErrUnknown
}
