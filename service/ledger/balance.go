package ledger

import (
	"context"

	"twapvault/core"
	"twapvault/pkg/lending"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

func validAmount(amount decimal.Decimal) error {
	return lending.Require(amount.IsPositive() && amount.Equal(lending.Truncate(amount)), core.ErrInvalidAmount)
}

// Deposit pull collateral from the account into the vault
func (s *service) Deposit(ctx context.Context, account string, amount decimal.Decimal) error {
	return s.run(ctx, "deposit", account, func(ctx context.Context, op *operation) error {
		if err := validAmount(amount); err != nil {
			return err
		}

		position, interest, err := op.load(account)
		if err != nil {
			return err
		}

		collateral := position.Collateral.Add(amount)
		if err := lending.Require(collateral.LessThanOrEqual(s.cfg.MaxCollateral), core.ErrMaxCollateralExceeded); err != nil {
			return err
		}

		position.Collateral = collateral
		op.market.TotalCollateral = op.market.TotalCollateral.Add(amount)
		if err := op.save(position); err != nil {
			return err
		}

		if err := s.refresh(ctx, op, position, false); err != nil {
			return err
		}

		op.journal.pull(s.collateral, account, s.cfg.Vault, amount)
		op.emit(core.EventDeposit, account, "", amount, core.NewEventExtra().
			Put(core.EventKeyInterest, interest))
		op.emitPositionUpdated(position)
		return nil
	})
}

// Withdraw push collateral back to the account while the rest still backs the debt
func (s *service) Withdraw(ctx context.Context, account string, amount decimal.Decimal) error {
	return s.run(ctx, "withdraw", account, func(ctx context.Context, op *operation) error {
		if err := validAmount(amount); err != nil {
			return err
		}

		position, interest, err := op.load(account)
		if err != nil {
			return err
		}

		if err := lending.Require(amount.LessThanOrEqual(position.Collateral), core.ErrInsufficientCollateral); err != nil {
			return err
		}

		if position.HasDebt() {
			price, err := op.priceOf(ctx)
			if err != nil {
				return err
			}

			allowed := lending.WithdrawAllowed(position.Collateral, position.Debt, amount, price, s.cfg.LTVMax)
			if err := lending.Require(allowed, core.ErrExcessiveBorrow); err != nil {
				return err
			}
		}

		position.Collateral = position.Collateral.Sub(amount)
		op.market.TotalCollateral = op.market.TotalCollateral.Sub(amount)
		if err := op.save(position); err != nil {
			return err
		}

		if err := s.refresh(ctx, op, position, true); err != nil {
			return err
		}

		op.journal.push(s.collateral, s.cfg.Vault, account, amount)
		op.emit(core.EventWithdraw, account, "", amount, core.NewEventExtra().
			Put(core.EventKeyInterest, interest))
		op.emitPositionUpdated(position)
		return nil
	})
}

// Borrow push the borrowed asset to the account within the ltv limit
func (s *service) Borrow(ctx context.Context, account string, amount decimal.Decimal) error {
	return s.run(ctx, "borrow", account, func(ctx context.Context, op *operation) error {
		if err := validAmount(amount); err != nil {
			return err
		}

		position, interest, err := op.load(account)
		if err != nil {
			return err
		}

		debt := position.Debt.Add(amount)
		if err := lending.Require(debt.LessThanOrEqual(s.cfg.MaxDebt), core.ErrMaxDebtExceeded); err != nil {
			return err
		}

		price, err := op.priceOf(ctx)
		if err != nil {
			return err
		}

		allowed := lending.BorrowAllowed(position.Collateral, position.Debt, amount, price, s.cfg.LTVMax)
		if err := lending.Require(allowed, core.ErrExcessiveBorrow); err != nil {
			return err
		}

		cash, err := s.borrowed.BalanceOf(ctx, s.cfg.Vault)
		if err != nil {
			logger.FromContext(ctx).WithError(err).Errorln("borrowed.BalanceOf")
			return err
		}

		if err := lending.Require(cash.GreaterThanOrEqual(amount), core.ErrInsufficientLiquidity); err != nil {
			return err
		}

		position.Debt = debt
		op.market.TotalDebt = op.market.TotalDebt.Add(amount)
		if err := op.save(position); err != nil {
			return err
		}

		if err := s.refresh(ctx, op, position, true); err != nil {
			return err
		}

		op.journal.push(s.borrowed, s.cfg.Vault, account, amount)
		op.emit(core.EventBorrow, account, "", amount, core.NewEventExtra().
			Put(core.EventKeyInterest, interest).
			Put(core.EventKeyPrice, price))
		op.emitPositionUpdated(position)
		return nil
	})
}

// Repay pull the borrowed asset from the account, at most the outstanding debt
func (s *service) Repay(ctx context.Context, account string, amount decimal.Decimal) error {
	return s.run(ctx, "repay", account, func(ctx context.Context, op *operation) error {
		if err := validAmount(amount); err != nil {
			return err
		}

		position, interest, err := op.load(account)
		if err != nil {
			return err
		}

		if err := lending.Require(position.HasDebt(), core.ErrNoDebtToRepay); err != nil {
			return err
		}

		repaid := lending.Min(amount, position.Debt)
		position.Debt = position.Debt.Sub(repaid)
		op.market.TotalDebt = op.market.TotalDebt.Sub(repaid)
		if err := op.save(position); err != nil {
			return err
		}

		if err := s.refresh(ctx, op, position, false); err != nil {
			return err
		}

		op.journal.pull(s.borrowed, account, s.cfg.Vault, repaid)
		op.emit(core.EventRepay, account, "", repaid, core.NewEventExtra().
			Put(core.EventKeyInterest, interest))
		op.emitPositionUpdated(position)
		return nil
	})
}
