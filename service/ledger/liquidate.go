package ledger

import (
	"context"

	"twapvault/core"
	"twapvault/pkg/lending"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

// Liquidate repay up to maxRepay of an unhealthy account's debt and seize its collateral with the bonus
func (s *service) Liquidate(ctx context.Context, liquidator, account string, maxRepay decimal.Decimal) (*core.LiquidationResult, error) {
	var result *core.LiquidationResult

	err := s.run(ctx, "liquidate", account, func(ctx context.Context, op *operation) error {
		log := logger.FromContext(ctx).WithField("liquidator", liquidator)

		if err := validAmount(maxRepay); err != nil {
			return err
		}

		in, err := op.tx.InRegistry(account)
		if err != nil {
			return err
		}

		if !in && s.cfg.StrictRegistry {
			return core.ErrUserNotInRegistry
		}

		position, interest, err := op.load(account)
		if err != nil {
			return err
		}

		price, err := op.priceOf(ctx)
		if err != nil {
			return err
		}

		before := s.health(position, price)
		if !lending.IsLiquidatable(before) {
			log.WithField("health", before).Infoln("not liquidatable")
			return core.ErrNotLiquidatable
		}

		if !in {
			log.Infoln("account not indexed yet, eligible by fresh health")
		}

		liq := lending.ComputeLiquidation(position.Collateral, position.Debt, maxRepay, price, s.cfg.LiquidationBonus, s.cfg.SeizeMode)
		if err := lending.Require(liq.Repay.IsPositive(), core.ErrNotLiquidatable); err != nil {
			log.Infoln("nothing to seize")
			return err
		}

		position.Debt = position.Debt.Sub(liq.Repay)
		position.Collateral = position.Collateral.Sub(liq.Seize)
		op.market.TotalDebt = op.market.TotalDebt.Sub(liq.Repay)
		op.market.TotalCollateral = op.market.TotalCollateral.Sub(liq.Seize)
		if err := op.save(position); err != nil {
			return err
		}

		if err := s.refresh(ctx, op, position, true); err != nil {
			return err
		}

		still, err := op.tx.InRegistry(account)
		if err != nil {
			return err
		}

		op.journal.pull(s.borrowed, liquidator, s.cfg.Vault, liq.Repay)
		op.journal.push(s.collateral, s.cfg.Vault, liquidator, liq.Seize)
		op.emit(core.EventLiquidate, account, liquidator, liq.Repay, core.NewEventExtra().
			Put(core.EventKeySeized, liq.Seize).
			Put(core.EventKeyPrice, price).
			Put(core.EventKeyInterest, interest))
		op.emitPositionUpdated(position)

		result = &core.LiquidationResult{
			Account:         account,
			Liquidator:      liquidator,
			Repaid:          liq.Repay,
			Seized:          liq.Seize,
			Price:           price,
			HealthBefore:    before,
			HealthAfter:     s.health(position, price),
			StillInRegistry: still,
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return result, nil
}
