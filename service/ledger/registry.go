package ledger

import (
	"context"
	"time"

	"twapvault/core"
	"twapvault/pkg/lending"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

// refresh sets the registry membership of position from its fresh health.
// Unless strict, an oracle failure leaves the membership untouched.
func (s *service) refresh(ctx context.Context, op *operation, position *core.Position, strict bool) error {
	want := false
	if position.HasDebt() {
		price, err := op.priceOf(ctx)
		if err != nil {
			if strict {
				return err
			}

			logger.FromContext(ctx).WithError(err).Warnln("registry refresh skipped")
			return nil
		}

		want = lending.IsLiquidatable(s.health(position, price))
	}

	return op.setMembership(position.Account, want)
}

func (op *operation) setMembership(account string, want bool) error {
	in, err := op.tx.InRegistry(account)
	if err != nil {
		return err
	}

	switch {
	case want && !in:
		op.registryTouched = true
		return op.tx.AddToRegistry(account)
	case !want && in:
		op.registryTouched = true
		return op.tx.RemoveFromRegistry(account)
	}

	return nil
}

func (s *service) health(position *core.Position, price decimal.Decimal) decimal.Decimal {
	return lending.HealthFactor(position.Collateral, position.Debt, price, s.cfg.LiquidationThreshold)
}

// withPendingInterest copy of position with the interest owed at now
func withPendingInterest(position *core.Position, now time.Time) *core.Position {
	p := *position
	p.Debt = p.Debt.Add(lending.PendingInterest(position, now))
	return &p
}

// UpdateLiquidationStatus index or drop the account by its fresh health, returns the membership
func (s *service) UpdateLiquidationStatus(ctx context.Context, account string) (bool, error) {
	var member bool
	err := s.run(ctx, "update_status", account, func(ctx context.Context, op *operation) error {
		position, err := op.tx.FindPosition(account)
		if err != nil {
			return err
		}

		position = withPendingInterest(position, op.now)
		if position.HasDebt() {
			price, err := op.priceOf(ctx)
			if err != nil {
				return err
			}

			member = lending.IsLiquidatable(s.health(position, price))
		}

		return op.setMembership(account, member)
	})

	return member, err
}

// SweepRegistry drop up to max indexed accounts that are healthy again, admin only
func (s *service) SweepRegistry(ctx context.Context, caller string, max int) (int, error) {
	if !s.system.IsAdmin(caller) {
		return 0, core.ErrUnauthorized
	}

	if max <= 0 {
		return 0, core.ErrInvalidAmount
	}

	var removed int
	err := s.run(ctx, "sweep", caller, func(ctx context.Context, op *operation) error {
		removed = 0

		accounts, err := op.tx.Registry()
		if err != nil {
			return err
		}

		for _, account := range accounts {
			if removed >= max {
				break
			}

			position, err := op.tx.FindPosition(account)
			if err != nil {
				return err
			}

			position = withPendingInterest(position, op.now)
			if position.HasDebt() {
				price, err := op.priceOf(ctx)
				if err != nil {
					return err
				}

				if lending.IsLiquidatable(s.health(position, price)) {
					continue
				}
			}

			if err := op.setMembership(account, false); err != nil {
				return err
			}
			removed++
		}

		op.emit(core.EventLiquidationListCleaned, caller, "", decimal.NewFromInt(int64(removed)), core.NewEventExtra().
			Put(core.EventKeyRemoved, removed).
			Put(core.EventKeyRemaining, len(accounts)-removed))
		return nil
	})

	return removed, err
}
