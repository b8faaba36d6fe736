package ledger

import (
	"context"

	"twapvault/core"
	"twapvault/pkg/lending"

	"github.com/shopspring/decimal"
)

func (s *service) findPosition(ctx context.Context, account string) (*core.Position, bool, error) {
	var (
		position *core.Position
		in       bool
	)

	err := s.view(ctx, func(tx core.LedgerTx) error {
		p, err := tx.FindPosition(account)
		if err != nil {
			return err
		}

		position = withPendingInterest(p, s.now())
		in, err = tx.InRegistry(account)
		return err
	})

	return position, in, err
}

// GetPosition position with pending interest and its risk values
func (s *service) GetPosition(ctx context.Context, account string) (*core.PositionView, error) {
	position, in, err := s.findPosition(ctx, account)
	if err != nil {
		return nil, err
	}

	view := &core.PositionView{
		Position:     position,
		HealthFactor: lending.MaxHealthFactor,
		MaxBorrow:    decimal.Zero,
		MaxWithdraw:  position.Collateral,
		InRegistry:   in,
	}

	if position.IsEmpty() {
		return view, nil
	}

	price, err := s.oracle.GetTwapPrice(ctx)
	if err != nil {
		return nil, err
	}

	view.HealthFactor = s.health(position, price)
	view.Liquidatable = lending.IsLiquidatable(view.HealthFactor)
	view.MaxBorrow = lending.MaxBorrow(position.Collateral, position.Debt, price, s.cfg.LTVMax)
	view.MaxWithdraw = lending.MaxWithdraw(position.Collateral, position.Debt, price, s.cfg.LTVMax)
	return view, nil
}

// GetHealthFactor MaxHealthFactor without debt, no price is needed then
func (s *service) GetHealthFactor(ctx context.Context, account string) (decimal.Decimal, error) {
	position, _, err := s.findPosition(ctx, account)
	if err != nil {
		return decimal.Zero, err
	}

	if !position.HasDebt() {
		return lending.MaxHealthFactor, nil
	}

	price, err := s.oracle.GetTwapPrice(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	return s.health(position, price), nil
}

func (s *service) IsLiquidatable(ctx context.Context, account string) (bool, error) {
	health, err := s.GetHealthFactor(ctx, account)
	if err != nil {
		return false, err
	}

	return lending.IsLiquidatable(health), nil
}

// GetMaxBorrow additional debt the account can take now
func (s *service) GetMaxBorrow(ctx context.Context, account string) (decimal.Decimal, error) {
	position, _, err := s.findPosition(ctx, account)
	if err != nil {
		return decimal.Zero, err
	}

	if !position.Collateral.IsPositive() {
		return decimal.Zero, nil
	}

	price, err := s.oracle.GetTwapPrice(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	return lending.MaxBorrow(position.Collateral, position.Debt, price, s.cfg.LTVMax), nil
}

// GetMaxWithdraw collateral the account can take out now
func (s *service) GetMaxWithdraw(ctx context.Context, account string) (decimal.Decimal, error) {
	position, _, err := s.findPosition(ctx, account)
	if err != nil {
		return decimal.Zero, err
	}

	if !position.HasDebt() {
		return position.Collateral, nil
	}

	price, err := s.oracle.GetTwapPrice(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	return lending.MaxWithdraw(position.Collateral, position.Debt, price, s.cfg.LTVMax), nil
}

// GetTVL total collateral valued at the twap price
func (s *service) GetTVL(ctx context.Context) (decimal.Decimal, error) {
	market, err := s.GetMarket(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	if market.TotalCollateral.IsZero() {
		return decimal.Zero, nil
	}

	price, err := s.oracle.GetTwapPrice(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	return lending.CollateralValue(market.TotalCollateral, price), nil
}

func (s *service) GetMarket(ctx context.Context) (*core.Market, error) {
	var market *core.Market
	err := s.view(ctx, func(tx core.LedgerTx) error {
		var err error
		market, err = tx.FindMarket()
		return err
	})

	return market, err
}

func (s *service) Registry(ctx context.Context) ([]string, error) {
	var accounts []string
	err := s.view(ctx, func(tx core.LedgerTx) error {
		var err error
		accounts, err = tx.Registry()
		return err
	})

	return accounts, err
}

// Borrowers accounts with outstanding debt
func (s *service) Borrowers(ctx context.Context) ([]string, error) {
	var accounts []string
	err := s.view(ctx, func(tx core.LedgerTx) error {
		positions, err := tx.Positions()
		if err != nil {
			return err
		}

		for _, p := range positions {
			if p.HasDebt() {
				accounts = append(accounts, p.Account)
			}
		}

		return nil
	})

	return accounts, err
}

func (s *service) Events(ctx context.Context, account string, fromID int64, limit int) ([]*core.Event, error) {
	var events []*core.Event
	err := s.view(ctx, func(tx core.LedgerTx) error {
		var err error
		events, err = tx.ListEvents(account, fromID, limit)
		return err
	})

	return events, err
}
