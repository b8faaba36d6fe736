package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// AssetService transfer capability of one account-based asset.
// Every call either moves the full amount or nothing.
type AssetService interface {
	// TransferFrom moves amount from owner to `to` using the vault's allowance
	TransferFrom(ctx context.Context, owner, to string, amount decimal.Decimal) error
	// Transfer moves amount out of the vault
	Transfer(ctx context.Context, to string, amount decimal.Decimal) error
	BalanceOf(ctx context.Context, holder string) (decimal.Decimal, error)
}
