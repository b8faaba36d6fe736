package sweeper

import (
	"context"
	"testing"
	"time"

	"twapvault/core"
	"twapvault/service/asset"
	"twapvault/service/ledger"
	"twapvault/store/memory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type feed struct {
	price decimal.Decimal
}

func (f *feed) GetTwapPrice(_ context.Context) (decimal.Decimal, error) {
	return f.price, nil
}

func TestSweeper(t *testing.T) {
	ctx := context.Background()
	price := &feed{price: decimal.NewFromInt(2000)}

	weth := asset.NewToken("WETH", "vault")
	usdc := asset.NewToken("USDC", "vault")
	usdc.Mint("vault", decimal.NewFromInt(1_000_000))

	system := &core.System{Admins: []string{"admin"}}
	l := ledger.New(memory.New(), price, weth, usdc, system, ledger.Config{Vault: "vault"})

	for _, account := range []string{"alice", "bob", "carol"} {
		weth.Mint(account, decimal.NewFromInt(10))
		weth.Approve(account, decimal.NewFromInt(10))
		require.NoError(t, l.Deposit(ctx, account, decimal.NewFromInt(10)))
		require.NoError(t, l.Borrow(ctx, account, decimal.NewFromInt(15000)))
	}

	price.price = decimal.NewFromInt(1500)
	for _, account := range []string{"alice", "bob", "carol"} {
		_, err := l.UpdateLiquidationStatus(ctx, account)
		require.NoError(t, err)
	}

	price.price = decimal.NewFromInt(2000)
	w := New(l, "admin", 2, time.Minute)

	require.NoError(t, w.Round(ctx))
	registry, _ := l.Registry(ctx)
	assert.Len(t, registry, 1)

	require.NoError(t, w.Round(ctx))
	registry, _ = l.Registry(ctx)
	assert.Empty(t, registry)

	// a non admin caller is a configuration error
	assert.ErrorIs(t, New(l, "bob", 2, time.Minute).Round(ctx), core.ErrUnauthorized)
}
