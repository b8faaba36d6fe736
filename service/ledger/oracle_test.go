package ledger

import (
	"context"
	"testing"
	"time"

	"twapvault/core"
	"twapvault/service/asset"
	"twapvault/service/oracle"
	"twapvault/service/pool"
	"twapvault/store/memory"
	"twapvault/store/oraclestate"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaleOracleBlocksPricedOperations(t *testing.T) {
	ctx := context.Background()
	c := &clock{t: time.Unix(1_700_000_000, 0)}
	system := &core.System{Admins: []string{admin}}

	// tick 0 prices the collateral at exactly 1
	source := pool.NewStatic(0, uint256.NewInt(1_000_000))
	o, err := oracle.New(ctx, source, oraclestate.NewMemory(), system, oracle.DefaultConfig(), oracle.WithClock(c.Now))
	require.NoError(t, err)

	weth := asset.NewToken("WETH", vault)
	usdc := asset.NewToken("USDC", vault)
	usdc.Mint(vault, d("1000"))
	for _, account := range []string{"alice", "bob"} {
		weth.Mint(account, d("100"))
		usdc.Mint(account, d("100"))
		weth.Approve(account, d("1000"))
		usdc.Approve(account, d("1000"))
	}

	cfg := defaultConfig()
	cfg.Vault = vault
	ledger := New(memory.New(), o, weth, usdc, system, cfg, WithClock(c.Now))

	require.NoError(t, ledger.Deposit(ctx, "alice", d("100")))
	require.NoError(t, ledger.Borrow(ctx, "alice", d("10")))

	c.Advance(oracle.DefaultHeartbeat + time.Second)

	assert.ErrorIs(t, ledger.Borrow(ctx, "alice", d("1")), core.ErrStalePrice)
	assert.ErrorIs(t, ledger.Withdraw(ctx, "alice", d("1")), core.ErrStalePrice)
	_, err = ledger.Liquidate(ctx, "bob", "alice", d("1"))
	assert.ErrorIs(t, err, core.ErrStalePrice)
	_, err = ledger.GetHealthFactor(ctx, "alice")
	assert.ErrorIs(t, err, core.ErrStalePrice)

	// unpriced paths stay open
	require.NoError(t, ledger.Deposit(ctx, "bob", d("1")))
	require.NoError(t, ledger.Withdraw(ctx, "bob", d("1")))

	assert.ErrorIs(t, o.UpdatePrice(ctx, "bob", d("1")), core.ErrUnauthorized)
	require.NoError(t, o.UpdatePrice(ctx, admin, d("1")))

	require.NoError(t, ledger.Borrow(ctx, "alice", d("1")))

	health, err := ledger.GetHealthFactor(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, health.GreaterThan(d("7")))
	assertInvariant(t, ledger.(*service).store)
}
