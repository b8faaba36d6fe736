package oracle

import (
	"context"
	"testing"
	"time"

	"twapvault/core"
	"twapvault/service/pool"
	"twapvault/store/oraclestate"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const admin = "admin"

type clock struct {
	t time.Time
}

func (c *clock) Now() time.Time {
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

type fixture struct {
	oracle *Oracle
	pool   *pool.Static
	store  core.OracleStore
	clock  *clock
}

func newFixture(t *testing.T, tick int32, cfg Config) *fixture {
	t.Helper()

	c := &clock{t: time.Unix(1_700_000_000, 0)}
	source := pool.NewStatic(tick, uint256.NewInt(1_000_000))
	store := oraclestate.NewMemory()

	o, err := New(context.Background(), source, store, &core.System{Admins: []string{admin}}, cfg, WithClock(c.Now))
	require.NoError(t, err)

	return &fixture{oracle: o, pool: source, store: store, clock: c}
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNew(t *testing.T) {
	ctx := context.Background()
	source := pool.NewStatic(0, uint256.NewInt(1))
	system := &core.System{}

	cfg := DefaultConfig()
	cfg.Window = 0
	_, err := New(ctx, source, oraclestate.NewMemory(), system, cfg)
	assert.Error(t, err)

	cfg = DefaultConfig()
	cfg.MinPrice = d("10")
	cfg.MaxPrice = d("1")
	_, err = New(ctx, source, oraclestate.NewMemory(), system, cfg)
	assert.Error(t, err)

	// the heartbeat starts at the first construction and survives restarts
	store := oraclestate.NewMemory()
	first := time.Unix(1_700_000_000, 0)
	_, err = New(ctx, source, store, system, DefaultConfig(), WithClock(func() time.Time { return first }))
	require.NoError(t, err)

	later := first.Add(2 * time.Hour)
	o, err := New(ctx, source, store, system, DefaultConfig(), WithClock(func() time.Time { return later }))
	require.NoError(t, err)

	view, err := o.State(ctx)
	require.NoError(t, err)
	assert.True(t, first.Equal(view.LastUpdate))
	assert.False(t, view.Healthy)
}

func TestGetTwapPrice(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 0, DefaultConfig())

	price, err := f.oracle.GetTwapPrice(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1", price.String())

	// reads never advance the trust state
	view, _ := f.oracle.State(ctx)
	assert.False(t, view.HasPrice())
}

func TestStaleness(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 0, DefaultConfig())

	f.clock.Advance(DefaultHeartbeat)
	_, err := f.oracle.GetTwapPrice(ctx)
	require.NoError(t, err, "exactly at the heartbeat is fresh")

	f.clock.Advance(time.Second)
	_, err = f.oracle.GetTwapPrice(ctx)
	assert.ErrorIs(t, err, core.ErrStalePrice)

	healthy, _ := f.oracle.IsHealthy(ctx)
	assert.False(t, healthy)

	// the instantaneous price ignores the heartbeat
	latest, err := f.oracle.GetLatestPrice(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1", latest.String())

	// only an explicit commit restarts the clock
	require.NoError(t, f.oracle.UpdatePrice(ctx, admin, d("1")))
	_, err = f.oracle.GetTwapPrice(ctx)
	assert.NoError(t, err)

	f.clock.Advance(DefaultHeartbeat + time.Second)
	_, err = f.oracle.GetTwapPrice(ctx)
	assert.ErrorIs(t, err, core.ErrStalePrice)

	price, err := f.oracle.Poke(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1", price.String())

	healthy, _ = f.oracle.IsHealthy(ctx)
	assert.True(t, healthy)
}

func TestLiquidityCheckedFirst(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 0, DefaultConfig())
	require.NoError(t, f.oracle.SetMinLiquidity(ctx, admin, uint256.NewInt(2_000_000)))

	f.clock.Advance(2 * DefaultHeartbeat)
	_, err := f.oracle.GetTwapPrice(ctx)
	assert.ErrorIs(t, err, core.ErrOracleInsufficientLiquidity)

	_, err = f.oracle.GetLatestPrice(ctx)
	assert.ErrorIs(t, err, core.ErrOracleInsufficientLiquidity)

	_, err = f.oracle.Poke(ctx)
	assert.ErrorIs(t, err, core.ErrOracleInsufficientLiquidity)

	// equal to the minimum is enough
	f.pool.SetLiquidity(uint256.NewInt(2_000_000))
	_, err = f.oracle.GetTwapPrice(ctx)
	assert.ErrorIs(t, err, core.ErrStalePrice)

	assert.ErrorIs(t, f.oracle.SetMinLiquidity(ctx, "mallory", uint256.NewInt(0)), core.ErrUnauthorized)

	state, err := f.store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2000000", state.MinLiquidity.Dec())
}

func TestPriceBounds(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		price string
		err   error
	}{
		{"0.0001", nil},
		{"0.000099999999999999", core.ErrPriceTooLow},
		{"1000000", nil},
		{"1000000.000000000000000001", core.ErrPriceTooHigh},
	}

	for _, c := range cases {
		f := newFixture(t, 0, DefaultConfig())
		err := f.oracle.UpdatePrice(ctx, admin, d(c.price))
		if c.err == nil {
			assert.NoError(t, err, c.price)
		} else {
			assert.ErrorIs(t, err, c.err, c.price)
		}
	}

	// the twap path applies the same bounds, tick -100000 is about 0.0000454
	f := newFixture(t, -100000, DefaultConfig())
	_, err := f.oracle.GetTwapPrice(ctx)
	assert.ErrorIs(t, err, core.ErrPriceTooLow)

	// about 2.2e6
	f = newFixture(t, 146000, DefaultConfig())
	_, err = f.oracle.GetTwapPrice(ctx)
	assert.ErrorIs(t, err, core.ErrPriceTooHigh)
}

func TestPriceChangeBound(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 0, DefaultConfig())

	require.NoError(t, f.oracle.UpdatePrice(ctx, admin, d("2000")))

	err := f.oracle.UpdatePrice(ctx, admin, d("3000.000000000000000001"))
	assert.ErrorIs(t, err, core.ErrPriceChangeTooLarge)
	err = f.oracle.UpdatePrice(ctx, admin, d("999.999999999999999999"))
	assert.ErrorIs(t, err, core.ErrPriceChangeTooLarge)

	view, _ := f.oracle.State(ctx)
	assert.Equal(t, "2000", view.LastValidPrice.String())

	// exactly 50% is allowed
	require.NoError(t, f.oracle.UpdatePrice(ctx, admin, d("3000")))

	// the pool quotes 1 which is far from the committed 3000
	_, err = f.oracle.GetTwapPrice(ctx)
	assert.ErrorIs(t, err, core.ErrPriceChangeTooLarge)
	_, err = f.oracle.Poke(ctx)
	assert.ErrorIs(t, err, core.ErrPriceChangeTooLarge)

	view, _ = f.oracle.State(ctx)
	assert.Equal(t, "3000", view.LastValidPrice.String())
}

func TestUpdatePriceRequiresAdmin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 0, DefaultConfig())

	err := f.oracle.UpdatePrice(ctx, "mallory", d("1"))
	assert.ErrorIs(t, err, core.ErrUnauthorized)

	view, _ := f.oracle.State(ctx)
	assert.False(t, view.HasPrice())
}

func TestSourceErrorPropagates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 0, DefaultConfig())

	boom := assert.AnError
	f.pool.SetError(boom)

	_, err := f.oracle.GetTwapPrice(ctx)
	assert.ErrorIs(t, err, boom)
}
