package priceoracle

import (
	"context"
	"testing"
	"time"

	"twapvault/core"
	"twapvault/service/oracle"
	"twapvault/service/pool"
	"twapvault/store/oraclestate"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeeperRecoversStaleOracle(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0)
	clock := func() time.Time { return now }

	source := pool.NewStatic(0, uint256.NewInt(100))
	o, err := oracle.New(ctx, source, oraclestate.NewMemory(), &core.System{Admins: []string{"admin"}}, oracle.DefaultConfig(), oracle.WithClock(clock))
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	_, err = o.GetTwapPrice(ctx)
	require.ErrorIs(t, err, core.ErrStalePrice)

	w := New(o, time.Minute)
	require.NoError(t, w.Round(ctx))

	price, err := o.GetTwapPrice(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1", price.String())

	// a rejected twap is not a worker failure
	require.NoError(t, o.SetMinLiquidity(ctx, "admin", uint256.NewInt(1)))
	source.SetLiquidity(uint256.NewInt(0))
	assert.NoError(t, w.Round(ctx))
}
