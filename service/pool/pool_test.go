package pool

import (
	"context"
	"errors"
	"math/big"
	"sync/atomic"
	"testing"
	"time"

	"twapvault/pkg/tickmath"

	"github.com/ethereum/go-ethereum"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCaller struct {
	calls int32
}

func (f *fakeCaller) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	atomic.AddInt32(&f.calls, 1)

	method, err := parsedPoolABI.MethodById(msg.Data[:4])
	if err != nil {
		return nil, err
	}

	switch method.Name {
	case "observe":
		return method.Outputs.Pack(
			[]*big.Int{big.NewInt(-1_800_000), big.NewInt(0)},
			[]*big.Int{big.NewInt(0), big.NewInt(0)},
		)
	case "liquidity":
		return method.Outputs.Pack(big.NewInt(5_000_000))
	case "slot0":
		sqrt, _ := tickmath.SqrtRatioAtTick(0)
		return method.Outputs.Pack(sqrt.ToBig(), big.NewInt(0), uint16(1), uint16(1), uint16(1), uint8(0), true)
	}

	return nil, errors.New("unknown method")
}

func TestUniswapPool(t *testing.T) {
	ctx := context.Background()
	caller := &fakeCaller{}

	source, err := NewUniswap(caller, "0x88e6A0c2dDD26FEEb64F039a2c41296FcB3f5640")
	require.NoError(t, err)

	ticks, err := source.ObserveCumulativeTicks(ctx, []uint32{1800, 0})
	require.NoError(t, err)
	assert.Equal(t, []int64{-1_800_000, 0}, ticks)

	liquidity, err := source.CurrentLiquidity(ctx)
	require.NoError(t, err)
	assert.Equal(t, "5000000", liquidity.Dec())

	sqrt, err := source.CurrentSqrtPrice(ctx)
	require.NoError(t, err)
	assert.Equal(t, "79228162514264337593543950336", sqrt.Dec())

	_, err = NewUniswap(caller, "not-an-address")
	assert.Error(t, err)
}

func TestStatic(t *testing.T) {
	ctx := context.Background()
	static := NewStatic(100, uint256.NewInt(10))
	static.now = func() time.Time { return time.Unix(10_000, 0) }

	ticks, err := static.ObserveCumulativeTicks(ctx, []uint32{1800, 0})
	require.NoError(t, err)
	mean, err := tickmath.MeanTick(ticks[0], ticks[1], 1800)
	require.NoError(t, err)
	assert.EqualValues(t, 100, mean)

	static.SetTick(-5)
	ticks, _ = static.ObserveCumulativeTicks(ctx, []uint32{60, 0})
	mean, _ = tickmath.MeanTick(ticks[0], ticks[1], 60)
	assert.EqualValues(t, -5, mean)

	boom := errors.New("rpc down")
	static.SetError(boom)
	_, err = static.CurrentLiquidity(ctx)
	assert.ErrorIs(t, err, boom)
}

func TestCache(t *testing.T) {
	ctx := context.Background()
	caller := &fakeCaller{}
	source, err := NewUniswap(caller, "0x88e6A0c2dDD26FEEb64F039a2c41296FcB3f5640")
	require.NoError(t, err)

	cached := Cache(source, time.Minute)
	for i := 0; i < 3; i++ {
		liquidity, err := cached.CurrentLiquidity(ctx)
		require.NoError(t, err)
		assert.Equal(t, "5000000", liquidity.Dec())
	}
	assert.EqualValues(t, 1, atomic.LoadInt32(&caller.calls))

	// zero ttl disables caching
	assert.Equal(t, source, Cache(source, 0))
}
