package pool

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"twapvault/core"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/holiman/uint256"
)

const poolABI = `[
	{"name":"observe","type":"function","stateMutability":"view",
	 "inputs":[{"name":"secondsAgos","type":"uint32[]"}],
	 "outputs":[{"name":"tickCumulatives","type":"int56[]"},{"name":"secondsPerLiquidityCumulativeX128s","type":"uint160[]"}]},
	{"name":"liquidity","type":"function","stateMutability":"view",
	 "inputs":[],
	 "outputs":[{"name":"","type":"uint128"}]},
	{"name":"slot0","type":"function","stateMutability":"view",
	 "inputs":[],
	 "outputs":[{"name":"sqrtPriceX96","type":"uint160"},{"name":"tick","type":"int24"},{"name":"observationIndex","type":"uint16"},{"name":"observationCardinality","type":"uint16"},{"name":"observationCardinalityNext","type":"uint16"},{"name":"feeProtocol","type":"uint8"},{"name":"unlocked","type":"bool"}]}
]`

var parsedPoolABI = func() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(poolABI))
	if err != nil {
		panic(err)
	}
	return parsed
}()

// Dial connects to the json-rpc endpoint
func Dial(endpoint string) (*ethclient.Client, error) {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		return nil, errors.New("pool rpc endpoint required")
	}

	return ethclient.Dial(trimmed)
}

type uniswapPool struct {
	caller  ethereum.ContractCaller
	address common.Address
}

// NewUniswap price source reading a v3 compatible pool contract
func NewUniswap(caller ethereum.ContractCaller, address string) (core.PriceSource, error) {
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("invalid pool address %q", address)
	}

	return &uniswapPool{
		caller:  caller,
		address: common.HexToAddress(address),
	}, nil
}

func (p *uniswapPool) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	data, err := parsedPoolABI.Pack(method, args...)
	if err != nil {
		return nil, err
	}

	out, err := p.caller.CallContract(ctx, ethereum.CallMsg{To: &p.address, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("pool %s: %w", method, err)
	}

	return parsedPoolABI.Unpack(method, out)
}

func (p *uniswapPool) ObserveCumulativeTicks(ctx context.Context, secondsAgos []uint32) ([]int64, error) {
	values, err := p.call(ctx, "observe", secondsAgos)
	if err != nil {
		return nil, err
	}

	cumulatives, ok := values[0].([]*big.Int)
	if !ok || len(cumulatives) != len(secondsAgos) {
		return nil, errors.New("pool observe: unexpected output")
	}

	ticks := make([]int64, len(cumulatives))
	for i, c := range cumulatives {
		if !c.IsInt64() {
			return nil, errors.New("pool observe: tick cumulative overflows int64")
		}
		ticks[i] = c.Int64()
	}

	return ticks, nil
}

func (p *uniswapPool) CurrentLiquidity(ctx context.Context) (*uint256.Int, error) {
	values, err := p.call(ctx, "liquidity")
	if err != nil {
		return nil, err
	}

	return toUint256(values[0])
}

func (p *uniswapPool) CurrentSqrtPrice(ctx context.Context) (*uint256.Int, error) {
	values, err := p.call(ctx, "slot0")
	if err != nil {
		return nil, err
	}

	return toUint256(values[0])
}

func toUint256(v interface{}) (*uint256.Int, error) {
	b, ok := v.(*big.Int)
	if !ok || b.Sign() < 0 {
		return nil, errors.New("pool: unexpected output")
	}

	x, overflow := uint256.FromBig(b)
	if overflow {
		return nil, errors.New("pool: value overflows 256 bits")
	}

	return x, nil
}
