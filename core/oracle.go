package core

import (
	"context"
	"time"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// OracleState trust anchor of the price oracle
type OracleState struct {
	// zero means never set
	LastValidPrice decimal.Decimal `json:"last_valid_price"`
	LastUpdate     time.Time       `json:"last_update"`
	MinLiquidity   *uint256.Int    `json:"min_liquidity"`
}

// HasPrice a price has been committed before
func (s *OracleState) HasPrice() bool {
	return s.LastValidPrice.IsPositive()
}

// Clone deep copy
func (s *OracleState) Clone() *OracleState {
	c := *s
	if s.MinLiquidity != nil {
		c.MinLiquidity = s.MinLiquidity.Clone()
	}
	return &c
}

// OracleStore oracle state store interface
type OracleStore interface {
	// Load returns a zero state if nothing was saved yet
	Load(ctx context.Context) (*OracleState, error)
	Save(ctx context.Context, state *OracleState) error
}

// PriceSource windowed tick source of a concentrated liquidity pool
type PriceSource interface {
	// ObserveCumulativeTicks cumulative tick values, one per secondsAgo
	ObserveCumulativeTicks(ctx context.Context, secondsAgos []uint32) ([]int64, error)
	CurrentLiquidity(ctx context.Context) (*uint256.Int, error)
	CurrentSqrtPrice(ctx context.Context) (*uint256.Int, error)
}

// OracleView oracle state with health for the api
type OracleView struct {
	*OracleState
	Healthy   bool          `json:"healthy"`
	Heartbeat time.Duration `json:"heartbeat"`
	Window    uint32        `json:"window"`
}

// IPriceOracle price oracle interface
type IPriceOracle interface {
	GetTwapPrice(ctx context.Context) (decimal.Decimal, error)
	GetLatestPrice(ctx context.Context) (decimal.Decimal, error)
	UpdatePrice(ctx context.Context, caller string, price decimal.Decimal) error
	Poke(ctx context.Context) (decimal.Decimal, error)
	SetMinLiquidity(ctx context.Context, caller string, amount *uint256.Int) error
	IsHealthy(ctx context.Context) (bool, error)
	State(ctx context.Context) (*OracleView, error)
}

// IPriceReader the slice of the oracle the ledger depends on
type IPriceReader interface {
	GetTwapPrice(ctx context.Context) (decimal.Decimal, error)
}
