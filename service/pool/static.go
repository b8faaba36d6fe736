package pool

import (
	"context"
	"sync"
	"time"

	"twapvault/core"
	"twapvault/pkg/tickmath"

	"github.com/holiman/uint256"
)

// Static pool quoting one fixed tick, for development and tests
type Static struct {
	mu        sync.RWMutex
	tick      int32
	liquidity *uint256.Int
	err       error
	now       func() time.Time
}

var _ core.PriceSource = (*Static)(nil)

// NewStatic new static pool
func NewStatic(tick int32, liquidity *uint256.Int) *Static {
	if liquidity == nil {
		liquidity = new(uint256.Int)
	}

	return &Static{
		tick:      tick,
		liquidity: liquidity.Clone(),
		now:       time.Now,
	}
}

// SetTick move the pool to a new tick
func (s *Static) SetTick(tick int32) {
	s.mu.Lock()
	s.tick = tick
	s.mu.Unlock()
}

// SetLiquidity replace the pool liquidity
func (s *Static) SetLiquidity(liquidity *uint256.Int) {
	s.mu.Lock()
	s.liquidity = liquidity.Clone()
	s.mu.Unlock()
}

// SetError every read fails with err until cleared with nil
func (s *Static) SetError(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// ObserveCumulativeTicks the tick has been constant forever, cumulative = tick * timestamp
func (s *Static) ObserveCumulativeTicks(_ context.Context, secondsAgos []uint32) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.err != nil {
		return nil, s.err
	}

	now := s.now().Unix()
	ticks := make([]int64, len(secondsAgos))
	for i, ago := range secondsAgos {
		ticks[i] = int64(s.tick) * (now - int64(ago))
	}

	return ticks, nil
}

func (s *Static) CurrentLiquidity(_ context.Context) (*uint256.Int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.err != nil {
		return nil, s.err
	}

	return s.liquidity.Clone(), nil
}

func (s *Static) CurrentSqrtPrice(_ context.Context) (*uint256.Int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.err != nil {
		return nil, s.err
	}

	return tickmath.SqrtRatioAtTick(s.tick)
}
