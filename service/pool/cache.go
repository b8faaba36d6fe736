package pool

import (
	"context"
	"fmt"
	"time"

	"twapvault/core"

	"github.com/bluele/gcache"
	"github.com/holiman/uint256"
	"golang.org/x/sync/singleflight"
)

const (
	keyLiquidity = "liquidity"
	keySqrtPrice = "sqrt_price"
)

// Cache dedupe and cache pool reads for ttl
func Cache(source core.PriceSource, ttl time.Duration) core.PriceSource {
	if ttl <= 0 {
		return source
	}

	return &cachePool{
		PriceSource: source,
		cache:       gcache.New(64).LRU().Build(),
		sf:          &singleflight.Group{},
		ttl:         ttl,
	}
}

type cachePool struct {
	core.PriceSource
	cache gcache.Cache
	sf    *singleflight.Group
	ttl   time.Duration
}

func (p *cachePool) load(key string, fn func() (interface{}, error)) (interface{}, error) {
	if v, err := p.cache.Get(key); err == nil {
		return v, nil
	}

	v, err, _ := p.sf.Do(key, func() (interface{}, error) {
		v, err := fn()
		if err != nil {
			return nil, err
		}

		_ = p.cache.SetWithExpire(key, v, p.ttl)
		return v, nil
	})

	return v, err
}

func (p *cachePool) ObserveCumulativeTicks(ctx context.Context, secondsAgos []uint32) ([]int64, error) {
	v, err := p.load(fmt.Sprint("observe", secondsAgos), func() (interface{}, error) {
		return p.PriceSource.ObserveCumulativeTicks(ctx, secondsAgos)
	})
	if err != nil {
		return nil, err
	}

	return append([]int64(nil), v.([]int64)...), nil
}

func (p *cachePool) CurrentLiquidity(ctx context.Context) (*uint256.Int, error) {
	v, err := p.load(keyLiquidity, func() (interface{}, error) {
		return p.PriceSource.CurrentLiquidity(ctx)
	})
	if err != nil {
		return nil, err
	}

	return v.(*uint256.Int).Clone(), nil
}

func (p *cachePool) CurrentSqrtPrice(ctx context.Context) (*uint256.Int, error) {
	v, err := p.load(keySqrtPrice, func() (interface{}, error) {
		return p.PriceSource.CurrentSqrtPrice(ctx)
	})
	if err != nil {
		return nil, err
	}

	return v.(*uint256.Int).Clone(), nil
}
