package oraclestate

import (
	"context"
	"strings"
	"sync"

	"twapvault/core"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/property"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

const (
	keyLastValidPrice = "oracle_last_valid_price"
	keyLastUpdate     = "oracle_last_update"
	keyMinLiquidity   = "oracle_min_liquidity"
)

type oracleStore struct {
	properties property.Store
}

// New oracle state persisted as properties
func New(properties property.Store) core.OracleStore {
	return &oracleStore{properties: properties}
}

func (s *oracleStore) Load(ctx context.Context) (*core.OracleState, error) {
	log := logger.FromContext(ctx)

	state := &core.OracleState{LastValidPrice: decimal.Zero}

	v, err := s.properties.Get(ctx, keyLastValidPrice)
	if err != nil {
		log.WithError(err).Errorln("property.Get", keyLastValidPrice)
		return nil, err
	}

	if str := strings.TrimSpace(v.String()); str != "" {
		if state.LastValidPrice, err = decimal.NewFromString(str); err != nil {
			return nil, err
		}
	}

	if v, err = s.properties.Get(ctx, keyLastUpdate); err != nil {
		log.WithError(err).Errorln("property.Get", keyLastUpdate)
		return nil, err
	}
	state.LastUpdate = v.Time()

	if v, err = s.properties.Get(ctx, keyMinLiquidity); err != nil {
		log.WithError(err).Errorln("property.Get", keyMinLiquidity)
		return nil, err
	}

	if str := strings.TrimSpace(v.String()); str != "" {
		if state.MinLiquidity, err = uint256.FromDecimal(str); err != nil {
			return nil, err
		}
	}

	return state, nil
}

func (s *oracleStore) Save(ctx context.Context, state *core.OracleState) error {
	if err := s.properties.Save(ctx, keyLastValidPrice, state.LastValidPrice.String()); err != nil {
		return err
	}

	if err := s.properties.Save(ctx, keyLastUpdate, state.LastUpdate); err != nil {
		return err
	}

	if state.MinLiquidity != nil {
		return s.properties.Save(ctx, keyMinLiquidity, state.MinLiquidity.Dec())
	}

	return nil
}

type memoryStore struct {
	mu    sync.Mutex
	state *core.OracleState
}

// NewMemory oracle state kept in process memory
func NewMemory() core.OracleStore {
	return &memoryStore{}
}

func (s *memoryStore) Load(_ context.Context) (*core.OracleState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == nil {
		return &core.OracleState{LastValidPrice: decimal.Zero}, nil
	}

	return s.state.Clone(), nil
}

func (s *memoryStore) Save(_ context.Context, state *core.OracleState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = state.Clone()
	return nil
}
