// Package memory ledger store kept in process memory.
//
// Every Tx runs against a private copy of the state which replaces the
// committed state only when the callback succeeds.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"twapvault/core"

	"github.com/shopspring/decimal"
)

// ErrReadOnly write attempted inside View
var ErrReadOnly = errors.New("memory: write in read-only view")

type state struct {
	positions map[string]*core.Position
	market    core.Market
	registry  []string
	index     map[string]int
	events    []*core.Event
	lastEvent int64
}

func newState() *state {
	return &state{
		positions: map[string]*core.Position{},
		market: core.Market{
			ID:              1,
			TotalCollateral: decimal.Zero,
			TotalDebt:       decimal.Zero,
		},
		index: map[string]int{},
	}
}

func (s *state) clone() *state {
	c := &state{
		positions: make(map[string]*core.Position, len(s.positions)),
		market:    s.market,
		registry:  append([]string(nil), s.registry...),
		index:     make(map[string]int, len(s.index)),
		// events are append only, sharing the backing array is safe
		events:    s.events[:len(s.events):len(s.events)],
		lastEvent: s.lastEvent,
	}

	for k, p := range s.positions {
		cp := *p
		c.positions[k] = &cp
	}

	for k, v := range s.index {
		c.index[k] = v
	}

	return c
}

type ledgerStore struct {
	// serializes writers, readers never wait on it
	mu sync.Mutex

	snapshot sync.RWMutex
	state    *state
	now      func() time.Time
}

// New new in-memory ledger store
func New() core.LedgerStore {
	return &ledgerStore{
		state: newState(),
		now:   time.Now,
	}
}

func (s *ledgerStore) Tx(ctx context.Context, fn func(tx core.LedgerTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	draft := s.state.clone()
	if err := fn(&ledgerTx{state: draft, now: s.now}); err != nil {
		return err
	}

	s.snapshot.Lock()
	s.state = draft
	s.snapshot.Unlock()
	return nil
}

func (s *ledgerStore) View(ctx context.Context, fn func(tx core.LedgerTx) error) error {
	s.snapshot.RLock()
	committed := s.state
	s.snapshot.RUnlock()

	return fn(&ledgerTx{state: committed, now: s.now, readonly: true})
}

type ledgerTx struct {
	state    *state
	now      func() time.Time
	readonly bool
}

func (t *ledgerTx) FindPosition(account string) (*core.Position, error) {
	if p, ok := t.state.positions[account]; ok {
		cp := *p
		return &cp, nil
	}

	return &core.Position{
		Account:              account,
		Collateral:           decimal.Zero,
		Debt:                 decimal.Zero,
		AccruedInterestTotal: decimal.Zero,
	}, nil
}

func (t *ledgerTx) SavePosition(position *core.Position) error {
	if t.readonly {
		return ErrReadOnly
	}

	now := t.now()
	if old, ok := t.state.positions[position.Account]; ok {
		if old.Version != position.Version {
			return core.ErrOptimisticLock
		}
		position.CreatedAt = old.CreatedAt
	} else {
		position.CreatedAt = now
	}

	position.Version++
	position.UpdatedAt = now
	cp := *position
	t.state.positions[position.Account] = &cp
	return nil
}

func (t *ledgerTx) Positions() ([]*core.Position, error) {
	positions := make([]*core.Position, 0, len(t.state.positions))
	for _, p := range t.state.positions {
		cp := *p
		positions = append(positions, &cp)
	}

	sort.Slice(positions, func(i, j int) bool {
		return positions[i].Account < positions[j].Account
	})

	return positions, nil
}

func (t *ledgerTx) FindMarket() (*core.Market, error) {
	m := t.state.market
	return &m, nil
}

func (t *ledgerTx) SaveMarket(market *core.Market) error {
	if t.readonly {
		return ErrReadOnly
	}

	if market.Version != t.state.market.Version {
		return core.ErrOptimisticLock
	}

	market.ID = 1
	market.Version++
	market.UpdatedAt = t.now()
	t.state.market = *market
	return nil
}

func (t *ledgerTx) InRegistry(account string) (bool, error) {
	_, ok := t.state.index[account]
	return ok, nil
}

func (t *ledgerTx) AddToRegistry(account string) error {
	if t.readonly {
		return ErrReadOnly
	}

	if _, ok := t.state.index[account]; ok {
		return nil
	}

	t.state.index[account] = len(t.state.registry)
	t.state.registry = append(t.state.registry, account)
	return nil
}

func (t *ledgerTx) RemoveFromRegistry(account string) error {
	if t.readonly {
		return ErrReadOnly
	}

	idx, ok := t.state.index[account]
	if !ok {
		return nil
	}

	last := len(t.state.registry) - 1
	if idx != last {
		moved := t.state.registry[last]
		t.state.registry[idx] = moved
		t.state.index[moved] = idx
	}

	t.state.registry = t.state.registry[:last]
	delete(t.state.index, account)
	return nil
}

func (t *ledgerTx) Registry() ([]string, error) {
	return append([]string(nil), t.state.registry...), nil
}

func (t *ledgerTx) CreateEvents(events ...*core.Event) error {
	if t.readonly {
		return ErrReadOnly
	}

	for _, e := range events {
		t.state.lastEvent++
		e.ID = t.state.lastEvent
		if e.CreatedAt.IsZero() {
			e.CreatedAt = t.now()
		}

		cp := *e
		t.state.events = append(t.state.events, &cp)
	}

	return nil
}

func (t *ledgerTx) ListEvents(account string, fromID int64, limit int) ([]*core.Event, error) {
	// ids are dense, the first candidate sits at index fromID
	start := int(fromID)
	if start < 0 {
		start = 0
	}

	var events []*core.Event
	for i := start; i < len(t.state.events); i++ {
		e := t.state.events[i]
		if account != "" && e.Account != account {
			continue
		}

		cp := *e
		events = append(events, &cp)
		if limit > 0 && len(events) >= limit {
			break
		}
	}

	return events, nil
}
