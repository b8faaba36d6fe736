package oracle

import (
	"context"
	"errors"
	"sync"
	"time"

	"twapvault/core"
	"twapvault/pkg/metrics"
	"twapvault/pkg/tickmath"

	"github.com/fatih/structs"
	"github.com/fox-one/pkg/logger"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

const (
	// DefaultWindow twap window in seconds
	DefaultWindow uint32 = 1800
	// DefaultHeartbeat max age of the committed price
	DefaultHeartbeat = time.Hour
)

var (
	// DefaultMinPrice lowest accepted price
	DefaultMinPrice = decimal.New(1, -4)
	// DefaultMaxPrice highest accepted price
	DefaultMaxPrice = decimal.New(1, 6)
	// DefaultMaxChange largest accepted move relative to the committed price
	DefaultMaxChange = decimal.New(5, -1)
)

// Config oracle parameters
type Config struct {
	Window       uint32
	Heartbeat    time.Duration
	MinPrice     decimal.Decimal
	MaxPrice     decimal.Decimal
	MaxChange    decimal.Decimal
	MinLiquidity *uint256.Int
}

// DefaultConfig 30 minutes window, 1 hour heartbeat, 50% max change
func DefaultConfig() Config {
	return Config{
		Window:       DefaultWindow,
		Heartbeat:    DefaultHeartbeat,
		MinPrice:     DefaultMinPrice,
		MaxPrice:     DefaultMaxPrice,
		MaxChange:    DefaultMaxChange,
		MinLiquidity: new(uint256.Int),
	}
}

func (c Config) validate() error {
	if c.Window == 0 {
		return errors.New("oracle: window must be positive")
	}

	if c.Heartbeat <= 0 {
		return errors.New("oracle: heartbeat must be positive")
	}

	if !c.MinPrice.IsPositive() || c.MinPrice.GreaterThan(c.MaxPrice) {
		return errors.New("oracle: invalid price bounds")
	}

	if !c.MaxChange.IsPositive() {
		return errors.New("oracle: max change must be positive")
	}

	return nil
}

// Option oracle option
type Option func(*Oracle)

// WithClock replace time.Now
func WithClock(now func() time.Time) Option {
	return func(o *Oracle) {
		o.now = now
	}
}

// Oracle twap price oracle over a windowed tick source
type Oracle struct {
	source core.PriceSource
	store  core.OracleStore
	system *core.System
	cfg    Config
	now    func() time.Time

	mu    sync.RWMutex
	state *core.OracleState
}

var _ core.IPriceOracle = (*Oracle)(nil)

// New load the persisted state, a never initialized oracle starts its heartbeat now
func New(
	ctx context.Context,
	source core.PriceSource,
	store core.OracleStore,
	system *core.System,
	cfg Config,
	opts ...Option,
) (*Oracle, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	o := &Oracle{
		source: source,
		store:  store,
		system: system,
		cfg:    cfg,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(o)
	}

	state, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}

	dirty := false
	if state.LastUpdate.IsZero() {
		state.LastUpdate = o.now()
		dirty = true
	}

	if state.MinLiquidity == nil {
		state.MinLiquidity = new(uint256.Int)
		if cfg.MinLiquidity != nil {
			state.MinLiquidity.Set(cfg.MinLiquidity)
		}
		dirty = true
	}

	if dirty {
		if err := store.Save(ctx, state); err != nil {
			return nil, err
		}
	}

	o.state = state
	if state.HasPrice() {
		metrics.Vault().SetPrice(state.LastValidPrice.InexactFloat64())
	}

	return o, nil
}

func (o *Oracle) snapshot() *core.OracleState {
	o.mu.RLock()
	defer o.mu.RUnlock()

	return o.state.Clone()
}

// GetTwapPrice validated time weighted price, never changes the oracle state
func (o *Oracle) GetTwapPrice(ctx context.Context) (decimal.Decimal, error) {
	state := o.snapshot()

	if err := o.checkLiquidity(ctx, state); err != nil {
		return decimal.Zero, err
	}

	if !o.fresh(state) {
		return decimal.Zero, o.reject(ctx, core.ErrStalePrice)
	}

	price, err := o.twap(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	if err := o.validate(ctx, state, price); err != nil {
		return decimal.Zero, err
	}

	return price, nil
}

// GetLatestPrice instantaneous pool price with every check except the heartbeat
func (o *Oracle) GetLatestPrice(ctx context.Context) (decimal.Decimal, error) {
	state := o.snapshot()

	if err := o.checkLiquidity(ctx, state); err != nil {
		return decimal.Zero, err
	}

	sqrt, err := o.source.CurrentSqrtPrice(ctx)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("pool.CurrentSqrtPrice")
		return decimal.Zero, err
	}

	price, err := tickmath.PriceFromSqrtRatio(sqrt)
	if err != nil {
		return decimal.Zero, o.reject(ctx, core.ErrPriceOverflow)
	}

	if err := o.validate(ctx, state, price); err != nil {
		return decimal.Zero, err
	}

	return price, nil
}

// UpdatePrice commit price as the new trust anchor, admin only
func (o *Oracle) UpdatePrice(ctx context.Context, caller string, price decimal.Decimal) error {
	if !o.system.IsAdmin(caller) {
		return core.ErrUnauthorized
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.validate(ctx, o.state, price); err != nil {
		return err
	}

	return o.commit(ctx, caller, price)
}

// Poke commit the current twap, the keeper path out of a stale state
func (o *Oracle) Poke(ctx context.Context) (decimal.Decimal, error) {
	if err := o.checkLiquidity(ctx, o.snapshot()); err != nil {
		return decimal.Zero, err
	}

	price, err := o.twap(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.validate(ctx, o.state, price); err != nil {
		return decimal.Zero, err
	}

	if err := o.commit(ctx, "keeper", price); err != nil {
		return decimal.Zero, err
	}

	return price, nil
}

// SetMinLiquidity admin only
func (o *Oracle) SetMinLiquidity(ctx context.Context, caller string, amount *uint256.Int) error {
	if !o.system.IsAdmin(caller) {
		return core.ErrUnauthorized
	}

	if amount == nil {
		return core.ErrInvalidAmount
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	next := o.state.Clone()
	next.MinLiquidity = amount.Clone()
	if err := o.store.Save(ctx, next); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("oracles.Save")
		return err
	}

	o.state = next
	logger.FromContext(ctx).WithFields(structs.Map(event{
		Type:   core.EventMinLiquidityUpdated,
		Caller: caller,
		Value:  amount.Dec(),
	})).Infoln("oracle event")
	return nil
}

// IsHealthy the committed price is within the heartbeat
func (o *Oracle) IsHealthy(_ context.Context) (bool, error) {
	return o.fresh(o.snapshot()), nil
}

// State snapshot of the oracle
func (o *Oracle) State(_ context.Context) (*core.OracleView, error) {
	state := o.snapshot()
	return &core.OracleView{
		OracleState: state,
		Healthy:     o.fresh(state),
		Heartbeat:   o.cfg.Heartbeat,
		Window:      o.cfg.Window,
	}, nil
}

func (o *Oracle) fresh(state *core.OracleState) bool {
	return o.now().Sub(state.LastUpdate) <= o.cfg.Heartbeat
}

func (o *Oracle) checkLiquidity(ctx context.Context, state *core.OracleState) error {
	liquidity, err := o.source.CurrentLiquidity(ctx)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("pool.CurrentLiquidity")
		return err
	}

	if state.MinLiquidity != nil && liquidity.Lt(state.MinLiquidity) {
		return o.reject(ctx, core.ErrOracleInsufficientLiquidity)
	}

	return nil
}

func (o *Oracle) twap(ctx context.Context) (decimal.Decimal, error) {
	ticks, err := o.source.ObserveCumulativeTicks(ctx, []uint32{o.cfg.Window, 0})
	if err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("pool.ObserveCumulativeTicks")
		return decimal.Zero, err
	}

	if len(ticks) != 2 {
		return decimal.Zero, errors.New("oracle: unexpected observation count")
	}

	tick, err := tickmath.MeanTick(ticks[0], ticks[1], o.cfg.Window)
	if err != nil {
		return decimal.Zero, o.reject(ctx, core.ErrPriceOverflow)
	}

	price, err := tickmath.PriceAtTick(tick)
	if err != nil {
		return decimal.Zero, o.reject(ctx, core.ErrPriceOverflow)
	}

	return price, nil
}

func (o *Oracle) validate(ctx context.Context, state *core.OracleState, price decimal.Decimal) error {
	if price.LessThan(o.cfg.MinPrice) {
		return o.reject(ctx, core.ErrPriceTooLow)
	}

	if price.GreaterThan(o.cfg.MaxPrice) {
		return o.reject(ctx, core.ErrPriceTooHigh)
	}

	if state.HasPrice() {
		// |price - last| / last > maxChange
		delta := price.Sub(state.LastValidPrice).Abs()
		if delta.GreaterThan(state.LastValidPrice.Mul(o.cfg.MaxChange)) {
			return o.reject(ctx, core.ErrPriceChangeTooLarge)
		}
	}

	return nil
}

func (o *Oracle) commit(ctx context.Context, caller string, price decimal.Decimal) error {
	next := o.state.Clone()
	next.LastValidPrice = price
	next.LastUpdate = o.now()

	if err := o.store.Save(ctx, next); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("oracles.Save")
		return err
	}

	prev := o.state.LastValidPrice
	o.state = next
	metrics.Vault().SetPrice(price.InexactFloat64())

	logger.FromContext(ctx).WithFields(structs.Map(event{
		Type:     core.EventPriceUpdated,
		Caller:   caller,
		Value:    price.String(),
		Previous: prev.String(),
	})).Infoln("oracle event")
	return nil
}

func (o *Oracle) reject(ctx context.Context, code core.ErrorCode) error {
	metrics.Vault().ObserveOracleRejection(code.String())
	logger.FromContext(ctx).WithField("code", code).Debugln("oracle rejected")
	return code
}

type event struct {
	Type     core.EventType `structs:"event"`
	Caller   string         `structs:"caller"`
	Value    string         `structs:"value"`
	Previous string         `structs:"previous,omitempty"`
}
