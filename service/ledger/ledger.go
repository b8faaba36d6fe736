package ledger

import (
	"context"
	"time"

	"twapvault/core"
	"twapvault/pkg/id"
	"twapvault/pkg/lending"
	"twapvault/pkg/metrics"

	"github.com/fox-one/pkg/logger"
	"github.com/sirupsen/logrus"
)

// Config ledger config
type Config struct {
	lending.Params
	// Vault account holding collateral and lendable funds
	Vault string
	// LatchTimeout how long an operation waits for the one in flight
	LatchTimeout time.Duration
	// StrictRegistry liquidations require the account to be indexed already
	StrictRegistry bool
}

// Option ledger option
type Option func(*service)

// WithClock replace time.Now
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

type service struct {
	store      core.LedgerStore
	oracle     core.IPriceReader
	collateral core.AssetService
	borrowed   core.AssetService
	system     *core.System
	cfg        Config
	now        func() time.Time

	// serializes mutating operations, nested calls are detected through the context
	latch chan struct{}
}

// New new ledger service
func New(
	store core.LedgerStore,
	oracle core.IPriceReader,
	collateral core.AssetService,
	borrowed core.AssetService,
	system *core.System,
	cfg Config,
	opts ...Option,
) core.ILedgerService {
	defaults := lending.DefaultParams()
	if cfg.LTVMax.IsZero() {
		cfg.LTVMax = defaults.LTVMax
	}
	if cfg.LiquidationThreshold.IsZero() {
		cfg.LiquidationThreshold = defaults.LiquidationThreshold
	}
	if cfg.LiquidationBonus.IsZero() {
		cfg.LiquidationBonus = defaults.LiquidationBonus
	}
	// zero caps mean unlimited
	if cfg.MaxCollateral.IsZero() {
		cfg.MaxCollateral = defaults.MaxCollateral
	}
	if cfg.MaxDebt.IsZero() {
		cfg.MaxDebt = defaults.MaxDebt
	}

	s := &service{
		store:      store,
		oracle:     oracle,
		collateral: collateral,
		borrowed:   borrowed,
		system:     system,
		cfg:        cfg,
		now:        time.Now,
		latch:      make(chan struct{}, 1),
	}

	if s.cfg.LatchTimeout <= 0 {
		s.cfg.LatchTimeout = defaultLatchTimeout
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

const defaultLatchTimeout = 3 * time.Second

type latchKey struct{}

// enter acquires the latch. A context already carrying it belongs to an
// operation in flight: asset services receive that context, so a callback
// re-entering the ledger is rejected right away. A callback calling back in
// with a fresh context waits on its own operation, it gets ErrReentrantCall
// once LatchTimeout passes.
func (s *service) enter(ctx context.Context) (context.Context, func(), error) {
	if s.inside(ctx) {
		return ctx, nil, core.ErrReentrantCall
	}

	release := func() { <-s.latch }

	select {
	case s.latch <- struct{}{}:
		return context.WithValue(ctx, latchKey{}, s), release, nil
	default:
	}

	timer := time.NewTimer(s.cfg.LatchTimeout)
	defer timer.Stop()

	select {
	case s.latch <- struct{}{}:
		return context.WithValue(ctx, latchKey{}, s), release, nil
	case <-ctx.Done():
		return ctx, nil, ctx.Err()
	case <-timer.C:
		return ctx, nil, core.ErrReentrantCall
	}
}

func (s *service) inside(ctx context.Context) bool {
	owner, _ := ctx.Value(latchKey{}).(*service)
	return owner == s
}

// run executes fn and the transfers it queued as one atomic operation
func (s *service) run(ctx context.Context, name, account string, fn func(ctx context.Context, op *operation) error) error {
	ctx, release, err := s.enter(ctx)
	if err != nil {
		metrics.Vault().ObserveRejection(name, core.CodeOf(err).String())
		logger.FromContext(ctx).WithField("op", name).Infoln("reentrant call rejected")
		return err
	}
	defer release()

	op := newOperation(s, name, id.GenTraceID(), s.now())
	log := logger.FromContext(ctx).WithFields(logrus.Fields{
		"op":       name,
		"account":  account,
		"trace_id": op.traceID,
	})
	ctx = logger.WithContext(ctx, log)

	err = s.store.Tx(ctx, func(tx core.LedgerTx) error {
		op.tx = tx
		if err := fn(ctx, op); err != nil {
			return err
		}

		if err := op.flush(); err != nil {
			return err
		}

		// last point an operation can be abandoned, once funds move it commits
		if err := ctx.Err(); err != nil {
			return err
		}

		return op.journal.execute(context.WithoutCancel(ctx))
	})

	if err != nil {
		op.journal.undo(ctx)

		code := core.CodeOf(err)
		metrics.Vault().ObserveRejection(name, code.String())
		if code == core.ErrUnknown {
			log.WithError(err).Errorln("operation failed")
		} else {
			log.WithError(err).Infoln("operation rejected")
		}

		return err
	}

	metrics.Vault().ObserveOperation(name)
	op.report(ctx)
	return nil
}

// view runs fn against the committed state
func (s *service) view(ctx context.Context, fn func(tx core.LedgerTx) error) error {
	if s.inside(ctx) {
		return core.ErrReentrantCall
	}

	return s.store.View(ctx, fn)
}
