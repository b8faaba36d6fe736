package ledger

import (
	"context"
	"fmt"
	"time"

	"twapvault/core"
	"twapvault/pkg/lending"
	"twapvault/pkg/metrics"

	"github.com/fatih/structs"
	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/uuid"
	"github.com/shopspring/decimal"
)

// operation state of one ledger operation inside its store transaction
type operation struct {
	s       *service
	name    string
	traceID string
	now     time.Time

	tx      core.LedgerTx
	market  *core.Market
	price   *decimal.Decimal
	journal journal
	events  []*core.Event

	registryTouched bool
	registrySize    int
}

func newOperation(s *service, name, traceID string, now time.Time) *operation {
	return &operation{
		s:       s,
		name:    name,
		traceID: traceID,
		now:     now,
	}
}

// load the position and the market, accruing the position's interest into both
func (op *operation) load(account string) (*core.Position, decimal.Decimal, error) {
	position, err := op.tx.FindPosition(account)
	if err != nil {
		return nil, decimal.Zero, err
	}

	if op.market == nil {
		if op.market, err = op.tx.FindMarket(); err != nil {
			return nil, decimal.Zero, err
		}
	}

	interest := lending.AccrueInterest(position, op.now)
	op.market.TotalDebt = op.market.TotalDebt.Add(interest)
	return position, interest, nil
}

// save the position and the market, stamping the accrual time
func (op *operation) save(position *core.Position) error {
	position.LastAccrued = op.now
	if err := op.tx.SavePosition(position); err != nil {
		return err
	}

	return op.tx.SaveMarket(op.market)
}

// priceOf the twap price, fetched once per operation
func (op *operation) priceOf(ctx context.Context) (decimal.Decimal, error) {
	if op.price != nil {
		return *op.price, nil
	}

	price, err := op.s.oracle.GetTwapPrice(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	op.price = &price
	return price, nil
}

func (op *operation) emit(typ core.EventType, account, counterparty string, amount decimal.Decimal, extra core.EventExtra) {
	event := &core.Event{
		TraceID:      uuid.Modify(op.traceID, fmt.Sprintf("%s:%d", typ, len(op.events))),
		Type:         typ,
		Account:      account,
		Counterparty: counterparty,
		Amount:       amount,
		CreatedAt:    op.now,
	}

	if extra != nil {
		event.Extra = extra.Format()
	}

	op.events = append(op.events, event)
}

func (op *operation) emitPositionUpdated(position *core.Position) {
	op.emit(core.EventPositionUpdated, position.Account, "", decimal.Zero, core.NewEventExtra().
		Put(core.EventKeyCollateral, position.Collateral).
		Put(core.EventKeyDebt, position.Debt))
}

// flush persists the events and samples the registry size
func (op *operation) flush() error {
	if len(op.events) > 0 {
		if err := op.tx.CreateEvents(op.events...); err != nil {
			return err
		}
	}

	if op.registryTouched {
		list, err := op.tx.Registry()
		if err != nil {
			return err
		}
		op.registrySize = len(list)
	}

	return nil
}

type eventLog struct {
	Type         core.EventType `structs:"event"`
	TraceID      string         `structs:"event_trace_id"`
	Account      string         `structs:"account"`
	Counterparty string         `structs:"counterparty,omitempty"`
	Amount       string         `structs:"amount"`
	Extra        string         `structs:"extra,omitempty"`
}

// report logs the committed events and updates the gauges
func (op *operation) report(ctx context.Context) {
	log := logger.FromContext(ctx)
	for _, e := range op.events {
		log.WithFields(structs.Map(eventLog{
			Type:         e.Type,
			TraceID:      e.TraceID,
			Account:      e.Account,
			Counterparty: e.Counterparty,
			Amount:       e.Amount.String(),
			Extra:        e.Extra.String(),
		})).Infoln("event")
	}

	if op.market != nil {
		metrics.Vault().SetTotals(op.market.TotalCollateral.InexactFloat64(), op.market.TotalDebt.InexactFloat64())
	}

	if op.registryTouched {
		metrics.Vault().SetRegistrySize(op.registrySize)
	}
}

type transfer struct {
	asset  core.AssetService
	pull   bool
	from   string
	to     string
	amount decimal.Decimal
}

// journal transfers queued by an operation. Pulls run before pushes and the
// executed pulls are refunded when anything after them fails.
type journal struct {
	pending []transfer
	done    []transfer
}

// pull owner's funds into the vault
func (j *journal) pull(asset core.AssetService, owner, vault string, amount decimal.Decimal) {
	j.pending = append(j.pending, transfer{asset: asset, pull: true, from: owner, to: vault, amount: amount})
}

// push vault funds to the receiver
func (j *journal) push(asset core.AssetService, vault, to string, amount decimal.Decimal) {
	j.pending = append(j.pending, transfer{asset: asset, from: vault, to: to, amount: amount})
}

func (j *journal) execute(ctx context.Context) error {
	for _, pull := range []bool{true, false} {
		for _, t := range j.pending {
			if t.pull != pull || !t.amount.IsPositive() {
				continue
			}

			var err error
			if t.pull {
				err = t.asset.TransferFrom(ctx, t.from, t.to, t.amount)
			} else {
				err = t.asset.Transfer(ctx, t.to, t.amount)
			}

			if err != nil {
				return err
			}

			j.done = append(j.done, t)
		}
	}

	j.pending = nil
	return nil
}

// undo refunds executed pulls, executed pushes can only be reported
func (j *journal) undo(ctx context.Context) {
	log := logger.FromContext(ctx)

	for i := len(j.done) - 1; i >= 0; i-- {
		t := j.done[i]
		if !t.pull {
			log.WithField("to", t.to).WithField("amount", t.amount).Errorln("push can not be reverted")
			continue
		}

		if err := t.asset.Transfer(ctx, t.from, t.amount); err != nil {
			log.WithError(err).WithField("owner", t.from).WithField("amount", t.amount).Errorln("refund pull")
		}
	}

	j.done = nil
}
