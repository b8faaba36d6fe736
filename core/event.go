package core

import (
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
)

// EventType event type
type EventType string

const (
	EventDeposit                EventType = "Deposit"
	EventWithdraw               EventType = "Withdraw"
	EventBorrow                 EventType = "Borrow"
	EventRepay                  EventType = "Repay"
	EventLiquidate              EventType = "Liquidate"
	EventPositionUpdated        EventType = "PositionUpdated"
	EventLiquidationListCleaned EventType = "LiquidationListCleaned"
	EventPriceUpdated           EventType = "PriceUpdated"
	EventMinLiquidityUpdated    EventType = "MinLiquidityUpdated"
)

const (
	// EventKeyCollateral collateral after the operation
	EventKeyCollateral = "collateral"
	// EventKeyDebt debt after the operation
	EventKeyDebt = "debt"
	// EventKeyInterest interest accrued by the operation
	EventKeyInterest = "interest"
	// EventKeyPrice price used by the operation
	EventKeyPrice = "price"
	// EventKeySeized collateral seized by a liquidation
	EventKeySeized = "seized"
	// EventKeyRemoved registry entries removed by a sweep
	EventKeyRemoved = "removed"
	// EventKeyRemaining registry entries left after a sweep
	EventKeyRemaining = "remaining"
)

// Event notification emitted by a ledger operation
type Event struct {
	ID           int64           `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	TraceID      string          `sql:"size:36;unique_index:idx_events_trace_id" json:"trace_id,omitempty"`
	Type         EventType       `sql:"size:32" json:"type,omitempty"`
	Account      string          `sql:"size:64;index:idx_events_account" json:"account,omitempty"`
	Counterparty string          `sql:"size:64" json:"counterparty,omitempty"`
	Amount       decimal.Decimal `sql:"type:decimal(64,18)" json:"amount"`
	Extra        types.JSONText  `sql:"type:varchar(1024)" json:"extra,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// EventExtra extra data
type EventExtra map[string]interface{}

// NewEventExtra new event extra instance
func NewEventExtra() EventExtra {
	return make(EventExtra)
}

// Put put data
func (e EventExtra) Put(key string, value interface{}) EventExtra {
	e[key] = value
	return e
}

// Format format as []byte by default
func (e EventExtra) Format() []byte {
	bs, err := json.Marshal(e)
	if err != nil {
		return []byte("{}")
	}

	return bs
}

// UnmarshalExtra decode extra data into v
func (e *Event) UnmarshalExtra(v interface{}) error {
	if len(e.Extra) == 0 {
		return nil
	}

	return json.Unmarshal(e.Extra, v)
}
