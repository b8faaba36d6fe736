package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Position collateral and debt of one account
type Position struct {
	Account    string          `sql:"size:64;PRIMARY_KEY" json:"account"`
	Collateral decimal.Decimal `sql:"type:decimal(64,18)" json:"collateral"`
	// debt including accrued interest
	Debt decimal.Decimal `sql:"type:decimal(64,18)" json:"debt"`
	// time of the last interest accrual
	LastAccrued time.Time `json:"last_accrued"`
	// cumulative interest ever added to this position
	AccruedInterestTotal decimal.Decimal `sql:"type:decimal(64,18)" json:"accrued_interest_total"`
	Version              int64           `sql:"default:0" json:"version"`
	CreatedAt            time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt            time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// IsEmpty collateral and debt are both zero
func (p *Position) IsEmpty() bool {
	return p.Collateral.IsZero() && p.Debt.IsZero()
}

// HasDebt has outstanding debt
func (p *Position) HasDebt() bool {
	return p.Debt.IsPositive()
}

// Market the global aggregates of the ledger
type Market struct {
	ID              int64           `sql:"PRIMARY_KEY" json:"-"`
	TotalCollateral decimal.Decimal `sql:"type:decimal(64,18)" json:"total_collateral"`
	TotalDebt       decimal.Decimal `sql:"type:decimal(64,18)" json:"total_debt"`
	Version         int64           `sql:"default:0" json:"version"`
	UpdatedAt       time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// RegistryEntry account believed to be liquidatable, idx is its slot in the list
type RegistryEntry struct {
	Account string `sql:"size:64;PRIMARY_KEY" json:"account"`
	Idx     int64  `sql:"index:idx_registry_entries_idx" json:"idx"`
}

// LedgerTx reads and writes the ledger state inside one atomic unit
type LedgerTx interface {
	// FindPosition returns the zero position if the account never deposited
	FindPosition(account string) (*Position, error)
	SavePosition(position *Position) error
	Positions() ([]*Position, error)

	FindMarket() (*Market, error)
	SaveMarket(market *Market) error

	InRegistry(account string) (bool, error)
	AddToRegistry(account string) error
	// RemoveFromRegistry moves the last entry into the removed slot
	RemoveFromRegistry(account string) error
	Registry() ([]string, error)

	CreateEvents(events ...*Event) error
	ListEvents(account string, fromID int64, limit int) ([]*Event, error)
}

// LedgerStore persistence of positions, aggregates, registry and events
type LedgerStore interface {
	// Tx commits every write made by fn, or none of them if fn fails
	Tx(ctx context.Context, fn func(tx LedgerTx) error) error
	// View runs fn against the committed state, writes are discarded
	View(ctx context.Context, fn func(tx LedgerTx) error) error
}

// PositionView position with derived risk values
type PositionView struct {
	*Position
	HealthFactor decimal.Decimal `json:"health_factor"`
	MaxBorrow    decimal.Decimal `json:"max_borrow"`
	MaxWithdraw  decimal.Decimal `json:"max_withdraw"`
	Liquidatable bool            `json:"liquidatable"`
	InRegistry   bool            `json:"in_registry"`
}

// ILedgerService position ledger and liquidation engine
type ILedgerService interface {
	Deposit(ctx context.Context, account string, amount decimal.Decimal) error
	Withdraw(ctx context.Context, account string, amount decimal.Decimal) error
	Borrow(ctx context.Context, account string, amount decimal.Decimal) error
	Repay(ctx context.Context, account string, amount decimal.Decimal) error
	Liquidate(ctx context.Context, liquidator, account string, maxRepay decimal.Decimal) (*LiquidationResult, error)
	UpdateLiquidationStatus(ctx context.Context, account string) (bool, error)
	SweepRegistry(ctx context.Context, caller string, max int) (int, error)

	GetPosition(ctx context.Context, account string) (*PositionView, error)
	GetHealthFactor(ctx context.Context, account string) (decimal.Decimal, error)
	GetMaxBorrow(ctx context.Context, account string) (decimal.Decimal, error)
	GetMaxWithdraw(ctx context.Context, account string) (decimal.Decimal, error)
	IsLiquidatable(ctx context.Context, account string) (bool, error)
	GetTVL(ctx context.Context) (decimal.Decimal, error)
	GetMarket(ctx context.Context) (*Market, error)
	Registry(ctx context.Context) ([]string, error)
	Borrowers(ctx context.Context) ([]string, error)
	Events(ctx context.Context, account string, fromID int64, limit int) ([]*Event, error)
}

// LiquidationResult amounts moved by one liquidation
type LiquidationResult struct {
	Account         string          `json:"account"`
	Liquidator      string          `json:"liquidator"`
	Repaid          decimal.Decimal `json:"repaid"`
	Seized          decimal.Decimal `json:"seized"`
	Price           decimal.Decimal `json:"price"`
	HealthBefore    decimal.Decimal `json:"health_before"`
	HealthAfter     decimal.Decimal `json:"health_after"`
	StillInRegistry bool            `json:"still_in_registry"`
}
